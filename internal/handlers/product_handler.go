package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/services"
)

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	SKU         string       `json:"sku" validate:"required,max=64" example:"LAP-001"`
	Name        string       `json:"name" validate:"required,max=200" example:"Laptop Pro 14"`
	Description string       `json:"description" validate:"max=2000"`
	Price       models.Money `json:"price" validate:"gte=0" swaggertype:"number" example:"1299.99"`
	Quantity    int          `json:"quantity" validate:"gte=0" example:"10"`
	Category    string       `json:"category" validate:"max=100" example:"Computers"`
}

// UpdateProductRequest is the body of PATCH /products/{id}. Omitted fields
// are left unchanged; version makes the update conditional.
type UpdateProductRequest struct {
	SKU         *string       `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Name        *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *models.Money `json:"price,omitempty" validate:"omitempty,gte=0" swaggertype:"number"`
	Quantity    *int          `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Category    *string       `json:"category,omitempty" validate:"omitempty,max=100"`
	Version     *int          `json:"version,omitempty" validate:"omitempty,gte=1"`
}

type ProductHandler struct {
	service   *services.InventoryService
	validator *services.ValidationHelper
}

func NewProductHandler(service *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// List returns the catalogue
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free text over name, SKU and category"
// @Param category query string false "Exact category"
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context(), models.ProductFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns one product
// @Summary Get product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create adds a product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse "SKU already exists"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	product, err := h.service.Create(r.Context(), &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update edits a product
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Changed fields"
// @Success 200 {object} models.Product
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse "Version conflict or SKU taken"
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), models.ProductPatch{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Version:     req.Version,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete removes a product
// @Summary Delete product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Label renders the product SKU as a QR code
// @Summary Product shelf label
// @Description PNG QR code encoding the product SKU
// @Tags products
// @Produce png
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {file} binary
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id}/label [get]
func (h *ProductHandler) Label(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.Label(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
