package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshop/backoffice/internal/services"
)

// PlaceOrderRequest is the body of POST /orders
type PlaceOrderRequest struct {
	CustomerEmail string               `json:"customerEmail" validate:"required,email" example:"jane@example.com"`
	Items         []services.OrderLine `json:"items" validate:"required,min=1,dive"`
}

type OrderHandler struct {
	service   *services.OrderService
	validator *services.ValidationHelper
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// List returns every order, newest first
// @Summary List orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get returns one order
// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Place creates an order and deducts stock
// @Summary Place order
// @Description All items are checked against stock first; one short item rejects the order.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body PlaceOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse "Unknown product"
// @Failure 409 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse "Insufficient stock"
// @Router /orders [post]
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req.CustomerEmail, req.Items)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Delete removes an order without restoring stock
// @Summary Delete order
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cancel cancels an order and restores its stock
// @Summary Cancel order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse "Already cancelled"
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
