package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

// labelSize is the edge length in pixels of a product label.
const labelSize = 256

// InventoryService manages the product catalogue.
type InventoryService struct {
	store store.Store
	now   func() time.Time
}

func NewInventoryService(s store.Store) *InventoryService {
	return &InventoryService{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *InventoryService) GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.store.Products().List(ctx, filter)
}

func (s *InventoryService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.store.Products().Get(ctx, id)
}

// Create stores a new product. A SKU already in use fails with store.ErrDuplicate.
func (s *InventoryService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := checkStockLevels(product.Price, product.Quantity); err != nil {
		return nil, err
	}

	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product %s: %w", product.SKU, err)
	}

	log.Printf("[INVENTORY] Product %s (%s) created with %d units", product.ID, product.SKU, product.Quantity)
	return product, nil
}

// Update applies a partial edit. A set patch.Version makes it conditional.
func (s *InventoryService) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, invalid("quantity", "must not be negative")
	}
	if patch.IsEmpty() {
		return s.store.Products().Get(ctx, id)
	}

	product, err := s.store.Products().Patch(ctx, id, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	log.Printf("[INVENTORY] Product %s updated to version %d", id, product.Version)
	return product, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	log.Printf("[INVENTORY] Product %s deleted", id)
	return nil
}

// Label renders the product SKU as a PNG QR code for shelf labels.
func (s *InventoryService) Label(ctx context.Context, id string) ([]byte, error) {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(product.SKU, qrcode.Medium, labelSize)
	if err != nil {
		return nil, fmt.Errorf("encode label for %s: %w", product.SKU, err)
	}
	return png, nil
}

func checkStockLevels(price models.Money, quantity int) error {
	if price < 0 {
		return invalid("price", "must not be negative")
	}
	if quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}
