package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/eshop/backoffice/internal/audit"
	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID string `json:"productId" validate:"required" example:"2b1c9a4e-6f55-4c1b-9d8e-3f0a2d7c5b11"`
	Quantity  int    `json:"quantity" validate:"required,gt=0" example:"2"`
}

// OrderService places orders against the inventory.
type OrderService struct {
	store store.Store
	audit *audit.Logger
	now   func() time.Time
}

func NewOrderService(s store.Store, auditLogger *audit.Logger) *OrderService {
	if auditLogger == nil {
		auditLogger = audit.NewLogger(nil)
	}
	return &OrderService{
		store: s,
		audit: auditLogger,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder checks every line against stock, deducts it and records the
// order, all in one unit of work. Lines for the same product are summed. If
// any product is short the order fails with *InsufficientStockError and
// nothing changes.
func (s *OrderService) PlaceOrder(ctx context.Context, customerEmail string, lines []OrderLine) (*models.Order, error) {
	customerEmail = strings.ToLower(strings.TrimSpace(customerEmail))
	if customerEmail == "" {
		return nil, invalid("customerEmail", "is required")
	}
	requested, ids, err := aggregateLines(lines)
	if err != nil {
		return nil, err
	}

	// Locks are taken in id order so two orders touching the same products
	// cannot deadlock.
	locked := make([]string, len(ids))
	copy(locked, ids)
	sort.Strings(locked)

	var order *models.Order
	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		products := make(map[string]*models.Product, len(locked))
		for _, id := range locked {
			p, err := tx.Products().GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			products[id] = p
		}

		for _, id := range ids {
			p := products[id]
			if p.Quantity < requested[id] {
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Quantity,
					Requested:   requested[id],
				}
			}
		}

		now := s.now()
		for _, id := range locked {
			p := products[id]
			remaining := p.Quantity - requested[id]
			version := p.Version
			if _, err := tx.Products().Patch(ctx, id, models.ProductPatch{
				Quantity: &remaining,
				Version:  &version,
			}, now); err != nil {
				return fmt.Errorf("reserve stock for %s: %w", id, err)
			}
		}

		items := make(models.OrderItems, 0, len(ids))
		for _, id := range ids {
			p := products[id]
			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    requested[id],
				Price:       p.Price,
			})
		}
		total, err := items.Total()
		if err != nil {
			return err
		}
		order = &models.Order{
			CustomerEmail: customerEmail,
			Items:         items,
			TotalAmount:   total,
			Status:        models.OrderStatusPlaced,
			CreatedAt:     now,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("record order: %w", err)
		}
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			s.audit.LogError("place_order", customerEmail, err)
		}
		return nil, err
	}

	log.Printf("[ORDER] Order %s placed for %s: %d lines, total %s",
		order.ID, customerEmail, len(order.Items), order.TotalAmount)
	s.audit.LogOrder(audit.EventOrderPlaced, order.ID, int64(order.TotalAmount), map[string]any{
		"customerEmail": customerEmail,
		"items":         len(order.Items),
	})
	return order, nil
}

// aggregateLines sums quantities per product. ids keeps first-seen order.
func aggregateLines(lines []OrderLine) (map[string]int, []string, error) {
	if len(lines) == 0 {
		return nil, nil, invalid("items", "must contain at least one item")
	}
	requested := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, nil, invalid(fmt.Sprintf("items[%d].productId", i), "is required")
		}
		if line.Quantity <= 0 {
			return nil, nil, invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		sum, seen := requested[line.ProductID]
		if !seen {
			ids = append(ids, line.ProductID)
		}
		if sum > math.MaxInt-line.Quantity {
			return nil, nil, invalid(fmt.Sprintf("items[%d].quantity", i), "total quantity for the product is too large")
		}
		requested[line.ProductID] = sum + line.Quantity
	}
	return requested, ids, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().List(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return s.store.Orders().Get(ctx, id)
}

// DeleteOrder removes the order record. Stock is not restored; use
// CancelOrder for that.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.store.Orders().Get(ctx, id)
	if err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	if err := s.store.Orders().Delete(ctx, id); err != nil {
		s.audit.LogError("delete_order", id, err)
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	log.Printf("[ORDER] Order %s deleted", id)
	s.audit.LogOrder(audit.EventOrderDeleted, id, int64(order.TotalAmount), map[string]any{
		"status": order.Status,
	})
	return nil
}

// CancelOrder returns every item's quantity to stock and marks the order
// cancelled. Products deleted since the order was placed are skipped.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	var cancelled *models.Order
	var skipped []string
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("order %s: %w", id, err)
		}
		if order.Status == models.OrderStatusCancelled {
			return ErrOrderCancelled
		}

		now := s.now()
		items := append(models.OrderItems(nil), order.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
		for _, item := range items {
			p, err := tx.Products().GetForUpdate(ctx, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				skipped = append(skipped, item.ProductID)
				continue
			}
			if err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
			if p.Quantity > math.MaxInt-item.Quantity {
				return fmt.Errorf("restore stock for %s: %w", p.ID, models.ErrOverflow)
			}
			restored := p.Quantity + item.Quantity
			version := p.Version
			if _, err := tx.Products().Patch(ctx, p.ID, models.ProductPatch{
				Quantity: &restored,
				Version:  &version,
			}, now); err != nil {
				return fmt.Errorf("restore stock for %s: %w", p.ID, err)
			}
		}

		if err := tx.Orders().MarkCancelled(ctx, id, now); err != nil {
			return fmt.Errorf("cancel order %s: %w", id, err)
		}
		order.Status = models.OrderStatusCancelled
		order.CancelledAt = &now
		cancelled = order
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrOrderCancelled) {
			s.audit.LogError("cancel_order", id, err)
		}
		return nil, err
	}

	log.Printf("[ORDER] Order %s cancelled, stock restored", id)
	details := map[string]any{"items": len(cancelled.Items)}
	if len(skipped) > 0 {
		details["skippedProducts"] = skipped
	}
	s.audit.LogOrder(audit.EventOrderCancelled, id, int64(cancelled.TotalAmount), details)
	return cancelled, nil
}
