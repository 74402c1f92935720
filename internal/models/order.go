package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Order status
const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is one order line. ProductName and Price are copied from the
// product when the order is placed.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() (Money, error) {
	return i.Price.Mul(i.Quantity)
}

// Order is a placed customer order.
type Order struct {
	ID            string     `json:"id" db:"id"`
	CustomerEmail string     `json:"customerEmail" db:"customer_email"`
	Items         OrderItems `json:"items" db:"items"`
	TotalAmount   Money      `json:"totalAmount" db:"total_amount"`
	Status        string     `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
}

// OrderItems type for the JSONB items column
type OrderItems []OrderItem

// Total sums the subtotals of all items. It fails with ErrOverflow instead
// of wrapping around.
func (items OrderItems) Total() (Money, error) {
	var total Money
	for _, item := range items {
		sub, err := item.Subtotal()
		if err != nil {
			return 0, fmt.Errorf("item %s: %w", item.ProductID, err)
		}
		if total, err = total.Add(sub); err != nil {
			return 0, fmt.Errorf("order total: %w", err)
		}
	}
	return total, nil
}

// Value implements driver.Valuer for OrderItems
func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner for OrderItems
func (items *OrderItems) Scan(value any) error {
	if value == nil {
		*items = nil
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, items)
}
