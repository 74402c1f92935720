package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

const orderColumns = "id, customer_email, items, total_amount, status, created_at, cancelled_at"

type orderRepo struct {
	s *Store
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var cancelledAt sql.NullTime
	err := row.Scan(&o.ID, &o.CustomerEmail, &o.Items, &o.TotalAmount, &o.Status, &o.CreatedAt, &cancelledAt)
	if err != nil {
		return nil, translate(err)
	}
	if cancelledAt.Valid {
		o.CancelledAt = &cancelledAt.Time
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.s.q.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(r.s.q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(r.s.q.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1"+r.s.forUpdate(), id))
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	o.ID = r.s.newID()
	_, err := r.s.q.ExecContext(ctx, `
		INSERT INTO orders (id, customer_email, items, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.CustomerEmail, o.Items, o.TotalAmount, o.Status, o.CreatedAt)
	return translate(err)
}

func (r *orderRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	result, err := r.s.q.ExecContext(ctx, `
		UPDATE orders SET status = $1, cancelled_at = $2
		WHERE id = $3 AND status = $4`,
		models.OrderStatusCancelled, at, id, models.OrderStatusPlaced)
	if err != nil {
		return translate(err)
	}
	if err := checkAffected(result); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: order %s is not placed", store.ErrConflict, id)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	result, err := r.s.q.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return translate(err)
	}
	return checkAffected(result)
}
