package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

const productColumns = "id, sku, name, description, price, quantity, category, version, created_at, updated_at"

type productRepo struct {
	s *Store
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.Category, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	var where []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}
	if filter.Query != "" {
		args = append(args, containsPattern(filter.Query))
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	row := r.s.q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	return scanProduct(row)
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*models.Product, error) {
	row := r.s.q.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1"+r.s.forUpdate(), id)
	return scanProduct(row)
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	p.ID = r.s.newID()
	p.Version = 1
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := r.s.q.ExecContext(ctx, `
		INSERT INTO products (id, sku, name, description, price, quantity, category, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Quantity, p.Category, p.Version, p.CreatedAt, p.UpdatedAt)
	return translate(err)
}

func (r *productRepo) Patch(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (*models.Product, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.SKU != nil {
		set("sku", *patch.SKU)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Quantity != nil {
		set("quantity", *patch.Quantity)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	set("updated_at", updatedAt)
	sets = append(sets, "version = version + 1")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if patch.Version != nil {
		args = append(args, *patch.Version)
		query += fmt.Sprintf(" AND version = $%d", len(args))
	}
	query += " RETURNING " + productColumns

	p, err := scanProduct(r.s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, store.ErrNotFound) && patch.Version != nil {
		return nil, r.missingOrConflict(ctx, id)
	}
	return p, err
}

// missingOrConflict tells apart an absent row from a version mismatch after a
// conditional update touched nothing.
func (r *productRepo) missingOrConflict(ctx context.Context, id string) error {
	var version int
	err := r.s.q.QueryRowContext(ctx, "SELECT version FROM products WHERE id = $1", id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: product %s", store.ErrConflict, id)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	result, err := r.s.q.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return translate(err)
	}
	return checkAffected(result)
}
