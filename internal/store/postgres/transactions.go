package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/eshop/backoffice/internal/models"
)

const transactionColumns = "id, wallet_id, type, amount, reference, description, created_at"

type transactionRepo struct {
	s *Store
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Reference, &t.Description, &t.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *transactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM wallet_transactions"
	var where []string
	var args []any
	if filter.WalletID != "" {
		args = append(args, filter.WalletID)
		where = append(where, fmt.Sprintf("wallet_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, containsPattern(filter.Query))
		n := len(args)
		where = append(where, fmt.Sprintf("(reference ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, seq DESC"

	rows, err := r.s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (r *transactionRepo) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return scanTransaction(r.s.q.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM wallet_transactions WHERE id = $1", id))
}

func (r *transactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	t.ID = r.s.newID()
	_, err := r.s.q.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, reference, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.WalletID, t.Type, t.Amount, t.Reference, t.Description, t.CreatedAt)
	return translate(err)
}
