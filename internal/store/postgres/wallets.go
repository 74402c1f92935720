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

const walletColumns = "id, owner_email, balance, version, created_at, updated_at"

type walletRepo struct {
	s *Store
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.OwnerEmail, &w.Balance, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *walletRepo) List(ctx context.Context) ([]models.Wallet, error) {
	rows, err := r.s.q.QueryContext(ctx, "SELECT "+walletColumns+" FROM wallets ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := []models.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

func (r *walletRepo) Get(ctx context.Context, id string) (*models.Wallet, error) {
	return scanWallet(r.s.q.QueryRowContext(ctx, "SELECT "+walletColumns+" FROM wallets WHERE id = $1", id))
}

func (r *walletRepo) GetForUpdate(ctx context.Context, id string) (*models.Wallet, error) {
	return scanWallet(r.s.q.QueryRowContext(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE id = $1"+r.s.forUpdate(), id))
}

func (r *walletRepo) Create(ctx context.Context, w *models.Wallet) error {
	w.ID = r.s.newID()
	w.Version = 1
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = w.CreatedAt
	}
	_, err := r.s.q.ExecContext(ctx, `
		INSERT INTO wallets (id, owner_email, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.OwnerEmail, w.Balance, w.Version, w.CreatedAt, w.UpdatedAt)
	return translate(err)
}

func (r *walletRepo) Patch(ctx context.Context, id string, patch models.WalletPatch, updatedAt time.Time) (*models.Wallet, error) {
	sets := []string{"updated_at = $1", "version = version + 1"}
	args := []any{updatedAt}
	if patch.Balance != nil {
		args = append(args, *patch.Balance)
		sets = append(sets, fmt.Sprintf("balance = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE wallets SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if patch.Version != nil {
		args = append(args, *patch.Version)
		query += fmt.Sprintf(" AND version = $%d", len(args))
	}
	query += " RETURNING " + walletColumns

	w, err := scanWallet(r.s.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, store.ErrNotFound) && patch.Version != nil {
		var version int
		lookupErr := r.s.q.QueryRowContext(ctx, "SELECT version FROM wallets WHERE id = $1", id).Scan(&version)
		if errors.Is(lookupErr, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		if lookupErr != nil {
			return nil, lookupErr
		}
		return nil, fmt.Errorf("%w: wallet %s", store.ErrConflict, id)
	}
	return w, err
}
