// Package postgres implements store.Store on PostgreSQL through database/sql
// and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/eshop/backoffice/internal/store"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// foreignKeyViolation is the SQLSTATE for foreign_key_violation.
const foreignKeyViolation = "23503"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL record store. A Store returned by RunInTx is bound
// to the open transaction.
type Store struct {
	db    *sql.DB
	q     querier
	inTx  bool
	newID func() string
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db, newID: uuid.NewString}
}

func (s *Store) Products() store.ProductRepository         { return &productRepo{s} }
func (s *Store) Orders() store.OrderRepository             { return &orderRepo{s} }
func (s *Store) Wallets() store.WalletRepository           { return &walletRepo{s} }
func (s *Store) Transactions() store.TransactionRepository { return &transactionRepo{s} }

func (s *Store) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx, inTx: true, newID: s.newID}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// forUpdate returns the row locking clause when running inside a transaction.
func (s *Store) forUpdate() string {
	if s.inTx {
		return " FOR UPDATE"
	}
	return ""
}

// translate maps driver errors onto the store error taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrDuplicate, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q as a literal substring.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
