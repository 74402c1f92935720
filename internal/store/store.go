// Package store defines the record store the engines persist through.
//
// Every collection offers the same small contract: list, get, create, patch and
// delete, with ErrNotFound for absent ids. Writes made through the Store handed
// to RunInTx are applied together or not at all.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/eshop/backoffice/internal/models"
)

var (
	// ErrNotFound is returned when the requested id is absent in a collection.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional write finds a different version.
	ErrConflict = errors.New("record was modified concurrently")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// Store gives access to every collection and to the unit of work boundary.
type Store interface {
	Products() ProductRepository
	Orders() OrderRepository
	Wallets() WalletRepository
	Transactions() TransactionRepository

	// RunInTx runs fn inside a unit of work. If fn returns an error nothing it
	// wrote is kept. Nested calls join the outer unit of work.
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}

type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	// GetForUpdate is Get that also holds the record until the unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*models.Product, error)
	// Create assigns ID and Version and stores the product.
	Create(ctx context.Context, product *models.Product) error
	Patch(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	GetForUpdate(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// MarkCancelled flips a placed order to cancelled.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type WalletRepository interface {
	List(ctx context.Context) ([]models.Wallet, error)
	Get(ctx context.Context, id string) (*models.Wallet, error)
	GetForUpdate(ctx context.Context, id string) (*models.Wallet, error)
	Create(ctx context.Context, wallet *models.Wallet) error
	Patch(ctx context.Context, id string, patch models.WalletPatch, updatedAt time.Time) (*models.Wallet, error)
}

// TransactionRepository is append-only.
type TransactionRepository interface {
	// List returns matching transactions, newest first.
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, txn *models.Transaction) error
}
