package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// faultStore replaces selected repositories of a real store, inside and
// outside units of work.
type faultStore struct {
	store.Store
	txns   store.TransactionRepository
	orders store.OrderRepository
}

func (s faultStore) Transactions() store.TransactionRepository {
	if s.txns != nil {
		return s.txns
	}
	return s.Store.Transactions()
}

func (s faultStore) Orders() store.OrderRepository {
	if s.orders != nil {
		return s.orders
	}
	return s.Store.Orders()
}

func (s faultStore) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.RunInTx(ctx, func(tx store.Store) error {
		return fn(faultStore{Store: tx, txns: s.txns, orders: s.orders})
	})
}
