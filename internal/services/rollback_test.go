package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

var errDiskFull = errors.New("disk full")

func TestLedgerService_RollsBackWhenTransactionLogFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.ledger.CreateWallet(ctx, "a@x.com")
	require.NoError(t, err)
	_, err = f.ledger.Deposit(ctx, w.ID, 5000, "", "")
	require.NoError(t, err)

	txns := new(MockTransactionRepository)
	txns.On("Create", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(errDiskFull)

	faulty := NewLedgerService(faultStore{Store: f.store, txns: txns}, nil)
	_, err = faulty.Withdraw(ctx, w.ID, 2000, "", "")
	assert.ErrorIs(t, err, errDiskFull)
	txns.AssertExpectations(t)

	got, err := f.ledger.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(5000), got.Balance, "balance write rolled back")
	assert.Equal(t, 2, got.Version)

	summary, err := f.ledger.Summary(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, summary.Reconciled)
}

func TestOrderService_RollsBackStockWhenOrderInsertFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.inventory.Create(ctx, newProduct("SSD-001", "SSD", "Storage", 8999, 4))
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(errDiskFull)

	faulty := NewOrderService(faultStore{Store: f.store, orders: orders}, nil)
	_, err = faulty.PlaceOrder(ctx, "c@x.com", []OrderLine{{ProductID: p.ID, Quantity: 3}})
	assert.ErrorIs(t, err, errDiskFull)
	orders.AssertExpectations(t)

	got, err := f.inventory.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, 1, got.Version)
}

func TestOrderService_DeletePropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orders.On("Get", mock.Anything, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusPlaced}, nil)
	orders.On("Delete", mock.Anything, "o1").Return(errDiskFull)

	svc := NewOrderService(faultStore{Store: f.store, orders: orders}, nil)
	err := svc.DeleteOrder(ctx, "o1")
	assert.ErrorIs(t, err, errDiskFull)
	orders.AssertExpectations(t)

	orders = new(MockOrderRepository)
	orders.On("Get", mock.Anything, "o2").Return(nil, store.ErrNotFound)
	svc = NewOrderService(faultStore{Store: f.store, orders: orders}, nil)
	assert.ErrorIs(t, svc.DeleteOrder(ctx, "o2"), store.ErrNotFound)
	orders.AssertNotCalled(t, "Delete", mock.Anything, "o2")
}
