package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

func TestLedgerService_CreateWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("starts at zero", func(t *testing.T) {
		w, err := f.ledger.CreateWallet(ctx, " Jane@Example.com ")
		require.NoError(t, err)
		assert.NotEmpty(t, w.ID)
		assert.Equal(t, "jane@example.com", w.OwnerEmail)
		assert.Equal(t, models.Money(0), w.Balance)
		assert.Equal(t, 1, w.Version)
	})

	t.Run("owner email is not unique", func(t *testing.T) {
		first, err := f.ledger.CreateWallet(ctx, "dup@example.com")
		require.NoError(t, err)
		second, err := f.ledger.CreateWallet(ctx, "dup@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		mine, err := f.ledger.WalletForOwner(ctx, "DUP@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, mine.ID, "earliest wallet wins")
	})

	t.Run("owner required", func(t *testing.T) {
		_, err := f.ledger.CreateWallet(ctx, "  ")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("no wallet for owner", func(t *testing.T) {
		_, err := f.ledger.WalletForOwner(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestLedgerService_DepositWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.ledger.CreateWallet(ctx, "a@x.com")
	require.NoError(t, err)

	t.Run("deposit then withdraw", func(t *testing.T) {
		res, err := f.ledger.Deposit(ctx, w.ID, 10000, "", "")
		require.NoError(t, err)
		assert.Equal(t, models.Money(10000), res.Balance)
		assert.Equal(t, models.TransactionDeposit, res.Transaction.Type)
		assert.Equal(t, "Deposit", res.Transaction.Description)
		assert.NotEmpty(t, res.Transaction.ID)

		res, err = f.ledger.Withdraw(ctx, w.ID, 3000, "INV-1", "")
		require.NoError(t, err)
		assert.Equal(t, models.Money(7000), res.Balance)
		assert.Equal(t, "Withdrawal", res.Transaction.Description)
		assert.Equal(t, "INV-1", res.Transaction.Reference)

		txns, err := f.ledger.GetTransactions(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, models.TransactionWithdraw, txns[0].Type, "newest first")
		assert.Equal(t, models.Money(3000), txns[0].Amount)
		assert.Equal(t, models.TransactionDeposit, txns[1].Type)
	})

	t.Run("insufficient balance leaves wallet untouched", func(t *testing.T) {
		before, err := f.ledger.GetWallet(ctx, w.ID)
		require.NoError(t, err)
		txnsBefore, err := f.ledger.GetTransactions(ctx, w.ID)
		require.NoError(t, err)

		_, err = f.ledger.Withdraw(ctx, w.ID, 7001, "", "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		after, err := f.ledger.GetWallet(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Balance, after.Balance)
		assert.Equal(t, before.Version, after.Version)
		txnsAfter, err := f.ledger.GetTransactions(ctx, w.ID)
		require.NoError(t, err)
		assert.Len(t, txnsAfter, len(txnsBefore))
		assert.Contains(t, f.auditBuf.String(), `"status":"FAILED"`)
	})

	t.Run("withdraw entire balance", func(t *testing.T) {
		res, err := f.ledger.Withdraw(ctx, w.ID, 7000, "", "")
		require.NoError(t, err)
		assert.Equal(t, models.Money(0), res.Balance)
	})

	t.Run("non positive amount", func(t *testing.T) {
		_, err := f.ledger.Deposit(ctx, w.ID, 0, "", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = f.ledger.Withdraw(ctx, w.ID, -5, "", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := f.ledger.Deposit(ctx, "missing", 100, "", "")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = f.ledger.GetTransactions(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("audited", func(t *testing.T) {
		out := f.auditBuf.String()
		assert.Contains(t, out, `"event_type":"DEPOSIT"`)
		assert.Contains(t, out, `"event_type":"WITHDRAW"`)
	})
}

// Two wallets, deposits on one, withdrawals on the other.
func TestLedgerService_GetAllTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.ledger.CreateWallet(ctx, "a@x.com")
	require.NoError(t, err)
	b, err := f.ledger.CreateWallet(ctx, "b@x.com")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := f.ledger.Deposit(ctx, a.ID, 100, "", "")
		require.NoError(t, err)
	}
	_, err = f.ledger.Deposit(ctx, b.ID, 500, "REF-42", "salary")
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, b.ID, 200, "", "")
	require.NoError(t, err)

	t.Run("default page", func(t *testing.T) {
		page, err := f.ledger.GetAllTransactions(ctx, models.TransactionFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 14, page.Total)
		assert.Equal(t, DefaultPageSize, page.PageSize)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Transactions, 10)
		assert.Equal(t, models.TransactionWithdraw, page.Transactions[0].Type)
		for i := 1; i < len(page.Transactions); i++ {
			assert.False(t, page.Transactions[i].CreatedAt.After(page.Transactions[i-1].CreatedAt))
		}
	})

	t.Run("second page", func(t *testing.T) {
		page, err := f.ledger.GetAllTransactions(ctx, models.TransactionFilter{}, 2, 10)
		require.NoError(t, err)
		assert.Len(t, page.Transactions, 4)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := f.ledger.GetAllTransactions(ctx, models.TransactionFilter{}, 9, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Transactions)
		assert.Equal(t, 14, page.Total)
	})

	t.Run("filters", func(t *testing.T) {
		page, err := f.ledger.GetAllTransactions(ctx, models.TransactionFilter{WalletID: b.ID}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)

		page, err = f.ledger.GetAllTransactions(ctx, models.TransactionFilter{Type: models.TransactionWithdraw}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		page, err = f.ledger.GetAllTransactions(ctx, models.TransactionFilter{Query: "ref-42"}, 1, 10)
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "salary", page.Transactions[0].Description)
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := f.ledger.GetAllTransactions(ctx, models.TransactionFilter{Type: "refund"}, 1, 10)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestLedgerService_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.ledger.CreateWallet(ctx, "a@x.com")
	require.NoError(t, err)
	for _, amount := range []models.Money{2500, 1250, 99} {
		_, err := f.ledger.Deposit(ctx, w.ID, amount, "", "")
		require.NoError(t, err)
	}
	_, err = f.ledger.Withdraw(ctx, w.ID, 1000, "", "")
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, w.ID, 5000, "", "")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	summary, err := f.ledger.Summary(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(3849), summary.TotalDeposits)
	assert.Equal(t, models.Money(1000), summary.TotalWithdrawals)
	assert.Equal(t, models.Money(2849), summary.LedgerBalance)
	assert.Equal(t, summary.Wallet.Balance, summary.LedgerBalance)
	assert.Equal(t, 4, summary.TransactionCount)
	assert.True(t, summary.Reconciled)

	_, err = f.ledger.Summary(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedgerService_ConcurrentWithdrawals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.ledger.CreateWallet(ctx, "race@x.com")
	require.NoError(t, err)
	_, err = f.ledger.Deposit(ctx, w.ID, 1000, "", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, rejected int
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Withdraw(ctx, w.ID, 100, "", "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientBalance):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, rejected)

	summary, err := f.ledger.Summary(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), summary.Wallet.Balance)
	assert.True(t, summary.Reconciled)
}

func TestLedgerService_DepositOverflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.ledger.CreateWallet(ctx, "rich@x.com")
	require.NoError(t, err)

	_, err = f.ledger.Deposit(ctx, w.ID, math.MaxInt64, "", "")
	require.NoError(t, err)

	_, err = f.ledger.Deposit(ctx, w.ID, 1, "", "")
	assert.ErrorIs(t, err, models.ErrOverflow)

	got, err := f.ledger.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(math.MaxInt64), got.Balance)

	txns, err := f.ledger.GetTransactions(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1, "rejected deposit leaves no transaction")

	summary, err := f.ledger.Summary(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, summary.Reconciled)
}
