package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/eshop/backoffice/internal/audit"
	"github.com/eshop/backoffice/internal/models"
	"github.com/eshop/backoffice/internal/store"
)

const (
	defaultDepositDescription  = "Deposit"
	defaultWithdrawDescription = "Withdrawal"

	// DefaultPageSize is the transaction page size of the admin listing.
	DefaultPageSize = 10
	maxPageSize     = 100
)

// LedgerService owns wallet balances and their transaction log.
type LedgerService struct {
	store store.Store
	audit *audit.Logger
	now   func() time.Time
}

// LedgerResult is the outcome of a deposit or withdrawal.
type LedgerResult struct {
	Balance     models.Money       `json:"balance"`
	Transaction models.Transaction `json:"transaction"`
}

// WalletSummary totals a wallet's history and checks it against the balance.
type WalletSummary struct {
	Wallet           models.Wallet `json:"wallet"`
	TotalDeposits    models.Money  `json:"totalDeposits"`
	TotalWithdrawals models.Money  `json:"totalWithdrawals"`
	LedgerBalance    models.Money  `json:"ledgerBalance"`
	TransactionCount int           `json:"transactionCount"`
	Reconciled       bool          `json:"reconciled"`
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"pageSize"`
	Total        int                  `json:"total"`
	TotalPages   int                  `json:"totalPages"`
}

func NewLedgerService(s store.Store, auditLogger *audit.Logger) *LedgerService {
	if auditLogger == nil {
		auditLogger = audit.NewLogger(nil)
	}
	return &LedgerService{
		store: s,
		audit: auditLogger,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateWallet opens a wallet with a zero balance. Owner emails are not unique.
func (s *LedgerService) CreateWallet(ctx context.Context, ownerEmail string) (*models.Wallet, error) {
	ownerEmail = strings.ToLower(strings.TrimSpace(ownerEmail))
	if ownerEmail == "" {
		return nil, invalid("ownerEmail", "is required")
	}

	now := s.now()
	wallet := &models.Wallet{
		OwnerEmail: ownerEmail,
		Balance:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Wallets().Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	log.Printf("[LEDGER] Wallet %s created for %s", wallet.ID, ownerEmail)
	return wallet, nil
}

func (s *LedgerService) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.store.Wallets().List(ctx)
}

func (s *LedgerService) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	return s.store.Wallets().Get(ctx, id)
}

// WalletForOwner returns the earliest wallet opened for ownerEmail.
func (s *LedgerService) WalletForOwner(ctx context.Context, ownerEmail string) (*models.Wallet, error) {
	wallets, err := s.store.Wallets().List(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if strings.EqualFold(w.OwnerEmail, ownerEmail) {
			return &w, nil
		}
	}
	return nil, fmt.Errorf("wallet for %s: %w", ownerEmail, store.ErrNotFound)
}

// Deposit credits amount to the wallet and appends a deposit transaction.
func (s *LedgerService) Deposit(ctx context.Context, walletID string, amount models.Money, reference, description string) (*LedgerResult, error) {
	if description == "" {
		description = defaultDepositDescription
	}
	return s.apply(ctx, walletID, models.TransactionDeposit, amount, reference, description)
}

// Withdraw debits amount from the wallet and appends a withdraw transaction.
// It fails with ErrInsufficientBalance, leaving the wallet untouched, when
// amount exceeds the balance.
func (s *LedgerService) Withdraw(ctx context.Context, walletID string, amount models.Money, reference, description string) (*LedgerResult, error) {
	if description == "" {
		description = defaultWithdrawDescription
	}
	return s.apply(ctx, walletID, models.TransactionWithdraw, amount, reference, description)
}

// apply changes the balance and appends the transaction record as one unit of work.
func (s *LedgerService) apply(ctx context.Context, walletID, txnType string, amount models.Money, reference, description string) (*LedgerResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result LedgerResult
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		wallet, err := tx.Wallets().GetForUpdate(ctx, walletID)
		if err != nil {
			return fmt.Errorf("wallet %s: %w", walletID, err)
		}

		var newBalance models.Money
		if txnType == models.TransactionWithdraw {
			if wallet.Balance < amount {
				return ErrInsufficientBalance
			}
			newBalance = wallet.Balance - amount
		} else if newBalance, err = wallet.Balance.Add(amount); err != nil {
			return fmt.Errorf("deposit %s to wallet %s: %w", amount, walletID, err)
		}

		now := s.now()
		version := wallet.Version
		if _, err := tx.Wallets().Patch(ctx, walletID, models.WalletPatch{
			Balance: &newBalance,
			Version: &version,
		}, now); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn := models.Transaction{
			WalletID:    walletID,
			Type:        txnType,
			Amount:      amount,
			Reference:   reference,
			Description: description,
			CreatedAt:   now,
		}
		if err := tx.Transactions().Create(ctx, &txn); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		result = LedgerResult{Balance: newBalance, Transaction: txn}
		return nil
	})
	if err != nil {
		s.audit.LogError(txnType, walletID, err)
		return nil, err
	}

	eventType := audit.EventDeposit
	if txnType == models.TransactionWithdraw {
		eventType = audit.EventWithdraw
	}
	s.audit.LogLedger(eventType, walletID, result.Transaction.ID, int64(amount), int64(result.Balance))
	return &result, nil
}

// GetTransactions returns the wallet's transactions, newest first.
func (s *LedgerService) GetTransactions(ctx context.Context, walletID string) ([]models.Transaction, error) {
	if _, err := s.store.Wallets().Get(ctx, walletID); err != nil {
		return nil, fmt.Errorf("wallet %s: %w", walletID, err)
	}
	return s.store.Transactions().List(ctx, models.TransactionFilter{WalletID: walletID})
}

// GetAllTransactions returns one page of the global transaction list, newest first.
func (s *LedgerService) GetAllTransactions(ctx context.Context, filter models.TransactionFilter, page, pageSize int) (*TransactionPage, error) {
	if filter.Type != "" && filter.Type != models.TransactionDeposit && filter.Type != models.TransactionWithdraw {
		return nil, invalid("type", "must be deposit or withdraw")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}

	txns, err := s.store.Transactions().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := len(txns)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return &TransactionPage{
		Transactions: txns[start:end],
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   (total + pageSize - 1) / pageSize,
	}, nil
}

// Summary totals the wallet's deposits and withdrawals and reports whether
// they reconcile with the stored balance.
func (s *LedgerService) Summary(ctx context.Context, walletID string) (*WalletSummary, error) {
	wallet, err := s.store.Wallets().Get(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", walletID, err)
	}
	txns, err := s.store.Transactions().List(ctx, models.TransactionFilter{WalletID: walletID})
	if err != nil {
		return nil, err
	}

	summary := &WalletSummary{Wallet: *wallet, TransactionCount: len(txns)}
	for _, t := range txns {
		switch t.Type {
		case models.TransactionDeposit:
			summary.TotalDeposits += t.Amount
		case models.TransactionWithdraw:
			summary.TotalWithdrawals += t.Amount
		}
	}
	summary.LedgerBalance = summary.TotalDeposits - summary.TotalWithdrawals
	summary.Reconciled = summary.LedgerBalance == wallet.Balance
	if !summary.Reconciled {
		log.Printf("[LEDGER] Wallet %s does not reconcile: balance %s, ledger %s",
			walletID, wallet.Balance, summary.LedgerBalance)
	}
	return summary, nil
}
