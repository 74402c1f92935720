package models

import (
	"time"
)

// Transaction types
const (
	TransactionDeposit  = "deposit"
	TransactionWithdraw = "withdraw"
)

// Transaction is an immutable wallet ledger record
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	WalletID    string    `json:"walletId" db:"wallet_id"`
	Type        string    `json:"type" db:"type"`
	Amount      Money     `json:"amount" db:"amount"`
	Reference   string    `json:"reference" db:"reference"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Signed returns the amount with the sign it contributes to the wallet balance.
func (t Transaction) Signed() Money {
	if t.Type == TransactionWithdraw {
		return -t.Amount
	}
	return t.Amount
}

// TransactionFilter narrows a transaction listing. Empty fields match everything.
type TransactionFilter struct {
	WalletID string
	Type     string
	Query    string // case-insensitive match on reference or description
}
