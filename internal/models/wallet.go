package models

import "time"

type Wallet struct {
	ID         string    `json:"id" db:"id"`
	OwnerEmail string    `json:"ownerEmail" db:"owner_email"`
	Balance    Money     `json:"balance" db:"balance"`
	Version    int       `json:"version" db:"version"` // for optimistic locking
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// WalletPatch is a partial wallet update. Only the ledger writes balances.
type WalletPatch struct {
	Balance *Money
	Version *int
}
