package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance is returned when a withdrawal exceeds the wallet balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount is returned for a non-positive deposit or withdrawal amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrOrderCancelled is returned when cancelling an order that is already cancelled.
	ErrOrderCancelled = errors.New("order is already cancelled")
	// ErrInvalidCredentials is returned by Login for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSession is returned for a malformed, expired or revoked session token.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// InsufficientStockError is returned when an order asks for more units than a
// product has in stock.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}

// ValidationError is a field level rule violation detected by a service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
