package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
type Money int64

// ErrSubCentAmount is returned when a decoded amount has more than two fractional digits.
var ErrSubCentAmount = errors.New("amount has more than two decimal places")

// ErrOverflow is returned when an amount or quantity leaves the int64 range.
var ErrOverflow = errors.New("value exceeds the supported range")

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// MoneyFromDecimal converts a major-unit decimal (12.50) into Money.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, ErrSubCentAmount
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("amount %s: %w", d, ErrOverflow)
	}
	return Money(cents.IntPart()), nil
}

// Add returns m + o, or ErrOverflow if the sum leaves the int64 range.
func (m Money) Add(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return 0, ErrOverflow
	}
	return m + o, nil
}

// Mul returns m * n, or ErrOverflow if the product leaves the int64 range.
func (m Money) Mul(n int) (Money, error) {
	if m == 0 || n == 0 {
		return 0, nil
	}
	f := Money(n)
	p := m * f
	if p/f != m || (m == -1 && f == math.MinInt64) || (f == -1 && m == math.MinInt64) {
		return 0, ErrOverflow
	}
	return p, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
