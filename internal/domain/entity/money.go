package entity

import "github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"

// Money is an immutable monetary amount in the smallest currency unit.
// A nil amount means the caller never supplied a price; both absence and
// non-positive amounts are rejected at construction, so a Money value that
// exists is always valid. Replacing a price means constructing a new Money.
type Money struct {
	amount int64
}

func NewMoney(amount *int64) (Money, error) {
	if amount == nil {
		return Money{}, apperrors.InvalidPrice("price is required")
	}
	if *amount <= 0 {
		return Money{}, apperrors.InvalidPrice("price must exceed zero")
	}
	return Money{amount: *amount}, nil
}

// MoneyFromAmount rebuilds a Money from a stored amount. Storage rows passed
// the construction gate before persisting, so this skips re-validation.
func MoneyFromAmount(amount int64) Money {
	return Money{amount: amount}
}

func (m Money) Amount() int64 { return m.amount }
