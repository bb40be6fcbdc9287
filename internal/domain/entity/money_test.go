package entity

import (
	"testing"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

func int64p(v int64) *int64 { return &v }

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(int64p(1500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Amount() != 1500 {
		t.Errorf("amount = %d, want 1500", m.Amount())
	}
}

func TestNewMoneyNil(t *testing.T) {
	_, err := NewMoney(nil)
	if err == nil {
		t.Fatal("expected error for nil amount")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidPrice {
		t.Errorf("kind = %q, want invalid_price", apperrors.KindOf(err))
	}
	if err.Error() != "price is required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNewMoneyNonPositive(t *testing.T) {
	for _, amount := range []int64{0, -1, -1000} {
		_, err := NewMoney(int64p(amount))
		if err == nil {
			t.Fatalf("expected error for amount %d", amount)
		}
		if err.Error() != "price must exceed zero" {
			t.Errorf("amount %d: message = %q", amount, err.Error())
		}
	}
}
