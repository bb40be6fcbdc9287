package entity

import (
	"testing"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("Keyboard", "keyboard", int64p(45000), "mechanical", "cat-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Price.Amount() != 45000 {
		t.Errorf("price = %d", p.Price.Amount())
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestNewProductPriceGate(t *testing.T) {
	if _, err := NewProduct("Keyboard", "keyboard", nil, "", "cat-1", nil); err == nil || err.Error() != "price is required" {
		t.Errorf("nil price: err = %v", err)
	}
	if _, err := NewProduct("Keyboard", "keyboard", int64p(0), "", "cat-1", nil); err == nil || err.Error() != "price must exceed zero" {
		t.Errorf("zero price: err = %v", err)
	}
}

func TestNewProductEmptyCategory(t *testing.T) {
	_, err := NewProduct("Keyboard", "keyboard", int64p(45000), "", "", nil)
	if apperrors.KindOf(err) != apperrors.KindInvalidCategory {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if err.Error() != "category id is required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestProductUpdate(t *testing.T) {
	p, err := NewProduct("Keyboard", "keyboard", int64p(45000), "", "cat-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := p.UpdatedAt
	if err := p.Update("Mouse", "mouse", int64p(20000), "wireless", "cat-2", []string{"http://img"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "Mouse" || p.Price.Amount() != 20000 || p.CategoryID != "cat-2" {
		t.Errorf("update not applied: %+v", p)
	}
	if p.UpdatedAt.Before(before) {
		t.Error("UpdatedAt went backwards")
	}
}

func TestProductUpdateInvalidPriceKeepsState(t *testing.T) {
	p, _ := NewProduct("Keyboard", "keyboard", int64p(45000), "", "cat-1", nil)
	err := p.Update("Mouse", "mouse", int64p(-1), "", "cat-1", nil)
	if apperrors.KindOf(err) != apperrors.KindInvalidPrice {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if p.Title != "Keyboard" || p.Price.Amount() != 45000 {
		t.Errorf("failed update must not mutate: %+v", p)
	}
}

func TestAddImage(t *testing.T) {
	p, _ := NewProduct("Keyboard", "keyboard", int64p(45000), "", "cat-1", nil)
	p.AddImage("https://storage.googleapis.com/bucket/products/1/a.png")
	if len(p.Images) != 1 {
		t.Fatalf("images = %v", p.Images)
	}
}
