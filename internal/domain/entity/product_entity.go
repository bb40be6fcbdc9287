package entity

import (
	"time"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

// Product is the aggregate root for the catalog domain. Price and category
// are validated on construction and on every update, so a Product value is
// never observably invalid even when the command handler is bypassed.
// StoreID is a non-owning back-reference; empty means no store.
type Product struct {
	ID          string
	Title       string
	Slug        string
	Price       Money
	Description string
	CategoryID  string
	StoreID     string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates price and category presence independently of the
// handler-level category existence check; both gates must hold.
func NewProduct(title, slug string, price *int64, description, categoryID string, images []string) (*Product, error) {
	money, err := NewMoney(price)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return nil, apperrors.InvalidCategory("category id is required")
	}
	now := time.Now().UTC()
	return &Product{
		Title:       title,
		Slug:        slug,
		Price:       money,
		Description: description,
		CategoryID:  categoryID,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update mutates the product in place through the same invariant gate as
// construction and refreshes UpdatedAt. Persisting the mutation is the
// caller's job; nothing here relies on implicit flush semantics.
func (p *Product) Update(title, slug string, price *int64, description, categoryID string, images []string) error {
	money, err := NewMoney(price)
	if err != nil {
		return err
	}
	if categoryID == "" {
		return apperrors.InvalidCategory("category id is required")
	}
	p.Title = title
	p.Slug = slug
	p.Price = money
	p.Description = description
	p.CategoryID = categoryID
	p.Images = images
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AddImage appends an image URL and refreshes UpdatedAt.
func (p *Product) AddImage(url string) {
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now().UTC()
}
