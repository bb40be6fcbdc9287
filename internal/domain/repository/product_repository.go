package repository

import (
	"context"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
)

// ProductRepository defines the catalog persistence contract.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string, offset, limit int) ([]*entity.Product, error)
	ListOrderByPrice(ctx context.Context, ascending bool, offset, limit int) ([]*entity.Product, error)
	// ListByIDs returns products in the order of ids, skipping missing ones.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
}

// CategoryRepository is the lookup collaborator behind the category
// existence checks.
type CategoryRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*entity.Category, error)
}
