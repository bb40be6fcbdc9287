package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	q := queryFrom(ctx, r.pool)
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	q := queryFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Category, 0)
	for rows.Next() {
		c := &entity.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repo.CategoryRepository = (*CategoryRepository)(nil)
