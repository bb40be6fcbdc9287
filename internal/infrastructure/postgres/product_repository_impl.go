package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, title, slug, price, description, category_id, COALESCE(store_id::text, ''), images, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	var amount int64
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &amount, &p.Description,
		&p.CategoryID, &p.StoreID, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ProductNotFound()
		}
		return nil, err
	}
	p.Price = entity.MoneyFromAmount(amount)
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	out := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	q := queryFrom(ctx, r.pool)
	var storeID any
	if p.StoreID != "" {
		storeID = p.StoreID
	}
	row := q.QueryRow(ctx, `
		INSERT INTO products (title, slug, price, description, category_id, store_id, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Price.Amount(), p.Description, p.CategoryID, storeID, p.Images)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	q := queryFrom(ctx, r.pool)
	return scanProduct(q.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	q := queryFrom(ctx, r.pool)
	res, err := q.Exec(ctx, `
		UPDATE products
		SET title = $1, slug = $2, price = $3, description = $4,
		    category_id = $5, images = $6, updated_at = $7
		WHERE id = $8
	`, p.Title, p.Slug, p.Price.Amount(), p.Description, p.CategoryID, p.Images, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ProductNotFound()
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	q := queryFrom(ctx, r.pool)
	res, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ProductNotFound()
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*entity.Product, error) {
	q := queryFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string, offset, limit int) ([]*entity.Product, error) {
	q := queryFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE category_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, categoryID, offset, limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *ProductRepository) ListOrderByPrice(ctx context.Context, ascending bool, offset, limit int) ([]*entity.Product, error) {
	q := queryFrom(ctx, r.pool)
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY price `+order+`, created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *ProductRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	q := queryFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	found, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	// Reorder to match the input id order, skipping missing ids.
	byID := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repo.ProductRepository = (*ProductRepository)(nil)
