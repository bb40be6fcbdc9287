package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
)

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) CreateEvent(ctx context.Context, e *entity.OutboxEvent) error {
	q := queryFrom(ctx, r.pool)
	row := q.QueryRow(ctx, `
		INSERT INTO outbox_events (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, e.AggregateID, e.EventType, e.Payload)
	return row.Scan(&e.ID, &e.CreatedAt)
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	q := queryFrom(ctx, r.pool)
	rows, err := q.Query(ctx, `
		SELECT id, aggregate_id, event_type, payload, created_at, published_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.OutboxEvent, 0, limit)
	for rows.Next() {
		e := &entity.OutboxEvent{}
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	q := queryFrom(ctx, r.pool)
	_, err := q.Exec(ctx, `
		UPDATE outbox_events
		SET published_at = NOW()
		WHERE id = $1 AND published_at IS NULL
	`, id)
	return err
}

var _ repo.OutboxRepository = (*OutboxRepository)(nil)
