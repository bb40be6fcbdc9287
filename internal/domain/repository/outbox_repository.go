package repository

import (
	"context"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
)

// OutboxRepository stages domain events alongside the writes that produce
// them and hands unpublished rows to the publisher.
type OutboxRepository interface {
	CreateEvent(ctx context.Context, e *entity.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*entity.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
