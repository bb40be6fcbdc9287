package entity

import "time"

// OutboxEvent is a domain event staged in the same transaction as the write
// that produced it. A separate publisher delivers staged rows to the broker
// after commit and stamps PublishedAt, at-least-once.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}
