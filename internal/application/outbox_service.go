package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/event"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
)

// Publisher delivers a JSON-encodable message to the broker. Production
// wiring uses helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// OutboxService drains staged events to the broker. Delivery is
// at-least-once: a row is marked published only after the broker accepted it,
// so a crash in between causes redelivery, never loss.
type OutboxService struct {
	Outbox    repo.OutboxRepository
	Publisher Publisher
	Logger    *logrus.Logger
	BatchSize int
}

func NewOutboxService(outbox repo.OutboxRepository, pub Publisher, logger *logrus.Logger, batchSize int) *OutboxService {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &OutboxService{Outbox: outbox, Publisher: pub, Logger: logger, BatchSize: batchSize}
}

// ProcessUnpublished publishes one batch of staged events in creation order.
// A failed publish stops the batch so ordering per aggregate is preserved on
// retry. Returns the number of events published.
func (s *OutboxService) ProcessUnpublished(ctx context.Context) (int, error) {
	events, err := s.Outbox.GetUnpublished(ctx, s.BatchSize)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, e := range events {
		env := event.Envelope{
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			Payload:     e.Payload,
		}
		if err := s.Publisher.PublishJSON(ctx, env); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("event_id", e.ID).Error("outbox publish failed")
			}
			return published, err
		}
		if err := s.Outbox.MarkPublished(ctx, e.ID); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
