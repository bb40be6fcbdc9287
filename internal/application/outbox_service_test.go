package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/event"
)

type fakePublisher struct {
	published []event.Envelope
	failAfter int // fail on the Nth publish (1-based), 0 means never
}

func (p *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	if p.failAfter > 0 && len(p.published)+1 >= p.failAfter {
		return errors.New("broker unavailable")
	}
	env, ok := body.(event.Envelope)
	if !ok {
		return errors.New("unexpected body type")
	}
	p.published = append(p.published, env)
	return nil
}

func stageJoined(t *testing.T, outbox *fakeOutbox, memberID string) {
	t.Helper()
	payload, err := json.Marshal(event.MemberJoined{MemberID: memberID, Username: "u", Email: "u@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if err := outbox.CreateEvent(context.Background(), &entity.OutboxEvent{
		AggregateID: memberID,
		EventType:   event.TypeMemberJoined,
		Payload:     payload,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestProcessUnpublished(t *testing.T) {
	outbox := &fakeOutbox{}
	stageJoined(t, outbox, "m-1")
	stageJoined(t, outbox, "m-2")

	pub := &fakePublisher{}
	svc := NewOutboxService(outbox, pub, nil, 10)

	n, err := svc.ProcessUnpublished(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("published = %d, want 2", n)
	}
	if len(pub.published) != 2 {
		t.Fatalf("broker received %d", len(pub.published))
	}
	if pub.published[0].AggregateID != "m-1" || pub.published[1].AggregateID != "m-2" {
		t.Error("events published out of order")
	}
	for _, e := range outbox.events {
		if e.PublishedAt == nil {
			t.Errorf("event %d not marked published", e.ID)
		}
	}
}

func TestProcessUnpublishedIdempotent(t *testing.T) {
	outbox := &fakeOutbox{}
	stageJoined(t, outbox, "m-1")

	pub := &fakePublisher{}
	svc := NewOutboxService(outbox, pub, nil, 10)

	if _, err := svc.ProcessUnpublished(context.Background()); err != nil {
		t.Fatal(err)
	}
	n, err := svc.ProcessUnpublished(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second pass published %d, want 0", n)
	}
}

func TestProcessUnpublishedStopsOnFailure(t *testing.T) {
	outbox := &fakeOutbox{}
	stageJoined(t, outbox, "m-1")
	stageJoined(t, outbox, "m-2")

	pub := &fakePublisher{failAfter: 2}
	svc := NewOutboxService(outbox, pub, nil, 10)

	n, err := svc.ProcessUnpublished(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Errorf("published = %d, want 1", n)
	}
	// The failed event stays unpublished for the next pass.
	if outbox.events[1].PublishedAt != nil {
		t.Error("failed event must stay unpublished")
	}
}
