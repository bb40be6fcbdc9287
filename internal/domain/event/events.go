// Package event defines the domain event payloads staged in the outbox and
// the envelope they travel in on the wire.
package event

import (
	"encoding/json"
	"time"
)

const TypeMemberJoined = "member.joined"

// MemberJoined is emitted after a member is durably committed. Delivery is
// at-least-once; consumers must tolerate redelivery.
type MemberJoined struct {
	MemberID string    `json:"member_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// Envelope is the broker message wrapping an outbox row.
type Envelope struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
}
