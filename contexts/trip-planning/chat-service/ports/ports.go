package ports

import (
	"context"
	"time"

	"tripforge/internal/shared/events"
)

// EventEnvelope is the canonical event shape for chat fan-out.
type EventEnvelope = events.Envelope

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// Message is one chat line in a trip's shared room. SequenceNumber is a
// per-trip monotonic counter used for ordering and client-local unread math.
type Message struct {
	MessageID      string
	TripID         string
	MemberID       string
	DisplayName    string
	Body           string
	SequenceNumber int64
	CreatedAt      time.Time
}

type CreateMessageInput struct {
	TripID      string
	MemberID    string
	DisplayName string
	Body        string
}

type ListMessagesInput struct {
	TripID        string
	AfterSequence int64
	Limit         int
}

type Repository interface {
	CreateMessage(ctx context.Context, input CreateMessageInput, now time.Time) (Message, error)
	ListMessages(ctx context.Context, input ListMessagesInput) ([]Message, error)
}

// MembershipReader is a projection over trip-service owned rows.
type MembershipReader interface {
	TripExists(ctx context.Context, tripID string) (bool, error)
	MemberExists(ctx context.Context, tripID string, memberID string) (bool, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, env EventEnvelope) error
}

// TypingPublisher delivers ephemeral typing pings straight to the bus.
// Typing skips the outbox: a ping that misses its window is worthless, so
// durability would only add lag.
type TypingPublisher interface {
	PublishTyping(ctx context.Context, env EventEnvelope) error
}
