package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainerrors "tripforge/contexts/trip-planning/chat-service/domain/errors"
	"tripforge/contexts/trip-planning/chat-service/ports"
	"tripforge/internal/shared/events"
)

type Service struct {
	Repo           ports.Repository
	Membership     ports.MembershipReader
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Typing         ports.TypingPublisher
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration

	// TypingMinInterval throttles typing pings per (trip, member).
	TypingMinInterval time.Duration

	typingMu   sync.Mutex
	lastTyping map[string]time.Time
}

// PostMessage appends a message to the trip room. Delivery retries reuse the
// idempotency key so the message lands exactly once.
func (s *Service) PostMessage(
	ctx context.Context,
	idempotencyKey string,
	input ports.CreateMessageInput,
) (ports.Message, error) {
	var out ports.Message
	if strings.TrimSpace(input.TripID) == "" || strings.TrimSpace(input.MemberID) == "" || strings.TrimSpace(input.Body) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}
	if err := s.requireMembership(ctx, input.TripID, input.MemberID); err != nil {
		return out, err
	}

	payload, _ := json.Marshal(input)
	requestHash := hashStrings("post_message", string(payload))
	err := s.runIdempotent(
		ctx,
		idempotencyKey,
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			message, err := s.Repo.CreateMessage(ctx, input, s.now())
			if err != nil {
				return nil, err
			}
			if err := s.appendMessageEvent(ctx, message); err != nil {
				return nil, err
			}
			return json.Marshal(message)
		},
	)
	return out, err
}

func (s *Service) ListMessages(ctx context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	if strings.TrimSpace(input.TripID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 200 {
		input.Limit = 200
	}
	return s.Repo.ListMessages(ctx, input)
}

// PingTyping publishes a typing notification for fan-out. Pings inside the
// per-member throttle window return ErrRateLimited; receivers expire
// indicators on their own clock, so no stop signal exists.
func (s *Service) PingTyping(ctx context.Context, tripID string, memberID string) error {
	tripID = strings.TrimSpace(tripID)
	memberID = strings.TrimSpace(memberID)
	if tripID == "" || memberID == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := s.requireMembership(ctx, tripID, memberID); err != nil {
		return err
	}

	now := s.now()
	if !s.allowTyping(tripID, memberID, now) {
		return domainerrors.ErrRateLimited
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"trip_id":   tripID,
		"member_id": memberID,
	})
	if err != nil {
		return err
	}
	env := ports.EventEnvelope{
		EventID:          eventID,
		EventType:        events.TypeTypingPing,
		OccurredAt:       now,
		SourceService:    "chat-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "trip_id",
		PartitionKey:     tripID,
		Data:             data,
	}
	return s.Typing.PublishTyping(ctx, env)
}

func (s *Service) allowTyping(tripID string, memberID string, now time.Time) bool {
	interval := s.TypingMinInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	s.typingMu.Lock()
	defer s.typingMu.Unlock()
	if s.lastTyping == nil {
		s.lastTyping = map[string]time.Time{}
	}
	key := tripID + "|" + memberID
	if last, ok := s.lastTyping[key]; ok && now.Sub(last) < interval {
		return false
	}
	s.lastTyping[key] = now
	return true
}

func (s *Service) requireMembership(ctx context.Context, tripID string, memberID string) error {
	if ok, err := s.Membership.TripExists(ctx, strings.TrimSpace(tripID)); err != nil {
		return err
	} else if !ok {
		return domainerrors.ErrTripNotFound
	}
	if ok, err := s.Membership.MemberExists(ctx, strings.TrimSpace(tripID), strings.TrimSpace(memberID)); err != nil {
		return err
	} else if !ok {
		return domainerrors.ErrMemberNotFound
	}
	return nil
}

func (s *Service) appendMessageEvent(ctx context.Context, message ports.Message) error {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"trip_id":         message.TripID,
		"message_id":      message.MessageID,
		"member_id":       message.MemberID,
		"display_name":    message.DisplayName,
		"body":            message.Body,
		"sequence_number": message.SequenceNumber,
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        events.TypeMessagePosted,
		OccurredAt:       message.CreatedAt.UTC(),
		SourceService:    "chat-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "trip_id",
		PartitionKey:     message.TripID,
		Data:             data,
	})
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s *Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s *Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s *Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}

	resolveLogger(s.Logger).Debug("chat service idempotent operation committed",
		"event", "chat_service_idempotent_operation_committed",
		"module", "trip-planning/chat-service",
		"layer", "application",
		"idempotency_key", key,
	)
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
