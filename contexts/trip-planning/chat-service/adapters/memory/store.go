package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripforge/contexts/trip-planning/chat-service/ports"
)

// Store is an in-memory implementation of every chat-service port.
type Store struct {
	mu sync.Mutex

	messages    map[string][]ports.Message
	sequences   map[string]int64
	idempotency map[string]ports.IdempotencyRecord
	trips       map[string]bool
	members     map[string]bool
	outbox      []ports.EventEnvelope
	typing      []ports.EventEnvelope

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		messages:    map[string][]ports.Message{},
		sequences:   map[string]int64{},
		idempotency: map[string]ports.IdempotencyRecord{},
		trips:       map[string]bool{},
		members:     map[string]bool{},
	}
}

func memberKey(tripID, memberID string) string {
	return tripID + "|" + memberID
}

func (s *Store) CreateMessage(ctx context.Context, input ports.CreateMessageInput, now time.Time) (ports.Message, error) {
	messageID, err := s.NewID(ctx)
	if err != nil {
		return ports.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[input.TripID]++
	message := ports.Message{
		MessageID:      messageID,
		TripID:         input.TripID,
		MemberID:       input.MemberID,
		DisplayName:    input.DisplayName,
		Body:           input.Body,
		SequenceNumber: s.sequences[input.TripID],
		CreatedAt:      now.UTC(),
	}
	s.messages[input.TripID] = append(s.messages[input.TripID], message)
	return message, nil
}

func (s *Store) ListMessages(_ context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.Message
	for _, message := range s.messages[input.TripID] {
		if message.SequenceNumber > input.AfterSequence {
			out = append(out, message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	if input.Limit > 0 && len(out) > input.Limit {
		out = out[:input.Limit]
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) TripExists(_ context.Context, tripID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trips[tripID], nil
}

func (s *Store) MemberExists(_ context.Context, tripID string, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[memberKey(tripID, memberID)], nil
}

// SetTrip and SetMember seed the membership projection for tests.
func (s *Store) SetTrip(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[tripID] = true
}

func (s *Store) SetMember(tripID string, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[tripID] = true
	s.members[memberKey(tripID, memberID)] = true
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, event)
	return nil
}

func (s *Store) OutboxEvents() []ports.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.EventEnvelope, len(s.outbox))
	copy(out, s.outbox)
	return out
}

func (s *Store) PublishTyping(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typing = append(s.typing, event)
	return nil
}

func (s *Store) TypingEvents() []ports.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.EventEnvelope, len(s.typing))
	copy(out, s.typing)
	return out
}

// SetNow overrides the clock for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	now := s.now
	s.mu.Unlock()
	if now != nil {
		return now()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
