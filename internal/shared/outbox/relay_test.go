package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tripforge/internal/shared/events"
)

type fakeStore struct {
	pending   []Message
	published []string
	failed    map[string]string
}

func (s *fakeStore) ListPendingOutbox(_ context.Context, limit int) ([]Message, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeStore) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.published = append(s.published, outboxID)
	return nil
}

func (s *fakeStore) MarkOutboxFailed(_ context.Context, outboxID string, reason string) error {
	if s.failed == nil {
		s.failed = map[string]string{}
	}
	s.failed[outboxID] = reason
	return nil
}

type fakePublisher struct {
	topics []string
}

func (p *fakePublisher) Publish(_ context.Context, topic string, _ events.Envelope) error {
	p.topics = append(p.topics, topic)
	return nil
}

func pendingRow(t *testing.T, outboxID string, tripID string, eventType string) Message {
	t.Helper()
	payload, err := json.Marshal(events.Envelope{
		EventID:      outboxID,
		EventType:    eventType,
		OccurredAt:   time.Now().UTC(),
		PartitionKey: tripID,
		Data:         json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return Message{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: tripID,
		Payload:      payload,
		Status:       "pending",
	}
}

func TestRunOncePublishesEveryFanOutTopic(t *testing.T) {
	store := &fakeStore{pending: []Message{pendingRow(t, "row-1", "trip-1", events.TypeVoteRecorded)}}
	pub := &fakePublisher{}

	relay := Relay{Store: store, Publisher: pub}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(store.published) != 1 || store.published[0] != "row-1" {
		t.Fatalf("row not marked published: %v", store.published)
	}
	if len(pub.topics) != 2 {
		t.Fatalf("expected the type topic plus the trip topic, got %v", pub.topics)
	}
}

func TestRunOnceParksUndecodableRowAndKeepsDraining(t *testing.T) {
	store := &fakeStore{pending: []Message{
		{OutboxID: "row-1", Payload: []byte(`{"event_id":`), Status: "pending"},
		pendingRow(t, "row-2", "trip-1", events.TypeMessagePosted),
	}}
	pub := &fakePublisher{}

	relay := Relay{Store: store, Publisher: pub}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if _, parked := store.failed["row-1"]; !parked {
		t.Fatalf("undecodable row should be parked, failed=%v", store.failed)
	}
	if len(store.published) != 1 || store.published[0] != "row-2" {
		t.Fatalf("rows behind the bad one should still publish: %v", store.published)
	}
	if len(pub.topics) == 0 {
		t.Fatal("no topics published for the healthy row")
	}
}
