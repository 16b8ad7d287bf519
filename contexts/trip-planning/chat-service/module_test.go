package chatservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripforge/contexts/trip-planning/chat-service/application/presence"
	"tripforge/contexts/trip-planning/chat-service/application/unread"
	domainerrors "tripforge/contexts/trip-planning/chat-service/domain/errors"
	httptransport "tripforge/contexts/trip-planning/chat-service/transport/http"
	"tripforge/internal/shared/events"
)

func newSeededModule() Module {
	module := NewInMemoryModule(nil)
	module.Store.SetMember("trip-1", "member-1")
	module.Store.SetMember("trip-1", "member-2")
	return module
}

func TestPostMessageAssignsSequenceAndEmitsEvent(t *testing.T) {
	module := newSeededModule()

	first, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", "key-1", httptransport.PostMessageRequest{
		DisplayName: "Ana",
		Body:        "how about the morning flight?",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	second, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-2", "key-2", httptransport.PostMessageRequest{
		DisplayName: "Bruno",
		Body:        "works for me",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if first.SequenceNumber != 1 || second.SequenceNumber != 2 {
		t.Fatalf("sequence numbers not monotonic: %d then %d", first.SequenceNumber, second.SequenceNumber)
	}

	outbox := module.Store.OutboxEvents()
	if len(outbox) != 2 {
		t.Fatalf("expected 2 message.posted events, got %d", len(outbox))
	}
	for _, env := range outbox {
		if env.EventType != events.TypeMessagePosted || env.PartitionKey != "trip-1" {
			t.Fatalf("bad event %+v", env)
		}
	}
}

func TestPostMessageIdempotentRetry(t *testing.T) {
	module := newSeededModule()
	req := httptransport.PostMessageRequest{DisplayName: "Ana", Body: "hello"}

	first, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", "retry-key", req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	replay, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", "retry-key", req)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.MessageID != first.MessageID {
		t.Fatal("retry with the same key created a second message")
	}

	messages, err := module.Handler.ListMessagesHandler(context.Background(), "trip-1", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages.Items) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(messages.Items))
	}
	if len(module.Store.OutboxEvents()) != 1 {
		t.Fatal("retry emitted a duplicate event")
	}
}

func TestPostMessageKeyReuseWithDifferentBody(t *testing.T) {
	module := newSeededModule()

	if _, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", "key-x", httptransport.PostMessageRequest{Body: "one"}); err != nil {
		t.Fatalf("post: %v", err)
	}
	_, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", "key-x", httptransport.PostMessageRequest{Body: "two"})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestPostMessageRequiresMembership(t *testing.T) {
	module := newSeededModule()

	_, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-9", "key-1", httptransport.PostMessageRequest{Body: "hi"})
	if !errors.Is(err, domainerrors.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	_, err = module.Handler.PostMessageHandler(context.Background(), "trip-9", "member-1", "key-2", httptransport.PostMessageRequest{Body: "hi"})
	if !errors.Is(err, domainerrors.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestListMessagesAfterSequence(t *testing.T) {
	module := newSeededModule()
	for i, body := range []string{"a", "b", "c"} {
		key := "key-" + string(rune('0'+i))
		if _, err := module.Handler.PostMessageHandler(context.Background(), "trip-1", "member-1", key, httptransport.PostMessageRequest{Body: body}); err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
	}

	tail, err := module.Handler.ListMessagesHandler(context.Background(), "trip-1", 1, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tail.Items) != 2 || tail.Items[0].Body != "b" || tail.Items[1].Body != "c" {
		t.Fatalf("unexpected tail %+v", tail.Items)
	}
}

func TestTypingPingThrottledPerMember(t *testing.T) {
	module := newSeededModule()
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	now := base
	module.Store.SetNow(func() time.Time { return now })

	if err := module.Handler.PingTypingHandler(context.Background(), "trip-1", "member-1"); err != nil {
		t.Fatalf("first ping: %v", err)
	}
	if err := module.Handler.PingTypingHandler(context.Background(), "trip-1", "member-1"); !errors.Is(err, domainerrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited inside throttle window, got %v", err)
	}
	// a different member is not throttled by the first one's window
	if err := module.Handler.PingTypingHandler(context.Background(), "trip-1", "member-2"); err != nil {
		t.Fatalf("other member ping: %v", err)
	}

	now = base.Add(time.Second)
	if err := module.Handler.PingTypingHandler(context.Background(), "trip-1", "member-1"); err != nil {
		t.Fatalf("ping after window: %v", err)
	}

	pings := module.Store.TypingEvents()
	if len(pings) != 3 {
		t.Fatalf("expected 3 delivered pings, got %d", len(pings))
	}
	for _, env := range pings {
		if env.EventType != events.TypeTypingPing {
			t.Fatalf("bad event type %s", env.EventType)
		}
	}
	if len(module.Store.OutboxEvents()) != 0 {
		t.Fatal("typing pings must not hit the outbox")
	}
}

func TestPresenceTrackerExpiry(t *testing.T) {
	tracker := presence.NewTracker(3 * time.Second)
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tracker.Ping("trip-1", "member-1", base)
	tracker.Ping("trip-1", "member-2", base.Add(time.Second))

	active := tracker.Active("trip-1", base.Add(2*time.Second))
	if len(active) != 2 {
		t.Fatalf("expected both members typing, got %v", active)
	}

	active = tracker.Active("trip-1", base.Add(3500*time.Millisecond))
	if len(active) != 1 || active[0] != "member-2" {
		t.Fatalf("expected only member-2 after member-1 expired, got %v", active)
	}

	if active = tracker.Active("trip-1", base.Add(10*time.Second)); len(active) != 0 {
		t.Fatalf("expected nobody typing, got %v", active)
	}
}

func TestUnreadCounterIsReceiverLocal(t *testing.T) {
	counter := unread.NewCounter()

	counter.Observe("trip-1", 1)
	counter.Observe("trip-1", 2)
	counter.Observe("trip-1", 3)
	if got := counter.Unread("trip-1"); got != 3 {
		t.Fatalf("expected 3 unread, got %d", got)
	}

	counter.MarkRead("trip-1", 2)
	if got := counter.Unread("trip-1"); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	// read positions never move backwards
	counter.MarkRead("trip-1", 1)
	if got := counter.Unread("trip-1"); got != 1 {
		t.Fatalf("expected 1 unread after stale mark, got %d", got)
	}

	if got := counter.Unread("trip-2"); got != 0 {
		t.Fatalf("fresh trip should have 0 unread, got %d", got)
	}
}
