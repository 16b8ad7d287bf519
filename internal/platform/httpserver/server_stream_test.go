package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripforge/internal/shared/events"
)

func TestStreamRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/events", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestStreamRejectsUnknownChannel(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/events?channels=gossip", nil)
	req.Header.Set("X-Member-Id", "member-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestStreamDeliversPublishedEvents(t *testing.T) {
	server := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/events?channels=messages", nil).WithContext(ctx)
	req.Header.Set("X-Member-Id", "member-1")
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		server.mux.ServeHTTP(rr, req)
		close(done)
	}()

	// Give the handler time to register its subscription before publishing.
	time.Sleep(100 * time.Millisecond)

	data, _ := json.Marshal(map[string]any{"trip_id": "trip-1", "body": "hello"})
	env := events.Envelope{
		EventID:      "evt-1",
		EventType:    events.TypeMessagePosted,
		OccurredAt:   time.Now().UTC(),
		PartitionKey: "trip-1",
		Data:         data,
	}
	topic := events.TripTopic("trip-1", events.ChannelMessages)
	if err := server.bus.Publish(context.Background(), topic, env); err != nil {
		t.Fatalf("publish: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := rr.Body.String()
	if !strings.Contains(body, ": connected") {
		t.Fatalf("missing connect comment, body=%q", body)
	}
	if !strings.Contains(body, "event: "+events.TypeMessagePosted) {
		t.Fatalf("missing published event, body=%q", body)
	}
	if !strings.Contains(body, `"event_id":"evt-1"`) {
		t.Fatalf("missing event payload, body=%q", body)
	}
}

func TestResolveStreamChannelsDefaultsToAll(t *testing.T) {
	channels, err := resolveStreamChannels("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(channels) != len(knownChannels()) {
		t.Fatalf("expected every channel, got %v", channels)
	}

	channels, err = resolveStreamChannels("votes, messages,votes")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(channels) != 2 || channels[0] != events.ChannelVotes || channels[1] != events.ChannelMessages {
		t.Fatalf("expected deduplicated votes+messages, got %v", channels)
	}
}
