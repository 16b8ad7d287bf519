package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripforge/internal/shared/events"
)

const streamHeartbeatInterval = 15 * time.Second

func knownChannels() []string {
	return []string{
		events.ChannelVotes,
		events.ChannelMessages,
		events.ChannelMembership,
		events.ChannelTyping,
		events.ChannelArtifacts,
	}
}

// resolveStreamChannels parses the channels query parameter. An absent
// parameter subscribes to every channel of the trip.
func resolveStreamChannels(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return knownChannels(), nil
	}

	valid := map[string]bool{}
	for _, channel := range knownChannels() {
		valid[channel] = true
	}

	var channels []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		channel := strings.TrimSpace(part)
		if channel == "" || seen[channel] {
			continue
		}
		if !valid[channel] {
			return nil, fmt.Errorf("unknown channel %q", channel)
		}
		seen[channel] = true
		channels = append(channels, channel)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}
	return channels, nil
}

// handleStreamEvents serves the per-trip server-sent-events feed. Delivery is
// best effort: a client that cannot keep up has events dropped and is
// expected to re-fetch authoritative state over the REST endpoints.
func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeTripError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	tripID := r.PathValue("trip_id")
	channels, err := resolveStreamChannels(r.URL.Query().Get("channels"))
	if err != nil {
		writeTripError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	feed := make(chan events.Envelope, 64)
	for _, channel := range channels {
		topic := events.TripTopic(tripID, channel)
		err := s.bus.Subscribe(ctx, topic, "sse-"+memberID, func(_ context.Context, env events.Envelope) error {
			select {
			case feed <- env:
			default:
			}
			return nil
		})
		if err != nil {
			writeTripError(w, http.StatusInternalServerError, "subscription failed")
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	s.logger.Info("event stream opened",
		"event", "http_stream_opened",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"trip_id", tripID,
		"member_id", memberID,
		"channels", strings.Join(channels, ","),
	)

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case env := <-feed:
			data, err := json.Marshal(env)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.EventType, data)
			flusher.Flush()
		}
	}
}
