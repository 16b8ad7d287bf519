package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tripforge/internal/shared/events"
)

// Store is the persistence surface the relay needs. Every context service
// appends to the same outbox table; the relay drains it for all of them.
type Store interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
	// MarkOutboxFailed parks a row that can never publish, so it stops
	// blocking the rows behind it.
	MarkOutboxFailed(ctx context.Context, outboxID string, reason string) error
}

// Publisher is satisfied by the platform messaging bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, env events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

// Relay publishes persisted outbox records to the fan-out bus.
type Relay struct {
	Store     Store
	Publisher Publisher
	Clock     Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after every topic publish succeeds. It stops on the first
// failure so the retry loop can reprocess remaining rows safely.
func (r Relay) RunOnce(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Store.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "outbox_relay_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("outbox relay found no pending rows",
			"event", "outbox_relay_noop",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	published := 0
	for _, row := range pending {
		var env events.Envelope
		if err := json.Unmarshal(row.Payload, &env); err != nil {
			// A row that never decodes would wedge the relay forever.
			// Park it and keep draining.
			logger.Error("outbox decode failed",
				"event", "outbox_relay_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			if markErr := r.Store.MarkOutboxFailed(ctx, row.OutboxID, err.Error()); markErr != nil {
				logger.Error("outbox mark failed failed",
					"event", "outbox_relay_mark_failed_failed",
					"module", "internal/shared/outbox",
					"layer", "worker",
					"outbox_id", row.OutboxID,
					"error", markErr.Error(),
				)
				return markErr
			}
			continue
		}
		if env.EventType == "" {
			env.EventType = row.EventType
		}
		for _, topic := range events.FanOutTopics(env) {
			if err := r.Publisher.Publish(ctx, topic, env); err != nil {
				logger.Error("outbox publish failed",
					"event", "outbox_relay_publish_failed",
					"module", "internal/shared/outbox",
					"layer", "worker",
					"outbox_id", row.OutboxID,
					"topic", topic,
					"event_type", env.EventType,
					"error", err.Error(),
				)
				return err
			}
		}
		if err := r.Store.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "outbox_relay_mark_published_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		published++
	}

	logger.Info("outbox relay cycle completed",
		"event", "outbox_relay_completed",
		"module", "internal/shared/outbox",
		"layer", "worker",
		"published_count", published,
	)
	return nil
}
