package busadapter

import (
	"context"

	"tripforge/contexts/trip-planning/chat-service/ports"
	"tripforge/internal/shared/events"
)

// Publisher is satisfied by the platform messaging bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, env events.Envelope) error
}

// TypingPublisher pushes typing pings straight onto the fan-out bus. Pings
// skip the outbox: they are ephemeral and lose all value delivered late.
type TypingPublisher struct {
	Bus Publisher
}

func (p TypingPublisher) PublishTyping(ctx context.Context, env ports.EventEnvelope) error {
	for _, topic := range events.FanOutTopics(env) {
		if err := p.Bus.Publish(ctx, topic, env); err != nil {
			return err
		}
	}
	return nil
}
