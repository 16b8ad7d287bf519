package workers

import (
	"context"
	"log/slog"

	"tripforge/contexts/trip-planning/artifact-service/application"
	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
	"tripforge/internal/shared/events"
)

// Subscriber is the inbound messaging port the consumer listens on.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// Trigger is satisfied by the regeneration scheduler.
type Trigger interface {
	Trigger(tripID string, kind entities.Kind)
}

// triggerTopics are the event types that can move an artifact fingerprint.
var triggerTopics = []string{
	events.TypeVoteRecorded,
	events.TypeSelectionFinalized,
	events.TypeSelectionUnfinalized,
	events.TypeMemberJoined,
	events.TypeMemberLeft,
	events.TypePreferencesUpdated,
}

// ArtifactTriggerConsumer feeds consensus and membership events into the
// regeneration scheduler. It hands every event to every artifact kind; the
// fingerprint comparison downstream decides whether anything is rebuilt.
type ArtifactTriggerConsumer struct {
	Subscriber    Subscriber
	Scheduler     Trigger
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ArtifactTriggerConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := c.ConsumerGroup
	if group == "" {
		group = "artifact-service.trigger"
	}

	for _, topic := range triggerTopics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			return err
		}
		logger.Info("artifact trigger subscribed",
			"event", "artifact_trigger_subscribed",
			"module", "trip-planning/artifact-service",
			"layer", "application",
			"topic", topic,
			"consumer_group", group,
		)
	}
	return nil
}

func (c ArtifactTriggerConsumer) handle(_ context.Context, env ports.EventEnvelope) error {
	tripID := env.PartitionKey
	if tripID == "" {
		return nil
	}
	for _, kind := range entities.Kinds() {
		c.Scheduler.Trigger(tripID, kind)
	}
	return nil
}
