package commands

import (
	"encoding/json"
	"time"

	"tripforge/contexts/trip-planning/consensus-service/ports"
)

// newConsensusEnvelope builds envelopes partitioned by trip so trip-scoped
// consumers and the per-trip fan-out channels observe a stable stream.
func newConsensusEnvelope(
	eventID string,
	eventType string,
	tripID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "consensus-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "trip_id",
		PartitionKey:     tripID,
		Data:             payload,
	}, nil
}
