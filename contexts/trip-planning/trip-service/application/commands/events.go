package commands

import (
	"encoding/json"
	"time"

	"tripforge/contexts/trip-planning/trip-service/ports"
)

// newTripEnvelope builds envelopes partitioned by trip so trip-scoped
// consumers and the per-trip fan-out channels observe a stable stream.
func newTripEnvelope(
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
		SourceService:    "trip-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "trip_id",
		PartitionKey:     tripID,
		Data:             payload,
	}, nil
}
