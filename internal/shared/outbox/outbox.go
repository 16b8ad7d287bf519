package outbox

import "time"

// Message is an outbox row persisted inside the same DB transaction as the
// state change that produced it. The worker relay reads pending rows and
// publishes them to the fan-out bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string // pending, published, failed
	RetryCount   int
	CreatedAt    time.Time
	PublishedAt  *time.Time
}
