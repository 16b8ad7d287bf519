package postgresadapter

import (
	"time"

	"tripforge/contexts/trip-planning/chat-service/ports"
)

type messageModel struct {
	MessageID      string    `gorm:"column:message_id;primaryKey"`
	TripID         string    `gorm:"column:trip_id;uniqueIndex:idx_messages_trip_sequence"`
	MemberID       string    `gorm:"column:member_id"`
	DisplayName    string    `gorm:"column:display_name"`
	Body           string    `gorm:"column:body"`
	SequenceNumber int64     `gorm:"column:sequence_number;uniqueIndex:idx_messages_trip_sequence"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (messageModel) TableName() string {
	return "messages"
}

func (m messageModel) toPort() ports.Message {
	return ports.Message{
		MessageID:      m.MessageID,
		TripID:         m.TripID,
		MemberID:       m.MemberID,
		DisplayName:    m.DisplayName,
		Body:           m.Body,
		SequenceNumber: m.SequenceNumber,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "idempotency_records"
}

// Projections over rows owned by trip-service.

type tripProjectionModel struct {
	TripID string `gorm:"column:trip_id;primaryKey"`
}

func (tripProjectionModel) TableName() string {
	return "trips"
}

type memberProjectionModel struct {
	MemberID string `gorm:"column:member_id;primaryKey"`
	TripID   string `gorm:"column:trip_id"`
}

func (memberProjectionModel) TableName() string {
	return "members"
}

type outboxModel struct {
	OutboxID     string    `gorm:"column:outbox_id;primaryKey"`
	EventType    string    `gorm:"column:event_type"`
	PartitionKey string    `gorm:"column:partition_key"`
	Payload      []byte    `gorm:"column:payload"`
	Status       string    `gorm:"column:status"`
	RetryCount   int       `gorm:"column:retry_count"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string {
	return "outbox_events"
}
