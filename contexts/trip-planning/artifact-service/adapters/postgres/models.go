package postgresadapter

import (
	"strings"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
)

type artifactModel struct {
	TripID      string    `gorm:"column:trip_id;primaryKey"`
	Kind        string    `gorm:"column:kind;primaryKey"`
	Content     []byte    `gorm:"column:content"`
	Fingerprint string    `gorm:"column:fingerprint"`
	GeneratedAt time.Time `gorm:"column:generated_at"`
}

func (artifactModel) TableName() string {
	return "derived_artifacts"
}

func artifactModelFromEntity(artifact entities.Artifact) artifactModel {
	return artifactModel{
		TripID:      strings.TrimSpace(artifact.TripID),
		Kind:        string(artifact.Kind),
		Content:     artifact.Content,
		Fingerprint: artifact.Fingerprint,
		GeneratedAt: artifact.GeneratedAt.UTC(),
	}
}

func (m artifactModel) toEntity() entities.Artifact {
	return entities.Artifact{
		TripID:      m.TripID,
		Kind:        entities.Kind(m.Kind),
		Content:     m.Content,
		Fingerprint: m.Fingerprint,
		GeneratedAt: m.GeneratedAt.UTC(),
	}
}

type candidateModel struct {
	OptionID  string    `gorm:"column:option_id;primaryKey"`
	TripID    string    `gorm:"column:trip_id"`
	Category  string    `gorm:"column:category"`
	BatchID   string    `gorm:"column:batch_id"`
	Payload   []byte    `gorm:"column:payload"`
	Position  int       `gorm:"column:position"`
	Live      bool      `gorm:"column:live"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidate_options"
}

func candidateModelFromEntity(option entities.CandidateOption) candidateModel {
	return candidateModel{
		OptionID:  strings.TrimSpace(option.OptionID),
		TripID:    strings.TrimSpace(option.TripID),
		Category:  string(option.Category),
		BatchID:   strings.TrimSpace(option.BatchID),
		Payload:   option.Payload,
		Position:  option.Position,
		Live:      option.Live,
		CreatedAt: option.CreatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.CandidateOption {
	return entities.CandidateOption{
		OptionID:  m.OptionID,
		TripID:    m.TripID,
		Category:  entities.Category(m.Category),
		BatchID:   m.BatchID,
		Payload:   m.Payload,
		Position:  m.Position,
		Live:      m.Live,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// Projections over rows owned by trip-service and consensus-service.

type tripProjectionModel struct {
	TripID      string `gorm:"column:trip_id;primaryKey"`
	Destination string `gorm:"column:destination"`
	StartDate   string `gorm:"column:start_date"`
	EndDate     string `gorm:"column:end_date"`
	Timezone    string `gorm:"column:timezone"`
}

func (tripProjectionModel) TableName() string {
	return "trips"
}

type memberProjectionModel struct {
	MemberID    string `gorm:"column:member_id;primaryKey"`
	TripID      string `gorm:"column:trip_id"`
	DisplayName string `gorm:"column:display_name"`
}

func (memberProjectionModel) TableName() string {
	return "members"
}

type preferenceProjectionModel struct {
	MemberID  string    `gorm:"column:member_id;primaryKey"`
	TripID    string    `gorm:"column:trip_id"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (preferenceProjectionModel) TableName() string {
	return "preference_records"
}

type voteProjectionModel struct {
	TripID   string `gorm:"column:trip_id;primaryKey"`
	MemberID string `gorm:"column:member_id;primaryKey"`
	Category string `gorm:"column:category;primaryKey"`
	OptionID string `gorm:"column:option_id;primaryKey"`
	Approved bool   `gorm:"column:approved"`
	Reason   string `gorm:"column:reason"`
}

func (voteProjectionModel) TableName() string {
	return "votes"
}

type selectionProjectionModel struct {
	TripID   string `gorm:"column:trip_id;primaryKey"`
	Category string `gorm:"column:category;primaryKey"`
	OptionID string `gorm:"column:option_id;primaryKey"`
}

func (selectionProjectionModel) TableName() string {
	return "finalized_selections"
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
