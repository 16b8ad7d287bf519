package postgresadapter

import (
	"strings"
	"time"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
)

type voteModel struct {
	TripID    string    `gorm:"column:trip_id;primaryKey"`
	MemberID  string    `gorm:"column:member_id;primaryKey"`
	Category  string    `gorm:"column:category;primaryKey"`
	OptionID  string    `gorm:"column:option_id;primaryKey"`
	Approved  bool      `gorm:"column:approved"`
	Reason    string    `gorm:"column:reason"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		TripID:    strings.TrimSpace(vote.TripID),
		MemberID:  strings.TrimSpace(vote.MemberID),
		Category:  string(vote.Category),
		OptionID:  strings.TrimSpace(vote.OptionID),
		Approved:  vote.Approved,
		Reason:    strings.TrimSpace(vote.Reason),
		UpdatedAt: vote.UpdatedAt.UTC(),
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		TripID:    m.TripID,
		MemberID:  m.MemberID,
		Category:  entities.Category(m.Category),
		OptionID:  m.OptionID,
		Approved:  m.Approved,
		Reason:    m.Reason,
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func toVoteEntities(rows []voteModel) []entities.Vote {
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type selectionModel struct {
	TripID      string    `gorm:"column:trip_id;primaryKey"`
	Category    string    `gorm:"column:category;primaryKey"`
	OptionID    string    `gorm:"column:option_id;primaryKey"`
	ActorID     string    `gorm:"column:actor_id"`
	FinalizedAt time.Time `gorm:"column:finalized_at"`
}

func (selectionModel) TableName() string {
	return "finalized_selections"
}

func (m selectionModel) toEntity() entities.FinalizedSelection {
	return entities.FinalizedSelection{
		TripID:      m.TripID,
		Category:    entities.Category(m.Category),
		OptionID:    m.OptionID,
		ActorID:     m.ActorID,
		FinalizedAt: m.FinalizedAt.UTC(),
	}
}

// Projections over rows owned by trip-service and artifact-service.

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

type candidateProjectionModel struct {
	OptionID string `gorm:"column:option_id;primaryKey"`
	TripID   string `gorm:"column:trip_id"`
	Category string `gorm:"column:category"`
	Live     bool   `gorm:"column:live"`
}

func (candidateProjectionModel) TableName() string {
	return "candidate_options"
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
