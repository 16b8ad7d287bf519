package postgresadapter

import (
	"strings"
	"time"

	"tripforge/contexts/trip-planning/trip-service/domain/entities"
)

type tripModel struct {
	TripID      string    `gorm:"column:trip_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Destination string    `gorm:"column:destination"`
	StartDate   string    `gorm:"column:start_date"`
	EndDate     string    `gorm:"column:end_date"`
	Timezone    string    `gorm:"column:timezone"`
	BudgetMin   int       `gorm:"column:budget_min"`
	BudgetMax   int       `gorm:"column:budget_max"`
	Summary     string    `gorm:"column:summary"`
	Status      string    `gorm:"column:status"`
	OwnerID     string    `gorm:"column:owner_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (tripModel) TableName() string {
	return "trips"
}

func tripModelFromEntity(trip entities.Trip) tripModel {
	return tripModel{
		TripID:      strings.TrimSpace(trip.TripID),
		Name:        strings.TrimSpace(trip.Name),
		Destination: strings.TrimSpace(trip.Destination),
		StartDate:   strings.TrimSpace(trip.StartDate),
		EndDate:     strings.TrimSpace(trip.EndDate),
		Timezone:    strings.TrimSpace(trip.Timezone),
		BudgetMin:   trip.BudgetMin,
		BudgetMax:   trip.BudgetMax,
		Summary:     trip.Summary,
		Status:      string(trip.Status),
		OwnerID:     strings.TrimSpace(trip.OwnerID),
		CreatedAt:   trip.CreatedAt.UTC(),
		UpdatedAt:   trip.UpdatedAt.UTC(),
	}
}

func (m tripModel) toEntity() entities.Trip {
	return entities.Trip{
		TripID:      m.TripID,
		Name:        m.Name,
		Destination: m.Destination,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Timezone:    m.Timezone,
		BudgetMin:   m.BudgetMin,
		BudgetMax:   m.BudgetMax,
		Summary:     m.Summary,
		Status:      entities.Status(m.Status),
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type memberModel struct {
	MemberID string `gorm:"column:member_id;primaryKey"`
	TripID   string `gorm:"column:trip_id;primaryKey;uniqueIndex:idx_members_trip_account"`
	// Nullable so unlinked members never collide on the unique index.
	AccountID   *string   `gorm:"column:account_id;uniqueIndex:idx_members_trip_account"`
	DisplayName string    `gorm:"column:display_name"`
	Role        string    `gorm:"column:role"`
	JoinedAt    time.Time `gorm:"column:joined_at"`
}

func (memberModel) TableName() string {
	return "members"
}

func memberModelFromEntity(member entities.Member) memberModel {
	row := memberModel{
		MemberID:    strings.TrimSpace(member.MemberID),
		TripID:      strings.TrimSpace(member.TripID),
		DisplayName: strings.TrimSpace(member.DisplayName),
		Role:        string(member.Role),
		JoinedAt:    member.JoinedAt.UTC(),
	}
	if accountID := strings.TrimSpace(member.AccountID); accountID != "" {
		row.AccountID = &accountID
	}
	return row
}

func (m memberModel) toEntity() entities.Member {
	member := entities.Member{
		MemberID:    m.MemberID,
		TripID:      m.TripID,
		DisplayName: m.DisplayName,
		Role:        entities.Role(m.Role),
		JoinedAt:    m.JoinedAt.UTC(),
	}
	if m.AccountID != nil {
		member.AccountID = *m.AccountID
	}
	return member
}

type preferenceModel struct {
	MemberID  string    `gorm:"column:member_id;primaryKey"`
	TripID    string    `gorm:"column:trip_id;primaryKey"`
	Payload   []byte    `gorm:"column:payload"`
	Ready     bool      `gorm:"column:ready"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (preferenceModel) TableName() string {
	return "preference_records"
}

func preferenceModelFromEntity(record entities.PreferenceRecord) preferenceModel {
	return preferenceModel{
		MemberID:  strings.TrimSpace(record.MemberID),
		TripID:    strings.TrimSpace(record.TripID),
		Payload:   record.Payload,
		Ready:     record.Ready,
		UpdatedAt: record.UpdatedAt.UTC(),
	}
}

func (m preferenceModel) toEntity() entities.PreferenceRecord {
	return entities.PreferenceRecord{
		MemberID:  m.MemberID,
		TripID:    m.TripID,
		Payload:   m.Payload,
		Ready:     m.Ready,
		UpdatedAt: m.UpdatedAt.UTC(),
	}
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
