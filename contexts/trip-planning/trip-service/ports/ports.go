package ports

import (
	"context"
	"time"

	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	"tripforge/internal/shared/events"
)

// EventEnvelope aliases the canonical envelope so application code stays
// inside the context boundary.
type EventEnvelope = events.Envelope

type TripRepository interface {
	CreateTrip(ctx context.Context, trip entities.Trip) error
	GetTrip(ctx context.Context, tripID string) (entities.Trip, bool, error)
	UpdateTrip(ctx context.Context, trip entities.Trip) error
	// DeleteTrip removes the trip row plus its members and preference
	// records in one transaction. Rows owned by other services are left to
	// their own cleanup.
	DeleteTrip(ctx context.Context, tripID string) error
}

type MemberRepository interface {
	AddMember(ctx context.Context, member entities.Member) error
	GetMember(ctx context.Context, tripID string, memberID string) (entities.Member, bool, error)
	// GetMemberByAccount resolves the trip member linked to an external
	// account. At most one member per (trip, account) exists.
	GetMemberByAccount(ctx context.Context, tripID string, accountID string) (entities.Member, bool, error)
	RemoveMember(ctx context.Context, tripID string, memberID string) error
	ListMembers(ctx context.Context, tripID string) ([]entities.Member, error)
}

type PreferenceRepository interface {
	UpsertPreference(ctx context.Context, record entities.PreferenceRecord) error
	ListPreferences(ctx context.Context, tripID string) ([]entities.PreferenceRecord, error)
	RemovePreference(ctx context.Context, tripID string, memberID string) error
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, env EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
