package ports

import (
	"context"
	"time"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	"tripforge/internal/shared/events"
)

// EventEnvelope aliases the canonical envelope so application code stays
// inside the context boundary.
type EventEnvelope = events.Envelope

type VoteRepository interface {
	UpsertVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, tripID string, memberID string, category entities.Category, optionID string) (entities.Vote, bool, error)
	ListVotesByOption(ctx context.Context, tripID string, category entities.Category, optionID string) ([]entities.Vote, error)
	ListVotesByTrip(ctx context.Context, tripID string) ([]entities.Vote, error)
}

type SelectionRepository interface {
	// ReplaceSelection removes every other finalized row for the same
	// (trip, category) and inserts the new one as a single operation.
	ReplaceSelection(ctx context.Context, selection entities.FinalizedSelection) error
	// AddSelection inserts for multi-select categories; already-present rows
	// are left untouched.
	AddSelection(ctx context.Context, selection entities.FinalizedSelection) error
	// RemoveSelection deletes the row; absent rows are a no-op.
	RemoveSelection(ctx context.Context, tripID string, category entities.Category, optionID string) error
	ListSelections(ctx context.Context, tripID string) ([]entities.FinalizedSelection, error)
}

// MembershipReader is a projection over trip-service owned rows. Counts are
// always live reads.
type MembershipReader interface {
	TripExists(ctx context.Context, tripID string) (bool, error)
	MemberExists(ctx context.Context, tripID string, memberID string) (bool, error)
	CountMembers(ctx context.Context, tripID string) (int, error)
}

// CandidateReader is a projection over artifact-service owned candidate
// batches. Only options in the current batch are live; regeneration orphans
// earlier ids.
type CandidateReader interface {
	OptionLive(ctx context.Context, tripID string, category entities.Category, optionID string) (bool, error)
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
