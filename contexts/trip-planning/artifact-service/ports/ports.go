package ports

import (
	"context"
	"encoding/json"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/internal/shared/events"
)

// EventEnvelope is the canonical event shape written to the outbox.
type EventEnvelope = events.Envelope

// ArtifactRepository persists generated artifacts keyed by (trip, kind).
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, tripID string, kind entities.Kind) (entities.Artifact, bool, error)
	SaveArtifact(ctx context.Context, artifact entities.Artifact) error
}

// CandidateRepository manages generation batches of candidate options.
// ReplaceBatch clears the live flag on the previous batch for the category
// and inserts the new options in a single transaction.
type CandidateRepository interface {
	ReplaceBatch(ctx context.Context, tripID string, category entities.Category, batchID string, options []entities.CandidateOption) error
	ListLiveOptions(ctx context.Context, tripID string, category entities.Category) ([]entities.CandidateOption, error)
	CountLiveOptions(ctx context.Context, tripID string) (map[entities.Category]int, error)
}

// MemberAttr is the slice of member state that feeds fingerprints and
// generation requests.
type MemberAttr struct {
	MemberID    string
	DisplayName string
}

// TripSnapshot is a read model over trip-service state. PreferencesUpdatedAt
// is a unix timestamp, zero when no member has submitted preferences.
type TripSnapshot struct {
	TripID               string
	Destination          string
	StartDate            string
	EndDate              string
	Timezone             string
	Members              []MemberAttr
	PreferencesUpdatedAt int64
}

// SnapshotReader hydrates trip state owned by trip-service.
type SnapshotReader interface {
	TripSnapshot(ctx context.Context, tripID string) (TripSnapshot, bool, error)
}

// ConsensusReader hydrates vote state owned by consensus-service.
type ConsensusReader interface {
	UnanimousOptionIDs(ctx context.Context, tripID string) (map[entities.Category][]string, error)
	FinalizedSelections(ctx context.Context, tripID string) (map[entities.Category][]string, error)
	RejectionContext(ctx context.Context, tripID string) (string, bool, error)
}

// GenerationRequest carries everything the external generation service needs
// to produce an artifact.
type GenerationRequest struct {
	TripID              string
	Kind                entities.Kind
	Destination         string
	StartDate           string
	EndDate             string
	Timezone            string
	Members             []MemberAttr
	ApprovedOptionIDs   map[entities.Category][]string
	FinalizedSelections map[entities.Category][]string
	CandidateCounts     map[entities.Category]int
	RejectionContext    string
}

// CandidateRequest asks the generation service for a fresh option batch.
type CandidateRequest struct {
	TripID           string
	Category         entities.Category
	Count            int
	Destination      string
	StartDate        string
	EndDate          string
	Timezone         string
	Members          []MemberAttr
	RejectionContext string
}

// CandidateDraft is one generated option before it is assigned identity and
// batch membership.
type CandidateDraft struct {
	Payload json.RawMessage
}

// GenerationService is the outbound port to the artifact generation backend.
type GenerationService interface {
	GenerateArtifact(ctx context.Context, req GenerationRequest) (json.RawMessage, error)
	GenerateCandidates(ctx context.Context, req CandidateRequest) ([]CandidateDraft, error)
}

// OutboxWriter stores integration events atomically with state changes.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator creates identifiers for batches, options and events.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
