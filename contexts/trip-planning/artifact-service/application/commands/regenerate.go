package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tripforge/contexts/trip-planning/artifact-service/application"
	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/artifact-service/domain/errors"
	"tripforge/contexts/trip-planning/artifact-service/ports"
	"tripforge/internal/shared/events"
)

// RegenerateResult reports whether the stored artifact was rebuilt or the
// fingerprint matched and the stored row was reused.
type RegenerateResult struct {
	Artifact    entities.Artifact
	Regenerated bool
}

// RegenerateUseCase rebuilds one derived artifact when its input fingerprint
// has drifted from the stored one. A failed generation call leaves the stored
// artifact and its fingerprint untouched, so the next trigger retries.
type RegenerateUseCase struct {
	Artifacts  ports.ArtifactRepository
	Candidates ports.CandidateRepository
	Snapshot   ports.SnapshotReader
	Consensus  ports.ConsensusReader
	Generator  ports.GenerationService
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RegenerateUseCase) Regenerate(ctx context.Context, tripID string, kind entities.Kind, force bool) (RegenerateResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID = strings.TrimSpace(tripID)
	if tripID == "" || !kind.Valid() {
		return RegenerateResult{}, domainerrors.ErrInvalidRequest
	}

	snapshot, found, err := uc.Snapshot.TripSnapshot(ctx, tripID)
	if err != nil {
		return RegenerateResult{}, err
	}
	if !found {
		return RegenerateResult{}, domainerrors.ErrTripNotFound
	}

	inputs := application.FingerprintInputs{
		TripID:               snapshot.TripID,
		Destination:          snapshot.Destination,
		StartDate:            snapshot.StartDate,
		EndDate:              snapshot.EndDate,
		Timezone:             snapshot.Timezone,
		Members:              snapshot.Members,
		PreferencesUpdatedAt: snapshot.PreferencesUpdatedAt,
	}

	var unanimous map[entities.Category][]string
	if kind == entities.KindSummary {
		unanimous, err = uc.Consensus.UnanimousOptionIDs(ctx, tripID)
		if err != nil {
			return RegenerateResult{}, err
		}
		inputs.UnanimousOptionIDs = unanimous
	}

	fingerprint := application.Fingerprint(kind, inputs)

	stored, exists, err := uc.Artifacts.GetArtifact(ctx, tripID, kind)
	if err != nil {
		return RegenerateResult{}, err
	}
	if exists && !force && stored.Fingerprint == fingerprint {
		logger.Debug("artifact regeneration skipped",
			"event", "artifact_regenerate_skipped",
			"module", "trip-planning/artifact-service",
			"layer", "application",
			"trip_id", tripID,
			"kind", string(kind),
			"fingerprint", fingerprint,
		)
		return RegenerateResult{Artifact: stored}, nil
	}

	finalized, err := uc.Consensus.FinalizedSelections(ctx, tripID)
	if err != nil {
		return RegenerateResult{}, err
	}
	rejectionContext, _, err := uc.Consensus.RejectionContext(ctx, tripID)
	if err != nil {
		return RegenerateResult{}, err
	}
	counts, err := uc.Candidates.CountLiveOptions(ctx, tripID)
	if err != nil {
		return RegenerateResult{}, err
	}

	content, err := uc.Generator.GenerateArtifact(ctx, ports.GenerationRequest{
		TripID:              tripID,
		Kind:                kind,
		Destination:         snapshot.Destination,
		StartDate:           snapshot.StartDate,
		EndDate:             snapshot.EndDate,
		Timezone:            snapshot.Timezone,
		Members:             snapshot.Members,
		ApprovedOptionIDs:   unanimous,
		FinalizedSelections: finalized,
		CandidateCounts:     counts,
		RejectionContext:    rejectionContext,
	})
	if err != nil {
		logger.Error("artifact generation failed",
			"event", "artifact_generate_failed",
			"module", "trip-planning/artifact-service",
			"layer", "application",
			"trip_id", tripID,
			"kind", string(kind),
			"error", err.Error(),
		)
		return RegenerateResult{}, fmt.Errorf("%w: %v", domainerrors.ErrGenerationUnavailable, err)
	}

	artifact := entities.Artifact{
		TripID:      tripID,
		Kind:        kind,
		Content:     content,
		Fingerprint: fingerprint,
		GeneratedAt: uc.Clock.Now().UTC(),
	}
	if err := uc.Artifacts.SaveArtifact(ctx, artifact); err != nil {
		return RegenerateResult{}, err
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return RegenerateResult{}, err
	}
	event, err := newArtifactEnvelope(eventID, events.TypeArtifactUpdated, tripID, artifact.GeneratedAt, map[string]any{
		"trip_id":     tripID,
		"kind":        string(kind),
		"fingerprint": fingerprint,
	})
	if err != nil {
		return RegenerateResult{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, event); err != nil {
		return RegenerateResult{}, err
	}

	logger.Info("artifact regenerated",
		"event", "artifact_regenerated",
		"module", "trip-planning/artifact-service",
		"layer", "application",
		"trip_id", tripID,
		"kind", string(kind),
		"fingerprint", fingerprint,
	)
	return RegenerateResult{Artifact: artifact, Regenerated: true}, nil
}
