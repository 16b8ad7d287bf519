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
)

const defaultCandidateCount = 5

// CandidatesUseCase produces a fresh candidate batch for one category.
// Rejection context from prior votes is forwarded to the generation service
// so replacement options steer away from what the group already turned down.
type CandidatesUseCase struct {
	Candidates ports.CandidateRepository
	Snapshot   ports.SnapshotReader
	Consensus  ports.ConsensusReader
	Generator  ports.GenerationService
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CandidatesUseCase) GenerateCandidates(ctx context.Context, tripID string, category entities.Category, count int) ([]entities.CandidateOption, error) {
	logger := application.ResolveLogger(uc.Logger)

	tripID = strings.TrimSpace(tripID)
	if tripID == "" || !category.Valid() {
		return nil, domainerrors.ErrInvalidRequest
	}
	if count <= 0 {
		count = defaultCandidateCount
	}

	snapshot, found, err := uc.Snapshot.TripSnapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrTripNotFound
	}

	rejectionContext, _, err := uc.Consensus.RejectionContext(ctx, tripID)
	if err != nil {
		return nil, err
	}

	drafts, err := uc.Generator.GenerateCandidates(ctx, ports.CandidateRequest{
		TripID:           tripID,
		Category:         category,
		Count:            count,
		Destination:      snapshot.Destination,
		StartDate:        snapshot.StartDate,
		EndDate:          snapshot.EndDate,
		Timezone:         snapshot.Timezone,
		Members:          snapshot.Members,
		RejectionContext: rejectionContext,
	})
	if err != nil {
		logger.Error("candidate generation failed",
			"event", "artifact_candidates_generate_failed",
			"module", "trip-planning/artifact-service",
			"layer", "application",
			"trip_id", tripID,
			"category", string(category),
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrGenerationUnavailable, err)
	}

	now := uc.Clock.Now().UTC()
	batchID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]entities.CandidateOption, 0, len(drafts))
	for position, draft := range drafts {
		optionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		options = append(options, entities.CandidateOption{
			OptionID:  optionID,
			TripID:    tripID,
			Category:  category,
			BatchID:   batchID,
			Payload:   draft.Payload,
			Position:  position,
			Live:      true,
			CreatedAt: now,
		})
	}

	if err := uc.Candidates.ReplaceBatch(ctx, tripID, category, batchID, options); err != nil {
		return nil, err
	}

	logger.Info("candidate batch replaced",
		"event", "artifact_candidate_batch_replaced",
		"module", "trip-planning/artifact-service",
		"layer", "application",
		"trip_id", tripID,
		"category", string(category),
		"batch_id", batchID,
		"count", len(options),
	)
	return options, nil
}
