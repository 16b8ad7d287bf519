package queries

import (
	"context"
	"strings"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/artifact-service/domain/errors"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

// ArtifactUseCase serves read access to stored artifacts and live candidate
// batches.
type ArtifactUseCase struct {
	Artifacts  ports.ArtifactRepository
	Candidates ports.CandidateRepository
}

func (uc ArtifactUseCase) GetArtifact(ctx context.Context, tripID string, kind entities.Kind) (entities.Artifact, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" || !kind.Valid() {
		return entities.Artifact{}, domainerrors.ErrInvalidRequest
	}
	artifact, found, err := uc.Artifacts.GetArtifact(ctx, tripID, kind)
	if err != nil {
		return entities.Artifact{}, err
	}
	if !found {
		return entities.Artifact{}, domainerrors.ErrArtifactNotFound
	}
	return artifact, nil
}

func (uc ArtifactUseCase) ListCandidates(ctx context.Context, tripID string, category entities.Category) ([]entities.CandidateOption, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" || !category.Valid() {
		return nil, domainerrors.ErrInvalidRequest
	}
	return uc.Candidates.ListLiveOptions(ctx, tripID, category)
}
