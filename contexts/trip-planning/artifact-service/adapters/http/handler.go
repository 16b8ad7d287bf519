package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/application/commands"
	"tripforge/contexts/trip-planning/artifact-service/application/queries"
	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	httptransport "tripforge/contexts/trip-planning/artifact-service/transport/http"
)

type Handler struct {
	Regenerate commands.RegenerateUseCase
	Candidates commands.CandidatesUseCase
	Artifacts  queries.ArtifactUseCase
	Logger     *slog.Logger
}

func (h Handler) GetArtifactHandler(ctx context.Context, tripID string, kind string) (httptransport.ArtifactResponse, error) {
	artifact, err := h.Artifacts.GetArtifact(ctx, tripID, entities.Kind(strings.TrimSpace(kind)))
	if err != nil {
		return httptransport.ArtifactResponse{}, err
	}
	return toArtifactResponse(artifact), nil
}

// RegenerateHandler is the synchronous regeneration path. The event-driven
// scheduler covers the same ground; this endpoint exists for forced rebuilds
// and operator use.
func (h Handler) RegenerateHandler(ctx context.Context, tripID string, kind string, req httptransport.RegenerateRequest) (httptransport.RegenerateResponse, error) {
	result, err := h.Regenerate.Regenerate(ctx, tripID, entities.Kind(strings.TrimSpace(kind)), req.Force)
	if err != nil {
		return httptransport.RegenerateResponse{}, err
	}
	return httptransport.RegenerateResponse{
		Artifact:    toArtifactResponse(result.Artifact),
		Regenerated: result.Regenerated,
	}, nil
}

func (h Handler) GenerateCandidatesHandler(ctx context.Context, tripID string, category string, req httptransport.GenerateCandidatesRequest) (httptransport.CandidatesResponse, error) {
	options, err := h.Candidates.GenerateCandidates(ctx, tripID, entities.Category(strings.TrimSpace(category)), req.Count)
	if err != nil {
		return httptransport.CandidatesResponse{}, err
	}
	return toCandidatesResponse(options), nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, tripID string, category string) (httptransport.CandidatesResponse, error) {
	options, err := h.Artifacts.ListCandidates(ctx, tripID, entities.Category(strings.TrimSpace(category)))
	if err != nil {
		return httptransport.CandidatesResponse{}, err
	}
	return toCandidatesResponse(options), nil
}

func toArtifactResponse(artifact entities.Artifact) httptransport.ArtifactResponse {
	return httptransport.ArtifactResponse{
		TripID:      artifact.TripID,
		Kind:        string(artifact.Kind),
		Content:     artifact.Content,
		Fingerprint: artifact.Fingerprint,
		GeneratedAt: artifact.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func toCandidatesResponse(options []entities.CandidateOption) httptransport.CandidatesResponse {
	items := make([]httptransport.CandidateOptionItem, 0, len(options))
	for _, option := range options {
		items = append(items, httptransport.CandidateOptionItem{
			OptionID: option.OptionID,
			Category: string(option.Category),
			BatchID:  option.BatchID,
			Payload:  option.Payload,
			Position: option.Position,
		})
	}
	return httptransport.CandidatesResponse{Items: items}
}
