package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

// Client calls the external artifact generation backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type memberPayload struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
}

type artifactRequestPayload struct {
	TripID              string              `json:"trip_id"`
	Destination         string              `json:"destination"`
	StartDate           string              `json:"start_date"`
	EndDate             string              `json:"end_date"`
	Timezone            string              `json:"timezone"`
	Members             []memberPayload     `json:"members"`
	ApprovedOptionIDs   map[string][]string `json:"approved_option_ids,omitempty"`
	FinalizedSelections map[string][]string `json:"finalized_selections,omitempty"`
	CandidateCounts     map[string]int      `json:"candidate_counts,omitempty"`
	RejectionContext    string              `json:"rejection_context,omitempty"`
}

type candidateRequestPayload struct {
	TripID           string          `json:"trip_id"`
	Count            int             `json:"count"`
	Destination      string          `json:"destination"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Timezone         string          `json:"timezone"`
	Members          []memberPayload `json:"members"`
	RejectionContext string          `json:"rejection_context,omitempty"`
}

type candidateResponsePayload struct {
	Options []json.RawMessage `json:"options"`
}

func (c *Client) GenerateArtifact(ctx context.Context, req ports.GenerationRequest) (json.RawMessage, error) {
	payload := artifactRequestPayload{
		TripID:              req.TripID,
		Destination:         req.Destination,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		Timezone:            req.Timezone,
		Members:             toMemberPayloads(req.Members),
		ApprovedOptionIDs:   toStringKeyed(req.ApprovedOptionIDs),
		FinalizedSelections: toStringKeyed(req.FinalizedSelections),
		RejectionContext:    req.RejectionContext,
	}
	if len(req.CandidateCounts) > 0 {
		payload.CandidateCounts = map[string]int{}
		for category, count := range req.CandidateCounts {
			payload.CandidateCounts[string(category)] = count
		}
	}

	body, err := c.post(ctx, "/v1/generate/"+string(req.Kind), payload)
	if err != nil {
		return nil, err
	}
	if err := validateArtifactPayload(req.Kind, body); err != nil {
		if c.logger != nil {
			c.logger.Error("generation backend returned malformed payload",
				"event", "artifact_generation_payload_invalid",
				"module", "trip-planning/artifact-service",
				"layer", "adapter",
				"trip_id", req.TripID,
				"kind", string(req.Kind),
				"error", err.Error(),
			)
		}
		return nil, err
	}
	return body, nil
}

// validateArtifactPayload rejects backend responses that do not match the
// kind's payload shape before they reach the artifact store.
func validateArtifactPayload(kind entities.Kind, body json.RawMessage) error {
	switch kind {
	case entities.KindBudget:
		var budget entities.BudgetRange
		if err := json.Unmarshal(body, &budget); err != nil {
			return fmt.Errorf("decode budget payload: %w", err)
		}
		if budget.Min < 0 || budget.Max < budget.Min {
			return fmt.Errorf("budget payload range invalid: min=%d max=%d", budget.Min, budget.Max)
		}
	case entities.KindItinerary:
		var days []entities.DayPlan
		if err := json.Unmarshal(body, &days); err != nil {
			return fmt.Errorf("decode itinerary payload: %w", err)
		}
		if len(days) == 0 {
			return fmt.Errorf("itinerary payload is empty")
		}
	default:
		if !json.Valid(body) {
			return fmt.Errorf("payload for %s is not valid JSON", kind)
		}
	}
	return nil
}

func (c *Client) GenerateCandidates(ctx context.Context, req ports.CandidateRequest) ([]ports.CandidateDraft, error) {
	payload := candidateRequestPayload{
		TripID:           req.TripID,
		Count:            req.Count,
		Destination:      req.Destination,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Timezone:         req.Timezone,
		Members:          toMemberPayloads(req.Members),
		RejectionContext: req.RejectionContext,
	}

	body, err := c.post(ctx, "/v1/candidates/"+string(req.Category), payload)
	if err != nil {
		return nil, err
	}

	var decoded candidateResponsePayload
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode candidate response: %w", err)
	}
	drafts := make([]ports.CandidateDraft, 0, len(decoded.Options))
	for _, option := range decoded.Options {
		drafts = append(drafts, ports.CandidateDraft{Payload: option})
	}
	return drafts, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("generation backend rejected request",
				"event", "artifact_generation_http_error",
				"module", "trip-planning/artifact-service",
				"layer", "adapter",
				"path", path,
				"status", response.StatusCode,
			)
		}
		return nil, fmt.Errorf("generation backend returned %d for %s", response.StatusCode, path)
	}
	return body, nil
}

func toMemberPayloads(members []ports.MemberAttr) []memberPayload {
	out := make([]memberPayload, 0, len(members))
	for _, m := range members {
		out = append(out, memberPayload{MemberID: m.MemberID, DisplayName: m.DisplayName})
	}
	return out
}

func toStringKeyed(in map[entities.Category][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
