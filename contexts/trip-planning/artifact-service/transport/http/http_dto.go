package http

import "encoding/json"

// ErrorResponse is the error body returned by artifact endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ArtifactResponse struct {
	TripID      string          `json:"trip_id"`
	Kind        string          `json:"kind"`
	Content     json.RawMessage `json:"content"`
	Fingerprint string          `json:"fingerprint"`
	GeneratedAt string          `json:"generated_at"`
}

type RegenerateRequest struct {
	Force bool `json:"force"`
}

type RegenerateResponse struct {
	Artifact    ArtifactResponse `json:"artifact"`
	Regenerated bool             `json:"regenerated"`
}

type GenerateCandidatesRequest struct {
	Count int `json:"count"`
}

type CandidateOptionItem struct {
	OptionID string          `json:"option_id"`
	Category string          `json:"category"`
	BatchID  string          `json:"batch_id"`
	Payload  json.RawMessage `json:"payload"`
	Position int             `json:"position"`
}

type CandidatesResponse struct {
	Items []CandidateOptionItem `json:"items"`
}
