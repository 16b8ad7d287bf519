package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	artifacterrors "tripforge/contexts/trip-planning/artifact-service/domain/errors"
	artifacthttp "tripforge/contexts/trip-planning/artifact-service/transport/http"
)

func writeArtifactError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, artifacthttp.ErrorResponse{Error: message})
}

func writeArtifactDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, artifacterrors.ErrInvalidRequest):
		writeArtifactError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, artifacterrors.ErrTripNotFound),
		errors.Is(err, artifacterrors.ErrArtifactNotFound):
		writeArtifactError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, artifacterrors.ErrGenerationUnavailable):
		writeArtifactError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, artifacterrors.ErrSchedulerClosed):
		writeArtifactError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeArtifactError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	resp, err := s.artifacts.Handler.GetArtifactHandler(r.Context(), r.PathValue("trip_id"), r.PathValue("kind"))
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegenerateArtifact(w http.ResponseWriter, r *http.Request) {
	if resolveMemberID(r) == "" {
		writeArtifactError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	// The body is optional; an empty body means a plain regenerate request.
	var req artifacthttp.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeArtifactError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.artifacts.Handler.RegenerateHandler(r.Context(), r.PathValue("trip_id"), r.PathValue("kind"), req)
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateCandidates(w http.ResponseWriter, r *http.Request) {
	if resolveMemberID(r) == "" {
		writeArtifactError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req artifacthttp.GenerateCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeArtifactError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.artifacts.Handler.GenerateCandidatesHandler(r.Context(), r.PathValue("trip_id"), r.PathValue("category"), req)
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.artifacts.Handler.ListCandidatesHandler(r.Context(), r.PathValue("trip_id"), r.PathValue("category"))
	if err != nil {
		writeArtifactDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
