package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	consensuserrors "tripforge/contexts/trip-planning/consensus-service/domain/errors"
	consensushttp "tripforge/contexts/trip-planning/consensus-service/transport/http"
)

func writeConsensusError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, consensushttp.ErrorResponse{Code: code, Message: message})
}

func writeConsensusDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consensuserrors.ErrInvalidRequest):
		writeConsensusError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, consensuserrors.ErrTripNotFound):
		writeConsensusError(w, http.StatusNotFound, "trip_not_found", err.Error())
	case errors.Is(err, consensuserrors.ErrMemberNotFound):
		writeConsensusError(w, http.StatusNotFound, "member_not_found", err.Error())
	case errors.Is(err, consensuserrors.ErrOptionNotFound):
		writeConsensusError(w, http.StatusNotFound, "option_not_found", err.Error())
	default:
		writeConsensusError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRecordVote(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeConsensusError(w, http.StatusUnauthorized, "missing_member", "X-Member-Id header is required")
		return
	}

	var req consensushttp.RecordVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeConsensusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.consensus.Handler.RecordVoteHandler(r.Context(), r.PathValue("trip_id"), memberID, req)
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.consensus.Handler.TallyHandler(
		r.Context(),
		r.PathValue("trip_id"),
		r.PathValue("category"),
		r.PathValue("option_id"),
	)
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRejections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.consensus.Handler.RejectionsHandler(
		r.Context(),
		r.PathValue("trip_id"),
		r.PathValue("category"),
		r.PathValue("option_id"),
		resolveMemberID(r),
	)
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalizeSelection(w http.ResponseWriter, r *http.Request) {
	actorID := resolveMemberID(r)
	if actorID == "" {
		writeConsensusError(w, http.StatusUnauthorized, "missing_member", "X-Member-Id header is required")
		return
	}

	var req consensushttp.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeConsensusError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.consensus.Handler.FinalizeHandler(r.Context(), r.PathValue("trip_id"), actorID, req); err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfinalizeSelection(w http.ResponseWriter, r *http.Request) {
	if resolveMemberID(r) == "" {
		writeConsensusError(w, http.StatusUnauthorized, "missing_member", "X-Member-Id header is required")
		return
	}

	err := s.consensus.Handler.UnfinalizeHandler(
		r.Context(),
		r.PathValue("trip_id"),
		r.PathValue("category"),
		r.PathValue("option_id"),
	)
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSelections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.consensus.Handler.SelectionsHandler(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectionContext(w http.ResponseWriter, r *http.Request) {
	resp, err := s.consensus.Handler.RejectionContextHandler(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		writeConsensusDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
