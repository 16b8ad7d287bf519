package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	triperrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	triphttp "tripforge/contexts/trip-planning/trip-service/transport/http"
)

func writeTripError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, triphttp.ErrorResponse{Error: message})
}

func writeTripDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, triperrors.ErrInvalidRequest):
		writeTripError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, triperrors.ErrTripNotFound),
		errors.Is(err, triperrors.ErrMemberNotFound):
		writeTripError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, triperrors.ErrAlreadyMember),
		errors.Is(err, triperrors.ErrTripArchived):
		writeTripError(w, http.StatusConflict, err.Error())
	case errors.Is(err, triperrors.ErrNotOwner):
		writeTripError(w, http.StatusForbidden, err.Error())
	default:
		writeTripError(w, http.StatusInternalServerError, "internal server error")
	}
}

// resolveMemberID reads the caller identity header shared by every
// trip-scoped endpoint. An empty result means the request is anonymous.
func resolveMemberID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Member-Id"))
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	ownerID := resolveMemberID(r)
	if ownerID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req triphttp.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTripError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.trips.Handler.CreateTripHandler(r.Context(), ownerID, req)
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	resp, err := s.trips.Handler.GetTripHandler(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	actorID := resolveMemberID(r)
	if actorID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req triphttp.UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTripError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.trips.Handler.UpdateTripHandler(r.Context(), r.PathValue("trip_id"), actorID, req)
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	actorID := resolveMemberID(r)
	if actorID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	if err := s.trips.Handler.DeleteTripHandler(r.Context(), r.PathValue("trip_id"), actorID); err != nil {
		writeTripDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJoinTrip(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req triphttp.JoinTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTripError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.trips.Handler.JoinTripHandler(r.Context(), r.PathValue("trip_id"), memberID, req)
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLeaveTrip(w http.ResponseWriter, r *http.Request) {
	if resolveMemberID(r) == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	err := s.trips.Handler.LeaveTripHandler(r.Context(), r.PathValue("trip_id"), r.PathValue("member_id"))
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.trips.Handler.ListMembersHandler(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeTripError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req triphttp.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTripError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.trips.Handler.UpdatePreferencesHandler(r.Context(), r.PathValue("trip_id"), memberID, req)
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	resp, err := s.trips.Handler.ListPreferencesHandler(r.Context(), r.PathValue("trip_id"))
	if err != nil {
		writeTripDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
