package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chaterrors "tripforge/contexts/trip-planning/chat-service/domain/errors"
	chathttp "tripforge/contexts/trip-planning/chat-service/transport/http"
)

func writeChatError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, chathttp.ErrorResponse{Error: message})
}

func writeChatDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chaterrors.ErrInvalidRequest),
		errors.Is(err, chaterrors.ErrIdempotencyKeyRequired):
		writeChatError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chaterrors.ErrTripNotFound),
		errors.Is(err, chaterrors.ErrMemberNotFound):
		writeChatError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chaterrors.ErrIdempotencyConflict):
		writeChatError(w, http.StatusConflict, err.Error())
	case errors.Is(err, chaterrors.ErrRateLimited):
		writeChatError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeChatError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeChatError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	var req chathttp.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.chat.Handler.PostMessageHandler(
		r.Context(),
		r.PathValue("trip_id"),
		memberID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var afterSequence int64
	if raw := query.Get("after_sequence"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			writeChatError(w, http.StatusBadRequest, "after_sequence must be a non-negative integer")
			return
		}
		afterSequence = value
	}

	var limit int
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			writeChatError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = value
	}

	resp, err := s.chat.Handler.ListMessagesHandler(r.Context(), r.PathValue("trip_id"), afterSequence, limit)
	if err != nil {
		writeChatDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePingTyping(w http.ResponseWriter, r *http.Request) {
	memberID := resolveMemberID(r)
	if memberID == "" {
		writeChatError(w, http.StatusUnauthorized, "X-Member-Id header is required")
		return
	}

	if err := s.chat.Handler.PingTypingHandler(r.Context(), r.PathValue("trip_id"), memberID); err != nil {
		writeChatDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
