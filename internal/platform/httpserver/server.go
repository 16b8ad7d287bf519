package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	artifactservice "tripforge/contexts/trip-planning/artifact-service"
	chatservice "tripforge/contexts/trip-planning/chat-service"
	consensusservice "tripforge/contexts/trip-planning/consensus-service"
	tripservice "tripforge/contexts/trip-planning/trip-service"
	"tripforge/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tripforge/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	trips     tripservice.Module
	consensus consensusservice.Module
	artifacts artifactservice.Module
	chat      chatservice.Module
	bus       *messaging.Bus
}

func New(
	trips tripservice.Module,
	consensus consensusservice.Module,
	artifacts artifactservice.Module,
	chat chatservice.Module,
	bus *messaging.Bus,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		trips:     trips,
		consensus: consensus,
		artifacts: artifacts,
		chat:      chat,
		bus:       bus,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/trips", s.handleCreateTrip)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}", s.handleGetTrip)
	s.mux.HandleFunc("PATCH /v1/trips/{trip_id}", s.handleUpdateTrip)
	s.mux.HandleFunc("DELETE /v1/trips/{trip_id}", s.handleDeleteTrip)
	s.mux.HandleFunc("POST /v1/trips/{trip_id}/members", s.handleJoinTrip)
	s.mux.HandleFunc("DELETE /v1/trips/{trip_id}/members/{member_id}", s.handleLeaveTrip)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/members", s.handleListMembers)
	s.mux.HandleFunc("PUT /v1/trips/{trip_id}/preferences", s.handleUpdatePreferences)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/preferences", s.handleListPreferences)

	s.mux.HandleFunc("POST /v1/trips/{trip_id}/votes", s.handleRecordVote)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/tallies/{category}/{option_id}", s.handleGetTally)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/rejections/{category}/{option_id}", s.handleListRejections)
	s.mux.HandleFunc("POST /v1/trips/{trip_id}/selections", s.handleFinalizeSelection)
	s.mux.HandleFunc("DELETE /v1/trips/{trip_id}/selections/{category}/{option_id}", s.handleUnfinalizeSelection)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/selections", s.handleListSelections)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/rejection-context", s.handleRejectionContext)

	s.mux.HandleFunc("GET /v1/trips/{trip_id}/artifacts/{kind}", s.handleGetArtifact)
	s.mux.HandleFunc("POST /v1/trips/{trip_id}/artifacts/{kind}/regenerate", s.handleRegenerateArtifact)
	s.mux.HandleFunc("POST /v1/trips/{trip_id}/candidates/{category}", s.handleGenerateCandidates)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/candidates/{category}", s.handleListCandidates)

	s.mux.HandleFunc("POST /v1/trips/{trip_id}/messages", s.handlePostMessage)
	s.mux.HandleFunc("GET /v1/trips/{trip_id}/messages", s.handleListMessages)
	s.mux.HandleFunc("POST /v1/trips/{trip_id}/typing", s.handlePingTyping)

	s.mux.HandleFunc("GET /v1/trips/{trip_id}/events", s.handleStreamEvents)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
