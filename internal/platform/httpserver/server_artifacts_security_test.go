package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	artifactports "tripforge/contexts/trip-planning/artifact-service/ports"
)

func seedArtifactTrip(server *Server) {
	server.artifacts.Store.SetSnapshot(artifactports.TripSnapshot{
		TripID:      "trip-1",
		Destination: "Lisbon",
		StartDate:   "2026-10-02",
		EndDate:     "2026-10-04",
		Timezone:    "Europe/Lisbon",
		Members: []artifactports.MemberAttr{
			{MemberID: "member-1", DisplayName: "Ana"},
		},
	})
}

func TestRegenerateArtifactRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	seedArtifactTrip(server)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/artifacts/summary/regenerate", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetArtifactRejectsUnknownKind(t *testing.T) {
	server := newTestServer()
	seedArtifactTrip(server)

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/artifacts/poster", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetArtifactBeforeGenerationReturnsNotFound(t *testing.T) {
	server := newTestServer()
	seedArtifactTrip(server)

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/artifacts/summary", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegenerateUnknownTripReturnsNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/ghost/artifacts/summary/regenerate", nil)
	req.Header.Set("X-Member-Id", "member-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegenerateReportsGenerationOutage(t *testing.T) {
	server := newTestServer()
	seedArtifactTrip(server)
	server.artifacts.Store.FailGeneration("backend down")

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/artifacts/summary/regenerate", strings.NewReader(`{"force":true}`))
	req.Header.Set("X-Member-Id", "member-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGenerateCandidatesRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	seedArtifactTrip(server)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/candidates/flight", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}
