package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	triphttp "tripforge/contexts/trip-planning/trip-service/transport/http"
)

func createTestTrip(t *testing.T, server *Server, ownerID string) triphttp.TripResponse {
	t.Helper()
	body := `{"name":"Lisbon weekend","destination":"Lisbon","start_date":"2026-10-02","end_date":"2026-10-04","timezone":"Europe/Lisbon","owner_display_name":"Ana"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", strings.NewReader(body))
	req.Header.Set("X-Member-Id", ownerID)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create trip failed: %d body=%s", rr.Code, rr.Body.String())
	}

	var resp triphttp.TripResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode trip response: %v", err)
	}
	return resp
}

func TestCreateTripRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", strings.NewReader(`{"name":"x"}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateTripRejectsInvalidJSON(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", strings.NewReader("{not json"))
	req.Header.Set("X-Member-Id", "member-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetTripUnknownReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/ghost", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeleteTripRequiresOwner(t *testing.T) {
	server := newTestServer()
	trip := createTestTrip(t, server, "owner-1")

	req := httptest.NewRequest(http.MethodDelete, "/v1/trips/"+trip.TripID, nil)
	req.Header.Set("X-Member-Id", "member-2")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestJoinTripTwiceReturnsConflict(t *testing.T) {
	server := newTestServer()
	trip := createTestTrip(t, server, "owner-1")

	join := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/"+trip.TripID+"/members", strings.NewReader(`{"display_name":"Bruno"}`))
		req.Header.Set("X-Member-Id", "member-2")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := join(); rr.Code != http.StatusCreated {
		t.Fatalf("first join: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := join(); rr.Code != http.StatusConflict {
		t.Fatalf("second join: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUpdatePreferencesRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	trip := createTestTrip(t, server, "owner-1")

	req := httptest.NewRequest(http.MethodPut, "/v1/trips/"+trip.TripID+"/preferences", strings.NewReader(`{"payload":{"budget":"mid"},"ready":true}`))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}
