package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	consensushttp "tripforge/contexts/trip-planning/consensus-service/transport/http"
)

func seedConsensusTrip(server *Server) {
	server.consensus.Store.SetTrip("trip-1")
	server.consensus.Store.SetMember("trip-1", "member-1")
	server.consensus.Store.SetMember("trip-1", "member-2")
	server.consensus.Store.SetOption("trip-1", entities.CategoryFlight, "opt-1")
}

func postVote(server *Server, memberID string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/votes", strings.NewReader(body))
	if memberID != "" {
		req.Header.Set("X-Member-Id", memberID)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestRecordVoteRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	seedConsensusTrip(server)

	rr := postVote(server, "", `{"category":"flight","option_id":"opt-1","approved":true}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRecordVoteRejectsNonMember(t *testing.T) {
	server := newTestServer()
	seedConsensusTrip(server)

	rr := postVote(server, "stranger", `{"category":"flight","option_id":"opt-1","approved":true}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRecordVoteUnknownOptionReturnsNotFound(t *testing.T) {
	server := newTestServer()
	seedConsensusTrip(server)

	rr := postVote(server, "member-1", `{"category":"flight","option_id":"opt-missing","approved":true}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRejectionsExcludeRequester(t *testing.T) {
	server := newTestServer()
	seedConsensusTrip(server)

	if rr := postVote(server, "member-1", `{"category":"flight","option_id":"opt-1","approved":false,"reason":"too expensive"}`); rr.Code != http.StatusOK {
		t.Fatalf("vote member-1: %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := postVote(server, "member-2", `{"category":"flight","option_id":"opt-1","approved":false,"reason":"red-eye departure"}`); rr.Code != http.StatusOK {
		t.Fatalf("vote member-2: %d body=%s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trip-1/rejections/flight/opt-1", nil)
	req.Header.Set("X-Member-Id", "member-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp consensushttp.RejectionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode rejections: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].MemberID != "member-2" {
		t.Fatalf("expected only member-2's reason, got %+v", resp.Items)
	}
}

func TestFinalizeSelectionRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	seedConsensusTrip(server)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/selections", strings.NewReader(`{"category":"flight","option_id":"opt-1"}`))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}
