package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func seedChatTrip(server *Server) {
	server.chat.Store.SetMember("trip-1", "member-1")
}

func postChatMessage(server *Server, memberID string, idempotencyKey string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/messages", strings.NewReader(body))
	if memberID != "" {
		req.Header.Set("X-Member-Id", memberID)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestPostMessageRequiresMemberIdentity(t *testing.T) {
	server := newTestServer()
	seedChatTrip(server)

	rr := postChatMessage(server, "", "key-1", `{"body":"hi"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPostMessageRequiresIdempotencyKey(t *testing.T) {
	server := newTestServer()
	seedChatTrip(server)

	rr := postChatMessage(server, "member-1", "", `{"body":"hi"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPostMessageRejectsNonMember(t *testing.T) {
	server := newTestServer()
	seedChatTrip(server)

	rr := postChatMessage(server, "stranger", "key-1", `{"body":"hi"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPostMessageIdempotencyConflictReturns409(t *testing.T) {
	server := newTestServer()
	seedChatTrip(server)

	if rr := postChatMessage(server, "member-1", "key-1", `{"body":"one"}`); rr.Code != http.StatusCreated {
		t.Fatalf("first post: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := postChatMessage(server, "member-1", "key-1", `{"body":"two"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTypingPingThrottleReturns429(t *testing.T) {
	server := newTestServer()
	seedChatTrip(server)

	ping := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/typing", nil)
		req.Header.Set("X-Member-Id", "member-1")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	if rr := ping(); rr.Code != http.StatusAccepted {
		t.Fatalf("first ping: expected 202, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := ping(); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second ping: expected 429, got %d body=%s", rr.Code, rr.Body.String())
	}
}
