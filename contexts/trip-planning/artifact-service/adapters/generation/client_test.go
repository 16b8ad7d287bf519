package generation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

func newBackend(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func generationRequest(kind entities.Kind) ports.GenerationRequest {
	return ports.GenerationRequest{
		TripID:      "trip-1",
		Kind:        kind,
		Destination: "Lisbon",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-17",
		Timezone:    "Europe/Lisbon",
		Members:     []ports.MemberAttr{{MemberID: "member-1", DisplayName: "Ana"}},
	}
}

func TestGenerateArtifactDecodesBudgetRange(t *testing.T) {
	backend := newBackend(t, `{"min":900,"max":1400}`)
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	content, err := client.GenerateArtifact(context.Background(), generationRequest(entities.KindBudget))
	if err != nil {
		t.Fatalf("generate budget: %v", err)
	}
	if !strings.Contains(string(content), "900") {
		t.Fatalf("budget payload dropped: %s", content)
	}
}

func TestGenerateArtifactRejectsInvertedBudget(t *testing.T) {
	backend := newBackend(t, `{"min":1400,"max":900}`)
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	if _, err := client.GenerateArtifact(context.Background(), generationRequest(entities.KindBudget)); err == nil {
		t.Fatal("expected an error for an inverted budget range")
	}
}

func TestGenerateArtifactRejectsMalformedItinerary(t *testing.T) {
	backend := newBackend(t, `{"days":"tuesday"}`)
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	if _, err := client.GenerateArtifact(context.Background(), generationRequest(entities.KindItinerary)); err == nil {
		t.Fatal("expected an error for a non-array itinerary payload")
	}
}

func TestGenerateArtifactAcceptsDayPlans(t *testing.T) {
	backend := newBackend(t, `[{"date":"2026-09-10","title":"Arrival","activities":["check in","dinner in Alfama"]}]`)
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	content, err := client.GenerateArtifact(context.Background(), generationRequest(entities.KindItinerary))
	if err != nil {
		t.Fatalf("generate itinerary: %v", err)
	}
	if !strings.Contains(string(content), "Alfama") {
		t.Fatalf("itinerary payload dropped: %s", content)
	}
}
