package artifactservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	domainerrors "tripforge/contexts/trip-planning/artifact-service/domain/errors"
	"tripforge/contexts/trip-planning/artifact-service/ports"
	httptransport "tripforge/contexts/trip-planning/artifact-service/transport/http"
	"tripforge/internal/shared/events"
)

func seedTrip(module Module) {
	module.Store.SetSnapshot(ports.TripSnapshot{
		TripID:      "trip-1",
		Destination: "Lisbon",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-17",
		Timezone:    "Europe/Lisbon",
		Members: []ports.MemberAttr{
			{MemberID: "member-1", DisplayName: "Ana"},
			{MemberID: "member-2", DisplayName: "Bruno"},
		},
	})
}

func TestRegenerateStoresArtifactAndEmitsEvent(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)
	module.Store.SetGeneratedArtifact(json.RawMessage(`{"headline":"Lisbon getaway"}`))

	result, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindSummary, false)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if !result.Regenerated {
		t.Fatal("expected a fresh generation on first run")
	}
	if string(result.Artifact.Content) != `{"headline":"Lisbon getaway"}` {
		t.Fatalf("unexpected content %s", result.Artifact.Content)
	}
	if result.Artifact.Fingerprint == "" {
		t.Fatal("fingerprint not stored")
	}

	outbox := module.Store.OutboxEvents()
	if len(outbox) != 1 || outbox[0].EventType != events.TypeArtifactUpdated {
		t.Fatalf("expected one artifact.updated event, got %+v", outbox)
	}
}

func TestRegenerateSkipsWhenInputsUnchanged(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)

	if _, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindSummary, false); err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
	result, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindSummary, false)
	if err != nil {
		t.Fatalf("second regenerate: %v", err)
	}
	if result.Regenerated {
		t.Fatal("unchanged inputs should reuse the stored artifact")
	}
	if module.Store.GenerationCalls() != 1 {
		t.Fatalf("expected 1 backend call, got %d", module.Store.GenerationCalls())
	}
}

func TestRegenerateRunsAgainWhenMembershipChanges(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)

	if _, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindBudget, false); err != nil {
		t.Fatalf("first regenerate: %v", err)
	}

	module.Store.SetSnapshot(ports.TripSnapshot{
		TripID:      "trip-1",
		Destination: "Lisbon",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-17",
		Timezone:    "Europe/Lisbon",
		Members: []ports.MemberAttr{
			{MemberID: "member-1", DisplayName: "Ana"},
			{MemberID: "member-2", DisplayName: "Bruno"},
			{MemberID: "member-3", DisplayName: "Carla"},
		},
	})

	result, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindBudget, false)
	if err != nil {
		t.Fatalf("second regenerate: %v", err)
	}
	if !result.Regenerated {
		t.Fatal("membership change should force a rebuild")
	}
	if module.Store.GenerationCalls() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", module.Store.GenerationCalls())
	}
}

func TestFailedGenerationLeavesStoredArtifact(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)
	module.Store.SetGeneratedArtifact(json.RawMessage(`{"v":1}`))

	first, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindSummary, false)
	if err != nil {
		t.Fatalf("first regenerate: %v", err)
	}

	module.Store.FailGeneration("backend down")
	_, err = module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindSummary, true)
	if !errors.Is(err, domainerrors.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}

	stored, getErr := module.Handler.GetArtifactHandler(context.Background(), "trip-1", "summary")
	if getErr != nil {
		t.Fatalf("get artifact: %v", getErr)
	}
	if stored.Fingerprint != first.Artifact.Fingerprint {
		t.Fatal("failed generation must not touch the stored fingerprint")
	}
	if string(stored.Content) != `{"v":1}` {
		t.Fatalf("failed generation must not touch stored content, got %s", stored.Content)
	}
}

func TestForceRegeneratesOnMatchingFingerprint(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)

	if _, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindItinerary, false); err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
	result, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-1", entities.KindItinerary, true)
	if err != nil {
		t.Fatalf("forced regenerate: %v", err)
	}
	if !result.Regenerated {
		t.Fatal("force must bypass the fingerprint check")
	}
	if module.Store.GenerationCalls() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", module.Store.GenerationCalls())
	}
}

func TestRegenerateUnknownTrip(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()

	_, err := module.Handler.Regenerate.Regenerate(context.Background(), "trip-missing", entities.KindSummary, false)
	if !errors.Is(err, domainerrors.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestGetArtifactBeforeGeneration(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)

	_, err := module.Handler.GetArtifactHandler(context.Background(), "trip-1", "summary")
	if !errors.Is(err, domainerrors.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestCandidateBatchReplacementOrphansOldOptions(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)

	first, err := module.Handler.GenerateCandidatesHandler(context.Background(), "trip-1", "activity", transportGenerateRequest(3))
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if len(first.Items) != 3 {
		t.Fatalf("expected 3 options, got %d", len(first.Items))
	}

	second, err := module.Handler.GenerateCandidatesHandler(context.Background(), "trip-1", "activity", transportGenerateRequest(2))
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 options, got %d", len(second.Items))
	}
	if second.Items[0].BatchID == first.Items[0].BatchID {
		t.Fatal("replacement batch reused the old batch id")
	}

	live, err := module.Handler.ListCandidatesHandler(context.Background(), "trip-1", "activity")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(live.Items) != 2 {
		t.Fatalf("expected only the new batch live, got %d options", len(live.Items))
	}
	for _, item := range live.Items {
		if item.BatchID != second.Items[0].BatchID {
			t.Fatalf("live option from stale batch %s", item.BatchID)
		}
	}

	all := module.Store.AllOptions("trip-1", entities.CategoryActivity)
	if len(all) != 5 {
		t.Fatalf("old rows must stay for vote history, got %d total", len(all))
	}
}

func TestCandidateGenerationForwardsRejectionContext(t *testing.T) {
	module := NewInMemoryModule(nil)
	defer module.Close()
	seedTrip(module)
	module.Store.SetRejectionContext("trip-1", "activity:A1: too strenuous")

	if _, err := module.Handler.GenerateCandidatesHandler(context.Background(), "trip-1", "activity", transportGenerateRequest(2)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := module.Store.LastCandidateRequest()
	if req.RejectionContext != "activity:A1: too strenuous" {
		t.Fatalf("rejection context not forwarded, got %q", req.RejectionContext)
	}
}

func transportGenerateRequest(count int) httptransport.GenerateCandidatesRequest {
	return httptransport.GenerateCandidatesRequest{Count: count}
}
