package tripservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domainerrors "tripforge/contexts/trip-planning/trip-service/domain/errors"
	httptransport "tripforge/contexts/trip-planning/trip-service/transport/http"
	"tripforge/internal/shared/events"
)

func createTrip(t *testing.T, module Module) httptransport.TripResponse {
	t.Helper()
	trip, err := module.Handler.CreateTripHandler(context.Background(), "member-1", httptransport.CreateTripRequest{
		Name:             "Autumn in Portugal",
		Destination:      "Lisbon",
		StartDate:        "2026-09-10",
		EndDate:          "2026-09-17",
		Timezone:         "Europe/Lisbon",
		OwnerDisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return trip
}

func TestCreateTripEnrollsOwner(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	if trip.Status != "planning" {
		t.Fatalf("new trip should be planning, got %s", trip.Status)
	}
	members, err := module.Handler.ListMembersHandler(context.Background(), trip.TripID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members.Items) != 1 || members.Items[0].Role != "owner" {
		t.Fatalf("expected the owner as sole member, got %+v", members.Items)
	}

	outbox := module.Store.OutboxEvents()
	if len(outbox) != 1 || outbox[0].EventType != events.TypeMemberJoined {
		t.Fatalf("expected one member.joined event, got %+v", outbox)
	}
	if outbox[0].PartitionKey != trip.TripID {
		t.Fatalf("event not partitioned by trip: %+v", outbox[0])
	}
}

func TestJoinAndLeaveEmitMembershipEvents(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	if _, err := module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-2", httptransport.JoinTripRequest{DisplayName: "Bruno"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-2", httptransport.JoinTripRequest{}); !errors.Is(err, domainerrors.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember on repeat join, got %v", err)
	}
	if err := module.Handler.LeaveTripHandler(context.Background(), trip.TripID, "member-2"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	var types []string
	for _, env := range module.Store.OutboxEvents() {
		types = append(types, env.EventType)
	}
	want := []string{events.TypeMemberJoined, events.TypeMemberJoined, events.TypeMemberLeft}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
}

func TestLeaveUnknownMember(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	err := module.Handler.LeaveTripHandler(context.Background(), trip.TripID, "member-9")
	if !errors.Is(err, domainerrors.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestUpdatePreferencesEmitsEvent(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	record, err := module.Handler.UpdatePreferencesHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdatePreferencesRequest{
		Payload: json.RawMessage(`{"budget":"mid","interests":["food","hiking"]}`),
		Ready:   true,
	})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if !record.Ready {
		t.Fatal("ready flag dropped")
	}

	outbox := module.Store.OutboxEvents()
	last := outbox[len(outbox)-1]
	if last.EventType != events.TypePreferencesUpdated {
		t.Fatalf("expected preferences.updated, got %s", last.EventType)
	}
}

func TestPreferencesRejectInvalidPayload(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	_, err := module.Handler.UpdatePreferencesHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdatePreferencesRequest{
		Payload: json.RawMessage(`{"budget":`),
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpdateTripKeepsUnsetFields(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	updated, err := module.Handler.UpdateTripHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdateTripRequest{
		Destination: "Porto",
	})
	if err != nil {
		t.Fatalf("update trip: %v", err)
	}
	if updated.Destination != "Porto" {
		t.Fatalf("destination not updated: %s", updated.Destination)
	}
	if updated.Name != "Autumn in Portugal" || updated.Timezone != "Europe/Lisbon" {
		t.Fatalf("unset fields were clobbered: %+v", updated)
	}
}

func TestUpdateTripBudgetAndSummary(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	budgetMin, budgetMax := 1200, 2400
	updated, err := module.Handler.UpdateTripHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdateTripRequest{
		BudgetMin: &budgetMin,
		BudgetMax: &budgetMax,
		Summary:   "A week of food and coastline.",
	})
	if err != nil {
		t.Fatalf("update trip: %v", err)
	}
	if updated.BudgetMin != 1200 || updated.BudgetMax != 2400 {
		t.Fatalf("budget range not applied: %+v", updated)
	}
	if updated.Summary != "A week of food and coastline." {
		t.Fatalf("summary not applied: %q", updated.Summary)
	}
	if updated.Destination != "Lisbon" {
		t.Fatalf("unset fields were clobbered: %+v", updated)
	}

	newMax := 3000
	updated, err = module.Handler.UpdateTripHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdateTripRequest{
		BudgetMax: &newMax,
	})
	if err != nil {
		t.Fatalf("update trip: %v", err)
	}
	if updated.BudgetMin != 1200 || updated.BudgetMax != 3000 {
		t.Fatalf("absent bound should keep its value: %+v", updated)
	}
	if updated.Summary != "A week of food and coastline." {
		t.Fatalf("summary should persist across updates: %q", updated.Summary)
	}

	badMin := 5000
	_, err = module.Handler.UpdateTripHandler(context.Background(), trip.TripID, "member-1", httptransport.UpdateTripRequest{
		BudgetMin: &badMin,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for inverted range, got %v", err)
	}
}

func TestJoinTripRejectsDuplicateAccount(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	member, err := module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-2", httptransport.JoinTripRequest{
		AccountID:   "acct-42",
		DisplayName: "Bruno",
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if member.AccountID != "acct-42" {
		t.Fatalf("account id dropped: %+v", member)
	}

	_, err = module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-3", httptransport.JoinTripRequest{
		AccountID: "acct-42",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember for reused account, got %v", err)
	}
}

func TestArchivedTripRejectsWrites(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	if err := module.Handler.Trips.ArchiveTrip(context.Background(), trip.TripID, "member-1"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	_, err := module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-2", httptransport.JoinTripRequest{})
	if !errors.Is(err, domainerrors.ErrTripArchived) {
		t.Fatalf("expected ErrTripArchived, got %v", err)
	}
	if _, err := module.Handler.GetTripHandler(context.Background(), trip.TripID); err != nil {
		t.Fatalf("archived trip must stay readable: %v", err)
	}
}

func TestDeleteTripRequiresOwner(t *testing.T) {
	module := NewInMemoryModule(nil)
	trip := createTrip(t, module)

	if _, err := module.Handler.JoinTripHandler(context.Background(), trip.TripID, "member-2", httptransport.JoinTripRequest{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := module.Handler.DeleteTripHandler(context.Background(), trip.TripID, "member-2"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := module.Handler.DeleteTripHandler(context.Background(), trip.TripID, "member-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := module.Handler.GetTripHandler(context.Background(), trip.TripID)
	if !errors.Is(err, domainerrors.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound after delete, got %v", err)
	}
	members, err := module.Handler.ListMembersHandler(context.Background(), trip.TripID)
	if !errors.Is(err, domainerrors.ErrTripNotFound) {
		t.Fatalf("expected cascade to remove members, got %v %+v", err, members)
	}
}
