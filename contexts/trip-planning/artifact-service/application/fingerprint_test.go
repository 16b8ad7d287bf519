package application

import (
	"testing"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

func baseInputs() FingerprintInputs {
	return FingerprintInputs{
		TripID:      "trip-1",
		Destination: "Lisbon",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-17",
		Timezone:    "Europe/Lisbon",
		Members: []ports.MemberAttr{
			{MemberID: "member-1", DisplayName: "Ana"},
			{MemberID: "member-2", DisplayName: "Bruno"},
		},
		PreferencesUpdatedAt: 1757500000,
		UnanimousOptionIDs: map[entities.Category][]string{
			entities.CategoryFlight: {"F1"},
		},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	first := Fingerprint(entities.KindSummary, baseInputs())
	second := Fingerprint(entities.KindSummary, baseInputs())
	if first != second {
		t.Fatalf("same inputs produced %s and %s", first, second)
	}
	if len(first) != 8 {
		t.Fatalf("expected 8 hex chars, got %q", first)
	}
}

func TestFingerprintIgnoresMemberOrder(t *testing.T) {
	ordered := baseInputs()
	reversed := baseInputs()
	reversed.Members = []ports.MemberAttr{
		{MemberID: "member-2", DisplayName: "Bruno"},
		{MemberID: "member-1", DisplayName: "Ana"},
	}
	if Fingerprint(entities.KindSummary, ordered) != Fingerprint(entities.KindSummary, reversed) {
		t.Fatal("member order changed the fingerprint")
	}
}

func TestFingerprintIgnoresUnanimousOrder(t *testing.T) {
	ordered := baseInputs()
	ordered.UnanimousOptionIDs = map[entities.Category][]string{
		entities.CategoryActivity: {"A1", "A2"},
	}
	reversed := baseInputs()
	reversed.UnanimousOptionIDs = map[entities.Category][]string{
		entities.CategoryActivity: {"A2", "A1"},
	}
	if Fingerprint(entities.KindSummary, ordered) != Fingerprint(entities.KindSummary, reversed) {
		t.Fatal("unanimous option order changed the fingerprint")
	}
}

func TestFingerprintChangesOnMembershipChange(t *testing.T) {
	before := Fingerprint(entities.KindBudget, baseInputs())
	grown := baseInputs()
	grown.Members = append(grown.Members, ports.MemberAttr{MemberID: "member-3", DisplayName: "Carla"})
	after := Fingerprint(entities.KindBudget, grown)
	if before == after {
		t.Fatal("adding a member did not change the budget fingerprint")
	}
}

func TestFingerprintConsensusOnlyAffectsSummary(t *testing.T) {
	with := baseInputs()
	without := baseInputs()
	without.UnanimousOptionIDs = nil

	if Fingerprint(entities.KindSummary, with) == Fingerprint(entities.KindSummary, without) {
		t.Fatal("unanimity change did not move the summary fingerprint")
	}
	if Fingerprint(entities.KindItinerary, with) != Fingerprint(entities.KindItinerary, without) {
		t.Fatal("unanimity change moved the itinerary fingerprint")
	}
	if Fingerprint(entities.KindBudget, with) != Fingerprint(entities.KindBudget, without) {
		t.Fatal("unanimity change moved the budget fingerprint")
	}
}

func TestFingerprintKindsDiffer(t *testing.T) {
	in := baseInputs()
	summary := Fingerprint(entities.KindSummary, in)
	itinerary := Fingerprint(entities.KindItinerary, in)
	if summary == itinerary {
		t.Fatal("summary and itinerary fingerprints collided on differing input sets")
	}
}
