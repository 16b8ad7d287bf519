package entities

import (
	"encoding/json"
	"time"
)

// Kind identifies a derived artifact. One row exists per (trip, kind); the
// row is overwritten on successful regeneration only.
type Kind string

const (
	KindSummary   Kind = "summary"
	KindBudget    Kind = "budget"
	KindItinerary Kind = "itinerary"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSummary, KindBudget, KindItinerary:
		return true
	default:
		return false
	}
}

func Kinds() []Kind {
	return []Kind{KindSummary, KindBudget, KindItinerary}
}

// Artifact holds generated content plus the fingerprint of the inputs it was
// generated from. A stale fingerprint is what makes the next trigger call the
// generation service again.
type Artifact struct {
	TripID      string
	Kind        Kind
	Content     json.RawMessage
	Fingerprint string
	GeneratedAt time.Time
}

// BudgetRange is the budget artifact payload.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DayPlan is one entry of the itinerary artifact payload.
type DayPlan struct {
	Date       string   `json:"date"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}
