package entities

import (
	"encoding/json"
	"time"
)

// Category mirrors the consensus vote categories. Candidate batches are
// generated per category and replace the previous live batch wholesale.
type Category string

const (
	CategoryFlight        Category = "flight"
	CategoryAccommodation Category = "accommodation"
	CategoryActivity      Category = "activity"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFlight, CategoryAccommodation, CategoryActivity:
		return true
	default:
		return false
	}
}

func Categories() []Category {
	return []Category{CategoryFlight, CategoryAccommodation, CategoryActivity}
}

// CandidateOption is one proposal inside a generation batch. Options keep
// their identity for the lifetime of the batch; replacing the batch marks the
// old rows as no longer live instead of deleting them, so historical votes
// keep a referent.
type CandidateOption struct {
	OptionID  string
	TripID    string
	Category  Category
	BatchID   string
	Payload   json.RawMessage
	Position  int
	Live      bool
	CreatedAt time.Time
}
