package entities

import "time"

// Category tags a candidate option. Flight and accommodation are exclusive
// categories: at most one finalized selection per trip. Activities are
// multi-select.
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

func (c Category) Exclusive() bool {
	return c == CategoryFlight || c == CategoryAccommodation
}

// Vote is one member's current stance on one option. The composite identity
// (trip, member, category, option) is unique: a new vote overwrites, never
// appends. Reason is only meaningful for disapprovals and is cleared on
// approval.
type Vote struct {
	TripID    string
	MemberID  string
	Category  Category
	OptionID  string
	Approved  bool
	Reason    string
	UpdatedAt time.Time
}

// Tally is always recomputed from current vote rows and the live member
// count, never cached, so membership changes can never leave a stale count.
type Tally struct {
	ApprovedCount int
	TotalMembers  int
}

// Unanimous reports whether every current member approved. An option that was
// unanimous regresses to non-unanimous when a new member joins; that is a
// property of the moving threshold, not a defect.
func (t Tally) Unanimous() bool {
	return t.TotalMembers > 0 && t.ApprovedCount == t.TotalMembers
}

// FinalizedSelection marks an option as the group's chosen one for a
// category.
type FinalizedSelection struct {
	TripID      string
	Category    Category
	OptionID    string
	ActorID     string
	FinalizedAt time.Time
}

// MemberReason pairs a disapproving member with their free-text reason.
type MemberReason struct {
	MemberID string
	Reason   string
}
