package entities

import "time"

// Status tracks the trip lifecycle. Archived trips reject writes but stay
// readable.
type Status string

const (
	StatusPlanning Status = "planning"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusArchived:
		return true
	default:
		return false
	}
}

// Trip is the aggregate root for a group trip. Destination, dates and
// timezone feed artifact fingerprints; editing them invalidates the trip's
// derived artifacts downstream.
type Trip struct {
	TripID      string
	Name        string
	Destination string
	StartDate   string
	EndDate     string
	Timezone    string
	BudgetMin   int
	BudgetMax   int
	Summary     string
	Status      Status
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role separates the trip creator from invited members. Owners finalize
// selections and archive trips.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Member is one participant of a trip. Leaving removes the row; votes cast
// earlier stay in the ledger. AccountID links the member to an external
// account when one exists; a trip holds at most one member per account.
type Member struct {
	TripID      string
	MemberID    string
	AccountID   string
	DisplayName string
	Role        Role
	JoinedAt    time.Time
}
