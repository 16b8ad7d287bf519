package entities

import (
	"encoding/json"
	"time"
)

// PreferenceRecord holds one member's trip preferences as an opaque payload
// plus a readiness flag. The latest UpdatedAt across a trip's records feeds
// artifact fingerprints.
type PreferenceRecord struct {
	TripID    string
	MemberID  string
	Payload   json.RawMessage
	Ready     bool
	UpdatedAt time.Time
}
