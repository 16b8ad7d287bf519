package http

import "encoding/json"

// ErrorResponse is the error body returned by trip endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateTripRequest struct {
	Name             string `json:"name"`
	Destination      string `json:"destination"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Timezone         string `json:"timezone"`
	OwnerDisplayName string `json:"owner_display_name"`
}

// UpdateTripRequest applies field-by-field. Absent budget bounds stay nil so
// an explicit zero survives the merge.
type UpdateTripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Timezone    string `json:"timezone"`
	BudgetMin   *int   `json:"budget_min"`
	BudgetMax   *int   `json:"budget_max"`
	Summary     string `json:"summary"`
}

type TripResponse struct {
	TripID      string `json:"trip_id"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Timezone    string `json:"timezone"`
	BudgetMin   int    `json:"budget_min"`
	BudgetMax   int    `json:"budget_max"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type JoinTripRequest struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
}

type MemberResponse struct {
	MemberID    string `json:"member_id"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAt    string `json:"joined_at"`
}

type MembersResponse struct {
	Items []MemberResponse `json:"items"`
}

type UpdatePreferencesRequest struct {
	Payload json.RawMessage `json:"payload"`
	Ready   bool            `json:"ready"`
}

type PreferenceResponse struct {
	MemberID  string          `json:"member_id"`
	Payload   json.RawMessage `json:"payload"`
	Ready     bool            `json:"ready"`
	UpdatedAt string          `json:"updated_at"`
}

type PreferencesResponse struct {
	Items []PreferenceResponse `json:"items"`
}
