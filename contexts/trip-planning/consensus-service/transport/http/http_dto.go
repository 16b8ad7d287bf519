package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordVoteRequest struct {
	Category string `json:"category"`
	OptionID string `json:"option_id"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type TallyResponse struct {
	TripID        string `json:"trip_id"`
	Category      string `json:"category"`
	OptionID      string `json:"option_id"`
	ApprovedCount int    `json:"approved_count"`
	TotalMembers  int    `json:"total_members"`
	Unanimous     bool   `json:"unanimous"`
}

type RecordVoteResponse struct {
	Tally   TallyResponse `json:"tally"`
	Changed bool          `json:"changed"`
}

type RejectionItem struct {
	MemberID string `json:"member_id"`
	Reason   string `json:"reason"`
}

type RejectionsResponse struct {
	Items []RejectionItem `json:"items"`
}

type FinalizeRequest struct {
	Category string `json:"category"`
	OptionID string `json:"option_id"`
}

type SelectionsResponse struct {
	Selections map[string][]string `json:"selections"`
}

type RejectionContextResponse struct {
	Context string `json:"context,omitempty"`
	Present bool   `json:"present"`
}
