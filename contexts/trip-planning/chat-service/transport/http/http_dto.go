package http

// ErrorResponse is the error body returned by chat endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

type PostMessageRequest struct {
	DisplayName string `json:"display_name"`
	Body        string `json:"body"`
}

type MessageResponse struct {
	MessageID      string `json:"message_id"`
	TripID         string `json:"trip_id"`
	MemberID       string `json:"member_id"`
	DisplayName    string `json:"display_name"`
	Body           string `json:"body"`
	SequenceNumber int64  `json:"sequence_number"`
	CreatedAt      string `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}
