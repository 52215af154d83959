package shares

import "github.com/tripcrew/tripsplit/internal/split"

// InitRequest asks for an even share table for a number of participants
type InitRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

// RecountRequest changes the participant count of an existing table
type RecountRequest struct {
	Count  int                      `json:"count" validate:"required,min=1"`
	Shares []split.ParticipantShare `json:"shares"`
}

// PercentRequest edits one participant's percentage
type PercentRequest struct {
	Shares  []split.ParticipantShare `json:"shares" validate:"required,min=1"`
	Index   int                      `json:"index"`
	Percent float64                  `json:"percent"`
}

// PayerRequest moves the payer flag to one participant
type PayerRequest struct {
	Shares []split.ParticipantShare `json:"shares" validate:"required,min=1"`
	Index  int                      `json:"index"`
}

// SharesResponse carries a normalized share table back to the client
type SharesResponse struct {
	Shares []split.ParticipantShare `json:"shares"`
}
