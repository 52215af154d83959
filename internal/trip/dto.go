package trip

// dateLayout is the wire format for trip dates (calendar days, no time part)
const dateLayout = "2006-01-02"

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Destination string  `json:"destination" validate:"required,min=1,max=100"`
	StartDate   *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Notes       *string `json:"notes,omitempty"`
}

// UpdateTripRequest represents the request to update a trip
type UpdateTripRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Destination *string `json:"destination,omitempty" validate:"omitempty,min=1,max=100"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse() *TripResponse {
	resp := &TripResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Destination: t.Destination,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.StartDate != nil {
		start := t.StartDate.Format(dateLayout)
		resp.StartDate = &start
	}
	if t.EndDate != nil {
		end := t.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}
