package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Common errors
var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrInvalidDate      = errors.New("dates must be in YYYY-MM-DD format")
	ErrInvalidDateRange = errors.New("end date cannot be before start date")
)

// Service handles trip business logic
type Service struct {
	repo *Repository
}

// NewService creates a new trip service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new trip for the given owner
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateTripRequest) (*Trip, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, ErrInvalidDateRange
	}

	return s.repo.Create(ctx, ownerID, req.Name, req.Destination, startDate, endDate, req.Notes)
}

// GetByID retrieves a trip by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}
	return trip, nil
}

// ListByOwnerID retrieves all trips for a user
func (s *Service) ListByOwnerID(ctx context.Context, ownerID int64, page, perPage int) ([]*Trip, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByOwnerID(ctx, ownerID, perPage, offset)
}

// Update modifies an existing trip
func (s *Service) Update(ctx context.Context, id int64, req *UpdateTripRequest) (*Trip, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	// Check the range against the dates the trip will end up with
	effectiveStart := existing.StartDate
	if startDate != nil {
		effectiveStart = startDate
	}
	effectiveEnd := existing.EndDate
	if endDate != nil {
		effectiveEnd = endDate
	}
	if effectiveStart != nil && effectiveEnd != nil && effectiveEnd.Before(*effectiveStart) {
		return nil, ErrInvalidDateRange
	}

	updated, err := s.repo.Update(ctx, id, req.Name, req.Destination, startDate, endDate, req.Notes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTripNotFound
	}
	return updated, nil
}

// Delete removes a trip and all its receipts
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTripNotFound
	}
	return err
}

// parseDate parses an optional YYYY-MM-DD string
func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &parsed, nil
}
