package trip

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles trip data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip into the database
func (r *Repository) Create(ctx context.Context, ownerID int64, name, destination string, startDate, endDate *time.Time, notes *string) (*Trip, error) {
	query := `
		INSERT INTO trips (owner_id, name, destination, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, name, destination, start_date, end_date, notes, created_at
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, ownerID, name, destination, startDate, endDate, notes).Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Name,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Notes,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return trip, nil
}

// GetByID retrieves a trip by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Trip, error) {
	query := `
		SELECT id, owner_id, name, destination, start_date, end_date, notes, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Name,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Notes,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// ListByOwnerID retrieves all trips belonging to a user with pagination
func (r *Repository) ListByOwnerID(ctx context.Context, ownerID int64, limit, offset int) ([]*Trip, int, error) {
	// Get total count
	var total int
	countQuery := `SELECT COUNT(*) FROM trips WHERE owner_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	// Get trips
	query := `
		SELECT id, owner_id, name, destination, start_date, end_date, notes, created_at
		FROM trips
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		trip := &Trip{}
		if err := rows.Scan(
			&trip.ID,
			&trip.OwnerID,
			&trip.Name,
			&trip.Destination,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Notes,
			&trip.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, total, nil
}

// Update modifies an existing trip
func (r *Repository) Update(ctx context.Context, id int64, name, destination *string, startDate, endDate *time.Time, notes *string) (*Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($2, name),
		    destination = COALESCE($3, destination),
		    start_date = COALESCE($4, start_date),
		    end_date = COALESCE($5, end_date),
		    notes = COALESCE($6, notes)
		WHERE id = $1
		RETURNING id, owner_id, name, destination, start_date, end_date, notes, created_at
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id, name, destination, startDate, endDate, notes).Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Name,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Notes,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return trip, nil
}

// Delete removes a trip; its receipts go with it via the cascade constraint
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM trips WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Exists reports whether a trip with the given ID exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check trip existence: %w", err)
	}
	return exists, nil
}
