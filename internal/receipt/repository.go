package receipt

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/tripcrew/tripsplit/internal/split"
)

// Repository handles receipt data persistence. Share tables and debt lists
// are stored as JSONB documents on the receipt row: a receipt is a closed
// record, so there is nothing relational to join them against.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new receipt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new receipt and assigns its ID
func (r *Repository) Create(ctx context.Context, rec *Receipt) (*Receipt, error) {
	persons, debts, err := marshalAllocation(rec)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO receipts (id, trip_id, item_type, item_name, total, payer, persons, debts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	created := *rec
	created.ID = uuid.New()
	err = r.db.QueryRowContext(ctx, query,
		created.ID,
		created.TripID,
		created.ItemType,
		created.ItemName,
		created.Total,
		created.Payer,
		persons,
		debts,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a receipt by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	query := `
		SELECT id, trip_id, item_type, item_name, total, payer, persons, debts, created_at
		FROM receipts
		WHERE id = $1
	`

	rec, err := scanReceipt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return rec, nil
}

// Update replaces the mutable fields of a receipt
func (r *Repository) Update(ctx context.Context, rec *Receipt) (*Receipt, error) {
	persons, debts, err := marshalAllocation(rec)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE receipts
		SET item_type = $2, item_name = $3, total = $4, payer = $5, persons = $6, debts = $7
		WHERE id = $1
		RETURNING created_at
	`

	updated := *rec
	err = r.db.QueryRowContext(ctx, query,
		updated.ID,
		updated.ItemType,
		updated.ItemName,
		updated.Total,
		updated.Payer,
		persons,
		debts,
	).Scan(&updated.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	return &updated, nil
}

// Delete removes a receipt and reports whether it existed
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete receipt: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListByTrip retrieves all receipts belonging to a trip, newest first
func (r *Repository) ListByTrip(ctx context.Context, tripID int64) ([]*Receipt, error) {
	query := `
		SELECT id, trip_id, item_type, item_name, total, payer, persons, debts, created_at
		FROM receipts
		WHERE trip_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	return collectReceipts(rows)
}

// ListByIDs retrieves the given receipts, restricted to one trip so a
// settlement request cannot mix receipts across trips
func (r *Repository) ListByIDs(ctx context.Context, tripID int64, ids []uuid.UUID) ([]*Receipt, error) {
	query := `
		SELECT id, trip_id, item_type, item_name, total, payer, persons, debts, created_at
		FROM receipts
		WHERE trip_id = $1 AND id = ANY($2)
		ORDER BY created_at DESC
	`

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, tripID, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts by IDs: %w", err)
	}
	defer rows.Close()

	return collectReceipts(rows)
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReceipt(row rowScanner) (*Receipt, error) {
	rec := &Receipt{}
	var persons, debts []byte
	if err := row.Scan(
		&rec.ID,
		&rec.TripID,
		&rec.ItemType,
		&rec.ItemName,
		&rec.Total,
		&rec.Payer,
		&persons,
		&debts,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(persons, &rec.Persons); err != nil {
		return nil, fmt.Errorf("failed to decode receipt persons: %w", err)
	}
	if err := json.Unmarshal(debts, &rec.Debts); err != nil {
		return nil, fmt.Errorf("failed to decode receipt debts: %w", err)
	}

	return rec, nil
}

func collectReceipts(rows *sql.Rows) ([]*Receipt, error) {
	var receipts []*Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}

	return receipts, nil
}

func marshalAllocation(rec *Receipt) (persons, debts []byte, err error) {
	// Encode empty slices as [], not null, so decoding round-trips cleanly
	personsValue := rec.Persons
	if personsValue == nil {
		personsValue = []split.ParticipantShare{}
	}
	debtsValue := rec.Debts
	if debtsValue == nil {
		debtsValue = []split.Debt{}
	}

	persons, err = json.Marshal(personsValue)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode receipt persons: %w", err)
	}
	debts, err = json.Marshal(debtsValue)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode receipt debts: %w", err)
	}

	return persons, debts, nil
}
