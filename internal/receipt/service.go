package receipt

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tripcrew/tripsplit/internal/split"
	"github.com/tripcrew/tripsplit/pkg/metrics"
)

// Common errors
var (
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrTripNotFound       = errors.New("trip not found")
	ErrInvalidItemType    = errors.New("item type must be one of budget, activity, restaurant")
	ErrMissingTotal       = errors.New("an explicit numeric total is required")
	ErrNegativeTotal      = errors.New("total cannot be negative")
	ErrInvalidReceiptID   = errors.New("invalid receipt ID")
	ErrReceiptNotInTrip   = errors.New("one or more receipts do not belong to this trip")
	ErrNoReceiptsSelected = errors.New("at least one receipt must be selected")
)

// Store is the persistence contract the service needs
type Store interface {
	Create(ctx context.Context, rec *Receipt) (*Receipt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	Update(ctx context.Context, rec *Receipt) (*Receipt, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*Receipt, error)
	ListByIDs(ctx context.Context, tripID int64, ids []uuid.UUID) ([]*Receipt, error)
}

// TripDirectory answers whether a trip exists, without pulling the whole
// trip feature into this package
type TripDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles receipt business logic: validation at the boundary, then
// the pure split functions, then persistence
type Service struct {
	store Store
	trips TripDirectory
}

// NewService creates a new receipt service
func NewService(store Store, trips TripDirectory) *Service {
	return &Service{store: store, trips: trips}
}

// Create validates a shared expense, computes its debts, and persists the
// receipt. Debts are always recomputed server-side from the share table and
// total; any debt list sent by a client is ignored.
func (s *Service) Create(ctx context.Context, req *CreateReceiptRequest) (*Receipt, error) {
	exists, err := s.trips.Exists(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTripNotFound
	}

	itemType := ItemType(req.ItemType)
	if !itemType.IsValid() {
		return nil, ErrInvalidItemType
	}
	if req.Total == nil {
		return nil, ErrMissingTotal
	}
	if *req.Total < 0 {
		return nil, ErrNegativeTotal
	}
	if err := split.ValidateShares(req.Persons); err != nil {
		return nil, err
	}

	rec := &Receipt{
		TripID:   req.TripID,
		ItemType: itemType,
		ItemName: req.ItemName,
		Total:    *req.Total,
		Payer:    payerName(req.Persons),
		Persons:  req.Persons,
		Debts:    split.ComputeDebts(req.Persons, *req.Total),
	}

	created, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	metrics.ReceiptsCreated.Inc()
	return created, nil
}

// GetByID retrieves a receipt by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrReceiptNotFound
	}
	return rec, nil
}

// Update edits a receipt. Changing the total or the share table recomputes
// the debts; the record is replaced, never patched in place.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateReceiptRequest) (*Receipt, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrReceiptNotFound
	}

	updated := *existing
	if req.ItemType != nil {
		itemType := ItemType(*req.ItemType)
		if !itemType.IsValid() {
			return nil, ErrInvalidItemType
		}
		updated.ItemType = itemType
	}
	if req.ItemName != nil {
		updated.ItemName = *req.ItemName
	}

	recompute := false
	if req.Total != nil {
		if *req.Total < 0 {
			return nil, ErrNegativeTotal
		}
		updated.Total = *req.Total
		recompute = true
	}
	if req.Persons != nil {
		if err := split.ValidateShares(req.Persons); err != nil {
			return nil, err
		}
		updated.Persons = req.Persons
		recompute = true
	}

	if recompute {
		updated.Payer = payerName(updated.Persons)
		updated.Debts = split.ComputeDebts(updated.Persons, updated.Total)
	}

	saved, err := s.store.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrReceiptNotFound
	}

	return saved, nil
}

// Delete removes a single receipt
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReceiptNotFound
	}
	return nil
}

// ListByTrip retrieves all receipts of a trip
func (s *Service) ListByTrip(ctx context.Context, tripID int64) ([]*Receipt, error) {
	exists, err := s.trips.Exists(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTripNotFound
	}

	return s.store.ListByTrip(ctx, tripID)
}

// SettleTrip nets the debts of every receipt belonging to a trip
func (s *Service) SettleTrip(ctx context.Context, tripID int64) (*SettlementResponse, error) {
	receipts, err := s.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return s.settle(tripID, receipts), nil
}

// SettleSelection nets the debts of a user-chosen subset of a trip's
// receipts. Every requested ID must belong to the trip.
func (s *Service) SettleSelection(ctx context.Context, req *SettleSelectionRequest) (*SettlementResponse, error) {
	if len(req.ReceiptIDs) == 0 {
		return nil, ErrNoReceiptsSelected
	}

	exists, err := s.trips.Exists(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTripNotFound
	}

	// Parse and dedupe the requested IDs
	seen := make(map[uuid.UUID]bool, len(req.ReceiptIDs))
	ids := make([]uuid.UUID, 0, len(req.ReceiptIDs))
	for _, raw := range req.ReceiptIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidReceiptID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	receipts, err := s.store.ListByIDs(ctx, req.TripID, ids)
	if err != nil {
		return nil, err
	}
	if len(receipts) != len(ids) {
		return nil, ErrReceiptNotInTrip
	}

	return s.settle(req.TripID, receipts), nil
}

func (s *Service) settle(tripID int64, receipts []*Receipt) *SettlementResponse {
	debtLists := make([][]split.Debt, len(receipts))
	for i, rec := range receipts {
		debtLists[i] = rec.Debts
	}

	balances := split.Aggregate(debtLists...)
	metrics.SettlementsComputed.Inc()

	return toSettlementResponse(tripID, len(receipts), balances)
}

// payerName returns the payer's name from a validated share table
func payerName(persons []split.ParticipantShare) string {
	for _, p := range persons {
		if p.IsPayer {
			return p.Name
		}
	}
	return ""
}
