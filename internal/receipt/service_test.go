package receipt

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripsplit/internal/split"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	receipts map[uuid.UUID]*Receipt
}

func newFakeStore() *fakeStore {
	return &fakeStore{receipts: make(map[uuid.UUID]*Receipt)}
}

func (f *fakeStore) Create(_ context.Context, rec *Receipt) (*Receipt, error) {
	created := *rec
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()
	f.receipts[created.ID] = &created
	return &created, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*Receipt, error) {
	rec, ok := f.receipts[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeStore) Update(_ context.Context, rec *Receipt) (*Receipt, error) {
	existing, ok := f.receipts[rec.ID]
	if !ok {
		return nil, nil
	}
	updated := *rec
	updated.CreatedAt = existing.CreatedAt
	f.receipts[rec.ID] = &updated
	clone := updated
	return &clone, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.receipts[id]; !ok {
		return false, nil
	}
	delete(f.receipts, id)
	return true, nil
}

func (f *fakeStore) ListByTrip(_ context.Context, tripID int64) ([]*Receipt, error) {
	var out []*Receipt
	for _, rec := range f.receipts {
		if rec.TripID == tripID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByIDs(_ context.Context, tripID int64, ids []uuid.UUID) ([]*Receipt, error) {
	var out []*Receipt
	for _, id := range ids {
		if rec, ok := f.receipts[id]; ok && rec.TripID == tripID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

// fakeTrips is a TripDirectory where only listed trip IDs exist
type fakeTrips map[int64]bool

func (f fakeTrips) Exists(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, fakeTrips{1: true}), store
}

func floatPtr(v float64) *float64 { return &v }

func evenShares(names ...string) []split.ParticipantShare {
	shares := split.InitializeShares(len(names))
	for i, name := range names {
		shares[i].Name = name
	}
	return shares
}

func TestServiceCreate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "restaurant",
		ItemName: "Dinner at the harbor",
		Total:    floatPtr(90),
		Persons:  evenShares("Anna", "Ben", "Carl"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Error("receipt should get a store-assigned ID")
	}
	if rec.Payer != "Anna" {
		t.Errorf("payer = %q, want Anna", rec.Payer)
	}
	if len(rec.Debts) != 2 {
		t.Fatalf("got %d debts, want 2", len(rec.Debts))
	}
	// 33.33% of 90 for each non-payer
	for _, d := range rec.Debts {
		if d.To != "Anna" {
			t.Errorf("debt to %q, want Anna", d.To)
		}
		if math.Abs(d.Amount-29.997) > 0.001 {
			t.Errorf("debt amount = %v, want 29.997", d.Amount)
		}
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	valid := evenShares("Anna", "Ben")

	tests := []struct {
		name    string
		req     *CreateReceiptRequest
		wantErr error
	}{
		{
			name: "unknown trip",
			req: &CreateReceiptRequest{
				TripID: 99, ItemType: "budget", ItemName: "Hotel",
				Total: floatPtr(100), Persons: valid,
			},
			wantErr: ErrTripNotFound,
		},
		{
			name: "bad item type",
			req: &CreateReceiptRequest{
				TripID: 1, ItemType: "souvenir", ItemName: "Magnet",
				Total: floatPtr(5), Persons: valid,
			},
			wantErr: ErrInvalidItemType,
		},
		{
			name: "missing total",
			req: &CreateReceiptRequest{
				TripID: 1, ItemType: "restaurant", ItemName: "Dinner",
				Total: nil, Persons: valid,
			},
			wantErr: ErrMissingTotal,
		},
		{
			name: "negative total",
			req: &CreateReceiptRequest{
				TripID: 1, ItemType: "activity", ItemName: "Museum",
				Total: floatPtr(-3), Persons: valid,
			},
			wantErr: ErrNegativeTotal,
		},
		{
			name: "shares without payer",
			req: &CreateReceiptRequest{
				TripID: 1, ItemType: "budget", ItemName: "Gas",
				Total: floatPtr(60),
				Persons: []split.ParticipantShare{
					{Name: "Anna", Percent: 50},
					{Name: "Ben", Percent: 50},
				},
			},
			wantErr: split.ErrNoPayer,
		},
		{
			name: "shares not summing to 100",
			req: &CreateReceiptRequest{
				TripID: 1, ItemType: "budget", ItemName: "Gas",
				Total: floatPtr(60),
				Persons: []split.ParticipantShare{
					{Name: "Anna", Percent: 50, IsPayer: true},
					{Name: "Ben", Percent: 30},
				},
			},
			wantErr: split.ErrInvalidShareSum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceUpdateRecomputesDebts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "activity",
		ItemName: "Kayak tour",
		Total:    floatPtr(100),
		Persons:  evenShares("Anna", "Ben"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Change the payer and the split: Ben now fronted it, 70/30
	updated, err := svc.Update(ctx, rec.ID, &UpdateReceiptRequest{
		Total: floatPtr(200),
		Persons: []split.ParticipantShare{
			{Name: "Anna", Percent: 70},
			{Name: "Ben", Percent: 30, IsPayer: true},
		},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Payer != "Ben" {
		t.Errorf("payer = %q, want Ben", updated.Payer)
	}
	if len(updated.Debts) != 1 {
		t.Fatalf("got %d debts, want 1: %v", len(updated.Debts), updated.Debts)
	}
	d := updated.Debts[0]
	if d.From != "Anna" || d.To != "Ben" || math.Abs(d.Amount-140) > 0.001 {
		t.Errorf("debt = %+v, want Anna owes Ben 140", d)
	}
}

func TestServiceUpdateNameOnlyKeepsDebts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "restaurant",
		ItemName: "Lnch",
		Total:    floatPtr(45),
		Persons:  evenShares("Anna", "Ben", "Carl"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "Lunch"
	updated, err := svc.Update(ctx, rec.ID, &UpdateReceiptRequest{ItemName: &name})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.ItemName != "Lunch" {
		t.Errorf("item name = %q, want Lunch", updated.ItemName)
	}
	if len(updated.Debts) != len(rec.Debts) {
		t.Errorf("debts changed on a name-only edit: %v -> %v", rec.Debts, updated.Debts)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "budget",
		ItemName: "Ferry tickets",
		Total:    floatPtr(30),
		Persons:  evenShares("Anna", "Ben"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, rec.ID); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("second Delete() error = %v, want ErrReceiptNotFound", err)
	}
	if _, err := svc.GetByID(ctx, rec.ID); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrReceiptNotFound", err)
	}
}

func TestServiceSettleTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Anna fronts dinner, Ben fronts the kayak tour; debts partially cancel.
	_, err := svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "restaurant",
		ItemName: "Dinner",
		Total:    floatPtr(100),
		Persons: []split.ParticipantShare{
			{Name: "Anna", Percent: 50, IsPayer: true},
			{Name: "Ben", Percent: 50},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err = svc.Create(ctx, &CreateReceiptRequest{
		TripID:   1,
		ItemType: "activity",
		ItemName: "Kayak tour",
		Total:    floatPtr(60),
		Persons: []split.ParticipantShare{
			{Name: "Anna", Percent: 50},
			{Name: "Ben", Percent: 50, IsPayer: true},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	summary, err := svc.SettleTrip(ctx, 1)
	if err != nil {
		t.Fatalf("SettleTrip() error = %v", err)
	}

	if summary.ReceiptCount != 2 {
		t.Errorf("receipt count = %d, want 2", summary.ReceiptCount)
	}
	if len(summary.Balances) != 1 {
		t.Fatalf("got %d balances, want 1: %v", len(summary.Balances), summary.Balances)
	}
	b := summary.Balances[0]
	// Ben owes 50 for dinner, Anna owes 30 for the tour; net 20 from Ben.
	if b.From != "Ben" || b.To != "Anna" || math.Abs(b.Amount-20) > 0.001 {
		t.Errorf("balance = %+v, want Ben owes Anna 20", b)
	}
	if b.Statement != "Ben owes Anna 20.00" {
		t.Errorf("statement = %q", b.Statement)
	}
}

func TestServiceSettleTripFullyCancelled(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	shares := func(payer string) []split.ParticipantShare {
		return []split.ParticipantShare{
			{Name: "X", Percent: 50, IsPayer: payer == "X"},
			{Name: "Y", Percent: 50, IsPayer: payer == "Y"},
		}
	}

	for _, payer := range []string{"X", "Y"} {
		_, err := svc.Create(ctx, &CreateReceiptRequest{
			TripID:   1,
			ItemType: "budget",
			ItemName: "Taxi",
			Total:    floatPtr(40),
			Persons:  shares(payer),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	summary, err := svc.SettleTrip(ctx, 1)
	if err != nil {
		t.Fatalf("SettleTrip() error = %v", err)
	}
	if len(summary.Balances) != 0 {
		t.Errorf("mutually cancelling receipts should settle empty, got %v", summary.Balances)
	}
}

func TestServiceSettleSelection(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := svc.Create(ctx, &CreateReceiptRequest{
			TripID:   1,
			ItemType: "restaurant",
			ItemName: "Dinner",
			Total:    floatPtr(30),
			Persons: []split.ParticipantShare{
				{Name: "Anna", Percent: 50, IsPayer: true},
				{Name: "Ben", Percent: 50},
			},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, rec.ID.String())
	}

	// Net only the first two receipts
	summary, err := svc.SettleSelection(ctx, &SettleSelectionRequest{
		TripID:     1,
		ReceiptIDs: ids[:2],
	})
	if err != nil {
		t.Fatalf("SettleSelection() error = %v", err)
	}
	if summary.ReceiptCount != 2 {
		t.Errorf("receipt count = %d, want 2", summary.ReceiptCount)
	}
	if len(summary.Balances) != 1 || math.Abs(summary.Balances[0].Amount-30) > 0.001 {
		t.Errorf("balances = %v, want Ben owes Anna 30", summary.Balances)
	}

	// Unknown receipt ID is rejected
	_, err = svc.SettleSelection(ctx, &SettleSelectionRequest{
		TripID:     1,
		ReceiptIDs: []string{uuid.NewString()},
	})
	if !errors.Is(err, ErrReceiptNotInTrip) {
		t.Errorf("SettleSelection() with foreign ID error = %v, want ErrReceiptNotInTrip", err)
	}

	// Malformed ID is rejected
	_, err = svc.SettleSelection(ctx, &SettleSelectionRequest{
		TripID:     1,
		ReceiptIDs: []string{"not-a-uuid"},
	})
	if !errors.Is(err, ErrInvalidReceiptID) {
		t.Errorf("SettleSelection() with bad ID error = %v, want ErrInvalidReceiptID", err)
	}

	// Empty selection is rejected
	_, err = svc.SettleSelection(ctx, &SettleSelectionRequest{TripID: 1})
	if !errors.Is(err, ErrNoReceiptsSelected) {
		t.Errorf("SettleSelection() with no IDs error = %v, want ErrNoReceiptsSelected", err)
	}
}
