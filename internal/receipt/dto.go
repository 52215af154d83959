package receipt

import (
	"fmt"
	"math"

	"github.com/tripcrew/tripsplit/internal/split"
)

// CreateReceiptRequest represents the request to record a shared expense.
// Total must be an explicit numeric amount: display strings like a
// restaurant price range are not accepted as a stand-in.
type CreateReceiptRequest struct {
	TripID   int64                    `json:"trip_id" validate:"required"`
	ItemType string                   `json:"item_type" validate:"required,oneof=budget activity restaurant"`
	ItemName string                   `json:"item_name" validate:"required,min=1,max=255"`
	Total    *float64                 `json:"total" validate:"required,gte=0"`
	Persons  []split.ParticipantShare `json:"persons" validate:"required,min=1"`
}

// UpdateReceiptRequest represents the request to edit a receipt. A change to
// the total or the share table recomputes the debts and replaces the record.
type UpdateReceiptRequest struct {
	ItemType *string                  `json:"item_type,omitempty" validate:"omitempty,oneof=budget activity restaurant"`
	ItemName *string                  `json:"item_name,omitempty" validate:"omitempty,min=1,max=255"`
	Total    *float64                 `json:"total,omitempty" validate:"omitempty,gte=0"`
	Persons  []split.ParticipantShare `json:"persons,omitempty"`
}

// SettleSelectionRequest represents the request to net a chosen set of
// receipts from one trip
type SettleSelectionRequest struct {
	TripID     int64    `json:"trip_id" validate:"required"`
	ReceiptIDs []string `json:"receipt_ids" validate:"required,min=1"`
}

// DebtResponse represents a single debt, rounded for display
type DebtResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// ReceiptResponse represents the response for a receipt
type ReceiptResponse struct {
	ID        string                   `json:"id"`
	TripID    int64                    `json:"trip_id"`
	ItemType  ItemType                 `json:"item_type"`
	ItemName  string                   `json:"item_name"`
	Total     float64                  `json:"total"`
	Payer     string                   `json:"payer"`
	Persons   []split.ParticipantShare `json:"persons"`
	Debts     []DebtResponse           `json:"debts"`
	CreatedAt string                   `json:"created_at"`
}

// BalanceResponse represents one net balance between two participants
type BalanceResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Statement string  `json:"statement"` // e.g. "Ben owes Anna 29.50"
}

// SettlementResponse represents the netted balances for a set of receipts
type SettlementResponse struct {
	TripID       int64              `json:"trip_id"`
	ReceiptCount int                `json:"receipt_count"`
	Balances     []*BalanceResponse `json:"balances"`
}

// ToResponse converts a Receipt model to a ReceiptResponse DTO. Stored debt
// amounts are unrounded; currency rounding happens here, at the presentation
// boundary.
func (r *Receipt) ToResponse() *ReceiptResponse {
	debts := make([]DebtResponse, len(r.Debts))
	for i, d := range r.Debts {
		debts[i] = DebtResponse{
			From:   d.From,
			To:     d.To,
			Amount: roundToTwoDecimals(d.Amount),
		}
	}

	return &ReceiptResponse{
		ID:        r.ID.String(),
		TripID:    r.TripID,
		ItemType:  r.ItemType,
		ItemName:  r.ItemName,
		Total:     r.Total,
		Payer:     r.Payer,
		Persons:   r.Persons,
		Debts:     debts,
		CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// toSettlementResponse converts netted pair balances to the response DTO
func toSettlementResponse(tripID int64, receiptCount int, balances []split.PairBalance) *SettlementResponse {
	out := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		amount := roundToTwoDecimals(b.Amount)
		out[i] = &BalanceResponse{
			From:      b.From,
			To:        b.To,
			Amount:    amount,
			Statement: fmt.Sprintf("%s owes %s %.2f", b.From, b.To, amount),
		}
	}

	return &SettlementResponse{
		TripID:       tripID,
		ReceiptCount: receiptCount,
		Balances:     out,
	}
}

// roundToTwoDecimals rounds a float to 2 decimal places
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
