package receipt

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripsplit/internal/split"
)

// ItemType identifies which kind of trip expense a receipt covers
type ItemType string

const (
	ItemTypeBudget     ItemType = "budget"
	ItemTypeActivity   ItemType = "activity"
	ItemTypeRestaurant ItemType = "restaurant"
)

// IsValid reports whether the item type is one of the known kinds
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeBudget, ItemTypeActivity, ItemTypeRestaurant:
		return true
	}
	return false
}

// Receipt is the persisted record of one shared expense: the share table
// used for the allocation and the debts computed from it. Receipts are
// closed, self-contained records: participant names are free-text strings
// scoped to the receipt, not references into a user directory.
type Receipt struct {
	ID        uuid.UUID                `json:"id"`
	TripID    int64                    `json:"trip_id"`
	ItemType  ItemType                 `json:"item_type"`
	ItemName  string                   `json:"item_name"`
	Total     float64                  `json:"total"`
	Payer     string                   `json:"payer"`
	Persons   []split.ParticipantShare `json:"persons"`
	Debts     []split.Debt             `json:"debts"`
	CreatedAt time.Time                `json:"created_at"`
}
