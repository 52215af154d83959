package split

import (
	"errors"
	"fmt"
	"math"
)

// ParticipantShare is one row of a receipt's share table: a named person,
// their percentage of the expense, and whether they fronted the money.
type ParticipantShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	IsPayer bool    `json:"is_payer"`
}

var (
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrInvalidShareSum   = errors.New("shares must sum to 100")
	ErrNoPayer           = errors.New("exactly one participant must be the payer")
	ErrMultiplePayers    = errors.New("only one participant can be the payer")
	ErrPercentOutOfRange = errors.New("share percent must be between 0 and 100")
)

// shareSumTolerance absorbs float64 noise when checking the 100% invariant.
const shareSumTolerance = 0.01

// InitializeShares builds an even share table for count participants.
// 100 is divided evenly and truncated to 2 decimals; the truncation
// remainder goes to the first participant so the table sums to exactly 100
// (e.g. 3 participants -> 33.34 / 33.33 / 33.33). The first participant is
// the payer by default and names default to "Person 1", "Person 2", ...
func InitializeShares(count int) []ParticipantShare {
	if count < 1 {
		return nil
	}

	base := math.Floor(10000/float64(count)) / 100
	rest := roundToTwoDecimals(100 - base*float64(count))

	shares := make([]ParticipantShare, count)
	for i := range shares {
		shares[i] = ParticipantShare{
			Name:    defaultName(i),
			Percent: base,
		}
	}
	shares[0].Percent = roundToTwoDecimals(base + rest)
	shares[0].IsPayer = true

	return shares
}

// ChangeParticipantCount rebuilds an even share table for newCount
// participants, keeping names from previous at indices that still exist.
// The payer is always reset to the first participant: the previous payer's
// index may no longer exist after a count change, so index 0 is the
// deterministic fallback.
func ChangeParticipantCount(newCount int, previous []ParticipantShare) []ParticipantShare {
	shares := InitializeShares(newCount)
	for i := range shares {
		if i < len(previous) && previous[i].Name != "" {
			shares[i].Name = previous[i].Name
		}
	}
	return shares
}

// SetSharePercent sets the share at index to percent (clamped to [0, 100])
// and redistributes the remaining percentage across the other participants.
// Whole percentage points are spread evenly, with the leftover points going
// one each to the earliest other participants; any sub-point fraction left
// by a 2-decimal edit lands on the first other participant. The resulting
// table always sums to exactly 100.
//
// With a single participant the share is forced to 100. An out-of-range
// index leaves the table unchanged. The input slice is never mutated.
func SetSharePercent(shares []ParticipantShare, index int, percent float64) []ParticipantShare {
	out := cloneShares(shares)
	if index < 0 || index >= len(out) {
		return out
	}
	if len(out) == 1 {
		out[0].Percent = 100
		return out
	}

	percent = roundToTwoDecimals(math.Min(100, math.Max(0, percent)))
	out[index].Percent = percent

	others := len(out) - 1

	// Work in hundredths of a percent so the sum stays exact.
	restCents := int(math.Round((100 - percent) * 100))
	wholePoints := restCents / 100
	fracCents := restCents - wholePoints*100

	even := wholePoints / others
	leftover := wholePoints - even*others

	assigned := 0
	for i := range out {
		if i == index {
			continue
		}
		points := even
		if assigned < leftover {
			points++
		}
		cents := points * 100
		if assigned == 0 {
			cents += fracCents
		}
		out[i].Percent = float64(cents) / 100
		assigned++
	}

	return out
}

// SetPayer marks the share at index as the payer and clears the flag
// everywhere else, so the table always holds exactly one payer. An
// out-of-range index leaves the table unchanged. The input slice is never
// mutated.
func SetPayer(shares []ParticipantShare, index int) []ParticipantShare {
	out := cloneShares(shares)
	if index < 0 || index >= len(out) {
		return out
	}
	for i := range out {
		out[i].IsPayer = i == index
	}
	return out
}

// ValidateShares checks the share-table invariants: non-empty, every percent
// in [0, 100], the sum equal to 100 within tolerance, and exactly one payer.
// It belongs at the API boundary; the pure operations above maintain these
// invariants themselves and are never gated on it.
func ValidateShares(shares []ParticipantShare) error {
	if len(shares) == 0 {
		return ErrNoParticipants
	}

	var sum float64
	payers := 0
	for _, s := range shares {
		if s.Percent < 0 || s.Percent > 100 {
			return ErrPercentOutOfRange
		}
		sum += s.Percent
		if s.IsPayer {
			payers++
		}
	}

	if math.Abs(sum-100) > shareSumTolerance {
		return ErrInvalidShareSum
	}
	switch {
	case payers == 0:
		return ErrNoPayer
	case payers > 1:
		return ErrMultiplePayers
	}

	return nil
}

func defaultName(i int) string {
	return fmt.Sprintf("Person %d", i+1)
}

// roundToTwoDecimals rounds a float to 2 decimal places
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func cloneShares(shares []ParticipantShare) []ParticipantShare {
	out := make([]ParticipantShare, len(shares))
	copy(out, shares)
	return out
}
