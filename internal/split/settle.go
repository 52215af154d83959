package split

import (
	"math"
	"sort"
)

// PairBalance is the net amount one participant owes another after folding
// the debts of many receipts together. Amount is always positive; direction
// is carried by From and To.
type PairBalance struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// zeroNetTolerance treats pairs whose debts cancel to under half a cent as
// settled, so float64 noise never surfaces as a phantom balance.
const zeroNetTolerance = 0.005

// Aggregate nets the debts of any number of receipts into one balance per
// participant pair. Mutual debts cancel; pairs that net to zero are omitted
// entirely. Names match by exact case-sensitive equality: "anna" and "Anna"
// are different people as far as this function is concerned, and keeping
// names consistent across receipts is the caller's job.
//
// The result is sorted by participant pair, so aggregating the same receipts
// in any order yields an identical slice.
func Aggregate(debtLists ...[]Debt) []PairBalance {
	type pair struct {
		low, high string
	}

	// net[p] is what p.low owes p.high; negative means the reverse.
	net := make(map[pair]float64)
	for _, debts := range debtLists {
		for _, d := range debts {
			if d.From == d.To {
				continue
			}
			p := pair{low: d.From, high: d.To}
			amount := d.Amount
			if p.high < p.low {
				p.low, p.high = p.high, p.low
				amount = -amount
			}
			net[p] += amount
		}
	}

	pairs := make([]pair, 0, len(net))
	for p := range net {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].low != pairs[j].low {
			return pairs[i].low < pairs[j].low
		}
		return pairs[i].high < pairs[j].high
	})

	balances := make([]PairBalance, 0, len(pairs))
	for _, p := range pairs {
		amount := net[p]
		if math.Abs(amount) < zeroNetTolerance {
			continue
		}
		if amount > 0 {
			balances = append(balances, PairBalance{From: p.low, To: p.high, Amount: amount})
		} else {
			balances = append(balances, PairBalance{From: p.high, To: p.low, Amount: -amount})
		}
	}

	return balances
}
