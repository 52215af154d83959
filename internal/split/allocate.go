package split

// Debt records that one participant owes the payer part of an expense.
// Amounts are kept unrounded; rounding to currency precision is a
// presentation concern, applied once at display time instead of compounding
// across recomputations.
type Debt struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// ComputeDebts converts a finalized share table plus an expense total into
// the list of debts owed to the payer. Every participant whose name differs
// from the payer's owes (percent / 100) * total; zero amounts are skipped
// and the payer's own share is implicitly self-paid. Output order follows
// the input share order.
//
// Callers are expected to validate the table first (ValidateShares) and keep
// total non-negative. A table with no payer yields an empty list rather than
// an error: this runs on every edit in the share UI and must never take the
// editor down.
func ComputeDebts(shares []ParticipantShare, total float64) []Debt {
	payer, ok := payerOf(shares)
	if !ok {
		return []Debt{}
	}

	debts := make([]Debt, 0, len(shares)-1)
	for _, s := range shares {
		if s.Name == payer {
			continue
		}
		amount := (s.Percent / 100) * total
		if amount <= 0 {
			continue
		}
		debts = append(debts, Debt{
			From:   s.Name,
			To:     payer,
			Amount: amount,
		})
	}

	return debts
}

// payerOf returns the first payer's name. The single-payer invariant is
// maintained by SetPayer and checked by ValidateShares.
func payerOf(shares []ParticipantShare) (string, bool) {
	for _, s := range shares {
		if s.IsPayer {
			return s.Name, true
		}
	}
	return "", false
}
