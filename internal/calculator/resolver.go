package calculator

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// Transfer is a proposed payment that has not been executed yet.
type Transfer struct {
	GiverID    string
	ReceiverID string
	Amount     float64
}

// Plan is an ordered list of transfers that settles all balances.
type Plan []Transfer

// Total returns the sum of all transfer amounts.
func (p Plan) Total() float64 {
	var total float64
	for _, t := range p {
		total += t.Amount
	}
	return total
}

// MinCashFlow computes a settlement plan of at most n-1 transfers that drives
// every balance to zero.
//
// Algorithm (greedy):
// - Pick the largest creditor and the largest debtor; ties go to the first
// balance in the given order
// - Stop when either of them is within Epsilon of zero
// - The debtor pays the creditor min(credit, debt); at least one of them is
// now settled exactly
// - Repeat
//
// Transfers found later come first in the returned plan. Any order is a valid
// settlement sequence.
func MinCashFlow(balances NetBalances) (Plan, error) {
	work := slices.Clone(balances)
	n := len(work)

	var plan Plan
	for {
		if n == 0 {
			break
		}
		creditor, debtor := extremes(work)
		credit, debt := work[creditor].Amount, -work[debtor].Amount
		if credit < Epsilon || debt < Epsilon {
			break
		}

		if len(plan) >= n-1 {
			slog.Error("MinCashFlow exceeded n-1 transfers",
				"participants", n,
				"transfers", len(plan),
				"credit", credit,
				"debt", debt,
			)
			slices.Reverse(plan)
			return plan, fmt.Errorf("%w: %d transfers for %d participants", ErrNonConvergence, len(plan), n)
		}

		amount := math.Min(credit, debt)
		work[creditor].Amount -= amount
		work[debtor].Amount += amount

		plan = append(plan, Transfer{
			GiverID:    work[debtor].ParticipantID,
			ReceiverID: work[creditor].ParticipantID,
			Amount:     amount,
		})
	}

	slices.Reverse(plan)
	return plan, nil
}

// extremes returns the indexes of the maximum and minimum balance.
func extremes(balances NetBalances) (maxIdx, minIdx int) {
	for i, b := range balances {
		if b.Amount > balances[maxIdx].Amount {
			maxIdx = i
		}
		if b.Amount < balances[minIdx].Amount {
			minIdx = i
		}
	}
	return maxIdx, minIdx
}

// Apply executes a plan against balances and returns the resulting balances.
// A giver's balance rises by the amount paid, a receiver's falls.
func Apply(balances NetBalances, plan Plan) NetBalances {
	out := slices.Clone(balances)
	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.ParticipantID] = i
	}
	for _, t := range plan {
		if i, ok := index[t.GiverID]; ok {
			out[i].Amount += t.Amount
		}
		if i, ok := index[t.ReceiverID]; ok {
			out[i].Amount -= t.Amount
		}
	}
	return out
}
