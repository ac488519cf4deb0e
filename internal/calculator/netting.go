package calculator

import (
	"context"
	"fmt"
)

// Net subtracts recorded settlements from a debt matrix and returns the
// reduced matrix. A transaction where g paid r reduces what g owes r.
//
// Cells are not clamped: an over-payment leaves a negative cell, which
// NetBalances folds correctly. With no transactions the input matrix is
// returned unchanged.
func Net(ctx context.Context, matrix DebtMatrix, txs []TransactionForBalance, participants []string, displayCurrency string, conv Converter) (DebtMatrix, error) {
	if len(txs) == 0 {
		return matrix, nil
	}

	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p] = true
	}

	netted := matrix.clone()
	for _, t := range txs {
		if !known[t.GiverID] || !known[t.ReceiverID] {
			return DebtMatrix{}, fmt.Errorf("%w: transaction %s references someone outside the event", ErrInvalidTransaction, t.ID)
		}
		if t.GiverID == t.ReceiverID {
			return DebtMatrix{}, fmt.Errorf("%w: transaction %s pays %s to themselves", ErrInvalidTransaction, t.ID, t.GiverID)
		}

		converted, err := conv.Convert(ctx, t.Currency, displayCurrency, t.Amount, t.Date)
		if err != nil {
			return DebtMatrix{}, fmt.Errorf("%w: transaction %s: %w", ErrConversionUnavailable, t.ID, err)
		}
		if !ValidAmount(converted) {
			return DebtMatrix{}, fmt.Errorf("%w: transaction %s: amount %v out of range", ErrInvalidTransaction, t.ID, converted)
		}

		netted.add(t.ReceiverID, t.GiverID, -converted)
	}

	return netted, nil
}

// Balance is the signed net amount for one participant.
// Positive = owed money, Negative = owes money.
type Balance struct {
	ParticipantID string
	Amount        float64
}

// NetBalances is an ordered list of balances. The order is the tie-break
// order of the resolver.
type NetBalances []Balance

// Sum returns the sum of all balances. It is zero within Epsilon for any
// balances derived from a debt matrix.
func (b NetBalances) Sum() float64 {
	var sum float64
	for _, bal := range b {
		sum += bal.Amount
	}
	return sum
}

// Get returns the balance of a participant.
func (b NetBalances) Get(participantID string) (float64, bool) {
	for _, bal := range b {
		if bal.ParticipantID == participantID {
			return bal.Amount, true
		}
	}
	return 0, false
}

// Settled reports whether every balance is within Epsilon of zero.
func (b NetBalances) Settled() bool {
	for _, bal := range b {
		if !IsZero(bal.Amount) {
			return false
		}
	}
	return true
}

// ComputeNetBalances collapses a debt matrix into one balance per
// participant, in the order given: what everyone else owes p minus what p
// owes everyone else.
func ComputeNetBalances(matrix DebtMatrix, participants []string) NetBalances {
	balances := make(NetBalances, len(participants))
	for i, p := range participants {
		var amount float64
		for _, other := range participants {
			if other == p {
				continue
			}
			amount += matrix.Get(p, other) - matrix.Get(other, p)
		}
		balances[i] = Balance{ParticipantID: p, Amount: amount}
	}
	return balances
}

// CheckConservation returns an error if the balances do not sum to zero
// within Epsilon.
func CheckConservation(balances NetBalances) error {
	if sum := balances.Sum(); !IsZero(sum) {
		return fmt.Errorf("net balances sum to %v, want 0", sum)
	}
	return nil
}
