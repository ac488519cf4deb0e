package calculator

import (
	"context"
	"fmt"
	"maps"
)

// Aggregation is the output of the balance aggregator.
type Aggregation struct {
	// Matrix holds the raw pairwise debts, before settlements are netted.
	Matrix DebtMatrix

	// Consumption is the amount each participant is responsible for, their
	// own shares included. Every event participant has an entry.
	Consumption map[string]float64

	// Total is the sum of all converted expenses.
	Total float64

	// TagTotals is the converted spend per tag ID. Untagged expenses are
	// counted under the empty key.
	TagTotals map[string]float64
}

// Aggregate computes the pairwise debt matrix and per-participant
// consumption for the given expenses, in displayCurrency.
//
// Algorithm:
// - Convert each expense at its date
// - share = converted / number of sharing participants
// - Every sharing participant other than the author owes the author one share
// - Every sharing participant, the author included, consumes one share
//
// participants is the full participant list of the event. An expense that
// references anyone outside it is rejected with ErrInvalidExpense. A failed
// conversion aborts with ErrConversionUnavailable and no partial result.
func Aggregate(ctx context.Context, expenses []ExpenseForBalance, participants []string, displayCurrency string, conv Converter) (*Aggregation, error) {
	known := make(map[string]bool, len(participants))
	consumption := make(map[string]float64, len(participants))
	for _, p := range participants {
		known[p] = true
		consumption[p] = 0
	}

	agg := &Aggregation{
		Consumption: consumption,
		TagTotals:   make(map[string]float64),
	}

	for _, e := range expenses {
		if !known[e.AuthorID] {
			return nil, fmt.Errorf("%w: expense %s: author %s is not a participant", ErrInvalidExpense, e.ID, e.AuthorID)
		}

		converted, err := conv.Convert(ctx, e.Currency, displayCurrency, e.Amount, e.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %s: %w", ErrConversionUnavailable, e.ID, err)
		}
		if !ValidAmount(converted) {
			return nil, fmt.Errorf("%w: expense %s: amount %v out of range", ErrInvalidExpense, e.ID, converted)
		}

		shares, err := SplitEvenly(converted, e.ParticipantIDs)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}

		// Walk the participant list rather than the map to keep float
		// accumulation order stable between runs.
		for _, p := range e.ParticipantIDs {
			if !known[p] {
				return nil, fmt.Errorf("%w: expense %s: %s is not a participant", ErrInvalidExpense, e.ID, p)
			}
			share := shares[p]
			agg.Consumption[p] += share
			agg.Matrix.add(e.AuthorID, p, share)
		}

		agg.Total += converted
		agg.TagTotals[e.TagID] += converted
	}

	return agg, nil
}

// ConsumptionEqual reports whether two consumption maps have the same keys
// and values within Epsilon.
func ConsumptionEqual(a, b map[string]float64) bool {
	return maps.EqualFunc(a, b, Equal)
}
