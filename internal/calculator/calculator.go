// Package calculator implements the debt settlement engine: it turns expenses
// and recorded settlements into a pairwise debt matrix, net balances and a
// minimal settlement plan.
//
// All amounts handled here are float64 values in a single display currency.
// Every function returns fresh values; inputs are never mutated.
package calculator

import (
	"context"
	"errors"
	"math"
	"time"
)

// Epsilon is the tolerance, in display-currency units, used for conservation
// checks, resolver termination and equality comparisons. It is sub-cent.
const Epsilon = 0.005

// MaxAmount is the largest amount, in any currency, the engine accepts for a
// single expense or settlement. Larger values lose cent precision as float64.
const MaxAmount = 1e12

var (
	// ErrConversionUnavailable means a currency rate lookup failed. Nothing
	// was computed.
	ErrConversionUnavailable = errors.New("currency conversion unavailable")

	// ErrInvalidExpense means an expense cannot be split, e.g. it has no
	// participants or references someone outside the event.
	ErrInvalidExpense = errors.New("invalid expense")

	// ErrInvalidTransaction means a settlement references someone outside
	// the event or pays the giver back to themselves.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrNonConvergence means the resolver needed more than n-1 transfers.
	// It indicates a programming error.
	ErrNonConvergence = errors.New("settlement did not converge")
)

// Converter normalizes an amount in one currency into another, using the
// rate valid at the given time.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount float64, at time.Time) (float64, error)
}

// IsZero reports whether v is within Epsilon of zero.
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// ValidAmount reports whether v is a finite amount within MaxAmount.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= MaxAmount
}

// Equal reports whether a and b differ by less than Epsilon.
func Equal(a, b float64) bool {
	return IsZero(a - b)
}

// ExpenseForBalance represents an expense with the minimal information needed
// for balance calculations.
type ExpenseForBalance struct {
	ID             string
	AuthorID       string
	Amount         float64
	Currency       string
	Date           time.Time
	ParticipantIDs []string
	TagID          string
}

// TransactionForBalance represents a recorded settlement with the minimal
// information needed for balance calculations.
type TransactionForBalance struct {
	ID         string
	GiverID    string // Who paid (debtor settling up)
	ReceiverID string // Who received (creditor being paid)
	Amount     float64
	Currency   string
	Date       time.Time
}
