package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is money spent by one participant on behalf of others.
// The cost is shared equally among ParticipantIDs.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event this expense belongs to.
	EventID string

	// AuthorID is the participant who paid.
	AuthorID string

	// Purpose describes what the money was spent on.
	Purpose string

	// Amount is the amount paid, in Currency.
	Amount decimal.Decimal

	// Currency is the ISO-4217 code of Amount (e.g. "EUR").
	Currency string

	// Date is when the expense happened. It selects the historical
	// exchange rate used to normalize the amount.
	Date time.Time

	// ParticipantIDs are the participants sharing the cost.
	// Must be non-empty; the author does not have to be included.
	ParticipantIDs []string

	// TagID is the optional category of the expense.
	TagID string
}
