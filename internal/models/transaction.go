package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a payment from Giver to Receiver that settles debt.
// Recorded transactions are real-world payments already made.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// EventID is the event this transaction belongs to.
	EventID string

	// GiverID is the participant who paid (debtor settling up).
	GiverID string

	// ReceiverID is the participant who received the payment (creditor).
	ReceiverID string

	// Amount is the payment amount, in Currency.
	Amount decimal.Decimal

	// Currency is the ISO-4217 code of Amount.
	Currency string

	// Date is when the payment was made.
	Date time.Time
}
