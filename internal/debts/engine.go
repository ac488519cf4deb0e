// Package debts runs the settlement engine for stored events and tracks which
// debt view (open or settled) each event is showing.
package debts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

// View selects what the debts page lists.
type View int

const (
	// Open lists the settlement plan for outstanding debts.
	Open View = iota
	// Settled lists recorded settlements chronologically.
	Settled
)

func (v View) String() string {
	switch v {
	case Open:
		return "open"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// ParseView parses "open" or "settled".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return Open, nil
	case "settled":
		return Settled, nil
	default:
		return Open, fmt.Errorf("unknown view %q", s)
	}
}

// Engine computes debts for events in one display currency.
type Engine struct {
	Converter       calculator.Converter
	DisplayCurrency string
}

// Input converts a stored event into calculator input. Participants keep the
// event order, which is the resolver's tie-break order.
func (e Engine) Input(ev *models.Event) calculator.Input {
	in := calculator.Input{
		Participants:    ev.ParticipantIDs(),
		Expenses:        make([]calculator.ExpenseForBalance, len(ev.Expenses)),
		Transactions:    make([]calculator.TransactionForBalance, len(ev.Transactions)),
		DisplayCurrency: e.DisplayCurrency,
		Converter:       e.Converter,
	}
	for i, exp := range ev.Expenses {
		in.Expenses[i] = calculator.ExpenseForBalance{
			ID:             exp.ID,
			AuthorID:       exp.AuthorID,
			Amount:         exp.Amount.InexactFloat64(),
			Currency:       exp.Currency,
			Date:           exp.Date,
			ParticipantIDs: exp.ParticipantIDs,
			TagID:          exp.TagID,
		}
	}
	for i, t := range ev.Transactions {
		in.Transactions[i] = calculator.TransactionForBalance{
			ID:         t.ID,
			GiverID:    t.GiverID,
			ReceiverID: t.ReceiverID,
			Amount:     t.Amount.InexactFloat64(),
			Currency:   t.Currency,
			Date:       t.Date,
		}
	}
	return in
}

// ComputeOpenDebts runs the full settlement pipeline for an event.
func (e Engine) ComputeOpenDebts(ctx context.Context, ev *models.Event) (*calculator.Result, error) {
	return calculator.Settle(ctx, e.Input(ev))
}

// SettledHistory returns the recorded settlements of an event, oldest first.
// Settlements on the same date are ordered by ID.
func SettledHistory(ev *models.Event) []models.Transaction {
	history := make([]models.Transaction, len(ev.Transactions))
	copy(history, ev.Transactions)
	sort.SliceStable(history, func(i, j int) bool {
		if !history[i].Date.Equal(history[j].Date) {
			return history[i].Date.Before(history[j].Date)
		}
		return history[i].ID < history[j].ID
	})
	return history
}
