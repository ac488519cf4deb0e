package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/pkg/api"
)

var maxAmount = decimal.NewFromFloat(calculator.MaxAmount)

// cents rounds a computed amount for display.
func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// parseAmount parses a positive decimal amount such as "12.50".
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, invalidArgument("invalid amount %q", s)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, invalidArgument("amount must be positive, got %s", amount)
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Decimal{}, invalidArgument("amount %s exceeds the maximum of %s", s, maxAmount)
	}
	return amount, nil
}

func parseCurrency(code string) (string, error) {
	normalized, err := currency.Normalize(code)
	if err != nil {
		return "", invalidArgument("invalid currency %q", code)
	}
	return normalized, nil
}

// parseDate converts a Unix timestamp; zero means now.
func parseDate(unix int64) time.Time {
	if unix == 0 {
		return time.Now().UTC().Truncate(time.Second)
	}
	return time.Unix(unix, 0).UTC()
}

// expenseInput holds the user-editable fields of an expense.
type expenseInput struct {
	AuthorID       string
	Purpose        string
	Amount         string
	Currency       string
	Date           int64
	ParticipantIDs []string
	TagID          string
}

// buildExpense validates an expense against the event it belongs to.
func buildExpense(ev *models.Event, in expenseInput) (*models.Expense, error) {
	if _, ok := ev.Participant(in.AuthorID); !ok {
		return nil, invalidArgument("author %q is not a participant of event %s", in.AuthorID, ev.ID)
	}
	if len(in.ParticipantIDs) == 0 {
		return nil, invalidArgument("expense must be shared by at least one participant")
	}
	seen := make(map[string]bool, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if _, ok := ev.Participant(id); !ok {
			return nil, invalidArgument("participant %q is not part of event %s", id, ev.ID)
		}
		if seen[id] {
			return nil, invalidArgument("participant %q listed twice", id)
		}
		seen[id] = true
	}
	if in.TagID != "" && !hasTag(ev, in.TagID) {
		return nil, invalidArgument("unknown tag %q", in.TagID)
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	code, err := parseCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		EventID:        ev.ID,
		AuthorID:       in.AuthorID,
		Purpose:        strings.TrimSpace(in.Purpose),
		Amount:         amount,
		Currency:       code,
		Date:           parseDate(in.Date),
		ParticipantIDs: in.ParticipantIDs,
		TagID:          in.TagID,
	}, nil
}

// checkTransfer validates the two sides of a settlement.
func checkTransfer(ev *models.Event, giverID, receiverID string) error {
	if _, ok := ev.Participant(giverID); !ok {
		return invalidArgument("giver %q is not a participant of event %s", giverID, ev.ID)
	}
	if _, ok := ev.Participant(receiverID); !ok {
		return invalidArgument("receiver %q is not a participant of event %s", receiverID, ev.ID)
	}
	if giverID == receiverID {
		return invalidArgument("giver and receiver must differ")
	}
	return nil
}

func hasTag(ev *models.Event, tagID string) bool {
	for _, t := range ev.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

func hasExpense(ev *models.Event, expenseID string) bool {
	for _, e := range ev.Expenses {
		if e.ID == expenseID {
			return true
		}
	}
	return false
}

func toAPIEvent(ev *models.Event) *api.Event {
	out := &api.Event{
		Id:        ev.ID,
		Title:     ev.Title,
		CreatedAt: ev.CreatedAt,
	}
	for _, p := range ev.Participants {
		out.Participants = append(out.Participants, toAPIParticipant(p))
	}
	for _, e := range ev.Expenses {
		out.Expenses = append(out.Expenses, toAPIExpense(e))
	}
	out.Transactions = toAPITransactions(ev.Transactions)
	for _, t := range ev.Tags {
		out.Tags = append(out.Tags, toAPITag(t))
	}
	return out
}

func toAPIParticipant(p models.Participant) *api.Participant {
	return &api.Participant{Id: p.ID, Name: p.Name}
}

func toAPIExpense(e models.Expense) *api.Expense {
	return &api.Expense{
		Id:             e.ID,
		AuthorId:       e.AuthorID,
		Purpose:        e.Purpose,
		Amount:         e.Amount.StringFixed(2),
		Currency:       e.Currency,
		Date:           e.Date.Unix(),
		ParticipantIds: e.ParticipantIDs,
		TagId:          e.TagID,
	}
}

func toAPITransaction(t models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:         t.ID,
		GiverId:    t.GiverID,
		ReceiverId: t.ReceiverID,
		Amount:     t.Amount.StringFixed(2),
		Currency:   t.Currency,
		Date:       t.Date.Unix(),
	}
}

func toAPITransactions(txs []models.Transaction) []*api.Transaction {
	if len(txs) == 0 {
		return nil
	}
	out := make([]*api.Transaction, len(txs))
	for i, t := range txs {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPITag(t models.Tag) *api.Tag {
	return &api.Tag{Id: t.ID, Name: t.Name, Color: t.Color}
}

func toAPIPlan(plan calculator.Plan) []*api.Transfer {
	if len(plan) == 0 {
		return nil
	}
	out := make([]*api.Transfer, len(plan))
	for i, t := range plan {
		out[i] = &api.Transfer{GiverId: t.GiverID, ReceiverId: t.ReceiverID, Amount: cents(t.Amount)}
	}
	return out
}

func toAPIBalances(balances calculator.NetBalances) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{ParticipantId: b.ParticipantID, Amount: cents(b.Amount)}
	}
	return out
}

// toAPIMatrix lists the cells that still carry debt in either direction.
func toAPIMatrix(m calculator.DebtMatrix) []*api.DebtEdge {
	var out []*api.DebtEdge
	for _, e := range m.Edges() {
		if calculator.IsZero(e.Amount) {
			continue
		}
		out = append(out, &api.DebtEdge{From: e.From, To: e.To, Amount: cents(e.Amount)})
	}
	return out
}

func describeTransfer(giverID, receiverID string) string {
	return fmt.Sprintf("%s -> %s", giverID, receiverID)
}
