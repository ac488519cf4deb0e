package debts

import (
	"context"
	"sort"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

// TagTotal is the spend filed under one tag.
type TagTotal struct {
	TagID  string // empty for untagged expenses
	Name   string
	Color  string
	Amount float64
}

// ParticipantShare is the amount one participant consumed.
type ParticipantShare struct {
	ParticipantID string
	Name          string
	Amount        float64
}

// Statistics summarizes the spending of an event.
type Statistics struct {
	Total  float64
	Tags   []TagTotal
	Shares []ParticipantShare
}

// Statistics computes total, per-tag and per-participant spend. Tags are
// ordered by descending amount.
func (e Engine) Statistics(ctx context.Context, ev *models.Event) (*Statistics, error) {
	in := e.Input(ev)
	agg, err := calculator.Aggregate(ctx, in.Expenses, in.Participants, in.DisplayCurrency, in.Converter)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{Total: agg.Total}

	tags := make(map[string]models.Tag, len(ev.Tags))
	for _, t := range ev.Tags {
		tags[t.ID] = t
	}
	for id, amount := range agg.TagTotals {
		tag := tags[id]
		stats.Tags = append(stats.Tags, TagTotal{TagID: id, Name: tag.Name, Color: tag.Color, Amount: amount})
	}
	sort.Slice(stats.Tags, func(i, j int) bool {
		if stats.Tags[i].Amount != stats.Tags[j].Amount {
			return stats.Tags[i].Amount > stats.Tags[j].Amount
		}
		return stats.Tags[i].TagID < stats.Tags[j].TagID
	})

	for _, p := range ev.Participants {
		stats.Shares = append(stats.Shares, ParticipantShare{
			ParticipantID: p.ID,
			Name:          p.Name,
			Amount:        agg.Consumption[p.ID],
		})
	}

	return stats, nil
}
