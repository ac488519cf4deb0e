package debts

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

// Trigger is an input to the view state machine.
type Trigger int

const (
	// SwitchToOpen is the user selecting the open debts view.
	SwitchToOpen Trigger = iota
	// SwitchToSettled is the user selecting the settled debts view.
	SwitchToSettled
	// Changed is a domain-change notification.
	Changed
	// Refresh computes the current view if it has never been computed.
	Refresh
)

// Outcome describes what a transition did.
type Outcome string

const (
	// OutcomeNoop means the state was left as it was, either because the
	// trigger had nothing to do or because it failed.
	OutcomeNoop Outcome = "noop"
	// OutcomeRecomputed means a new settlement plan was computed for Open.
	OutcomeRecomputed Outcome = "recomputed"
	// OutcomeUnchanged means a change arrived while Open but the balances and
	// transactions were the same as last time, so the previous plan was kept.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeListed means the settled history was (re)listed for Settled.
	OutcomeListed Outcome = "listed"
)

// State is the value carried between transitions. The zero State is the
// initial Open state with nothing computed.
type State struct {
	View View

	// Result is the latest open-debts computation.
	Result *calculator.Result

	// History is the latest settled-transactions listing.
	History []models.Transaction

	computed    bool
	listed      bool
	fingerprint fingerprint
}

// Computed reports whether open debts have been computed at least once.
func (s State) Computed() bool { return s.computed }

// LoadFunc loads the event a transition needs. It is only called when the
// transition has to recompute.
type LoadFunc func(ctx context.Context) (*models.Event, error)

// Transition applies a trigger to a state and returns the next state.
//
//   - SwitchToOpen: no-op when Open, otherwise a forced recompute
//   - SwitchToSettled: no-op when Settled, otherwise lists settlements
//   - Changed: recomputes open debts when Open, relists when Settled
//   - Refresh: computes the current view if it was never computed
//
// A recompute returns the previous result when nothing that feeds the plan
// changed. On error the input state is returned unchanged.
func Transition(ctx context.Context, s State, t Trigger, load LoadFunc, eng Engine) (State, Outcome, error) {
	switch t {
	case SwitchToOpen:
		if s.View == Open {
			return s, OutcomeNoop, nil
		}
		return recomputeOpen(ctx, s, load, eng, true)

	case SwitchToSettled:
		if s.View == Settled {
			return s, OutcomeNoop, nil
		}
		return listSettled(ctx, s, load)

	case Changed:
		if s.View == Settled {
			return listSettled(ctx, s, load)
		}
		return recomputeOpen(ctx, s, load, eng, false)

	case Refresh:
		if s.View == Open && !s.computed {
			return recomputeOpen(ctx, s, load, eng, true)
		}
		if s.View == Settled && !s.listed {
			return listSettled(ctx, s, load)
		}
		return s, OutcomeNoop, nil
	}

	return s, OutcomeNoop, nil
}

func recomputeOpen(ctx context.Context, s State, load LoadFunc, eng Engine, force bool) (State, Outcome, error) {
	ev, err := load(ctx)
	if err != nil {
		return s, OutcomeNoop, err
	}

	in := eng.Input(ev)
	agg, err := calculator.Aggregate(ctx, in.Expenses, in.Participants, in.DisplayCurrency, in.Converter)
	if err != nil {
		return s, OutcomeNoop, err
	}

	fp := newFingerprint(agg, ev.Transactions)
	if !force && s.computed && s.View == Open && s.fingerprint.equal(fp) {
		return s, OutcomeUnchanged, nil
	}

	res, err := calculator.Resolve(ctx, agg, in)
	if err != nil {
		return s, OutcomeNoop, err
	}
	if err := calculator.CheckConservation(res.Balances); err != nil {
		slog.Warn("Net balances do not conserve", "event_id", ev.ID, "error", err)
	}

	next := s
	next.View = Open
	next.Result = res
	next.computed = true
	next.fingerprint = fp
	return next, OutcomeRecomputed, nil
}

func listSettled(ctx context.Context, s State, load LoadFunc) (State, Outcome, error) {
	ev, err := load(ctx)
	if err != nil {
		return s, OutcomeNoop, err
	}

	next := s
	next.View = Settled
	next.History = SettledHistory(ev)
	next.listed = true
	return next, OutcomeListed, nil
}

// fingerprint captures everything that feeds the settlement plan: the
// consumption map, the raw debt matrix and the recorded settlements.
type fingerprint struct {
	consumption  map[string]float64
	matrix       calculator.DebtMatrix
	transactions string
}

func newFingerprint(agg *calculator.Aggregation, txs []models.Transaction) fingerprint {
	keys := make([]string, len(txs))
	for i, t := range txs {
		keys[i] = strings.Join([]string{t.ID, t.GiverID, t.ReceiverID, t.Amount.String(), t.Currency, t.Date.UTC().String()}, "|")
	}
	sort.Strings(keys)
	return fingerprint{
		consumption:  agg.Consumption,
		matrix:       agg.Matrix,
		transactions: strings.Join(keys, "\n"),
	}
}

func (f fingerprint) equal(other fingerprint) bool {
	return calculator.ConsumptionEqual(f.consumption, other.consumption) &&
		f.matrix.Equal(other.matrix) &&
		f.transactions == other.transactions
}
