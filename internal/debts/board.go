package debts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
)

// EventLoader loads a stored event with everything it owns.
type EventLoader interface {
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
}

// Snapshot is a read-only copy of a board's state.
type Snapshot struct {
	EventID string
	View    View

	// Result is nil until open debts have been computed.
	Result  *calculator.Result
	History []models.Transaction

	// Err is the error of the latest failed recompute, if the board is
	// still showing the result from before it.
	Err error

	UpdatedAt time.Time
}

// Board tracks the debt view of one event and recomputes it when the event
// changes. Transitions on a board run one at a time.
type Board struct {
	eventID string
	loader  EventLoader
	engine  Engine
	metrics *metrics.Metrics
	timeout time.Duration

	mu        sync.Mutex
	state     State
	lastErr   error
	updatedAt time.Time
}

// NewBoard creates a board in the initial Open state. Nothing is computed
// until the first call to Current, Switch or Handle.
func NewBoard(eventID string, loader EventLoader, engine Engine, opts ...Option) *Board {
	b := &Board{
		eventID: eventID,
		loader:  loader,
		engine:  engine,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option configures a Board.
type Option func(*Board)

// WithMetrics records recomputations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Board) { b.metrics = m }
}

// WithTimeout bounds every recompute. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Board) { b.timeout = d }
}

// Snapshot returns the current state without computing anything.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Current returns the current view, computing it first if needed.
func (b *Board) Current(ctx context.Context) (Snapshot, error) {
	return b.apply(ctx, Refresh)
}

// Switch selects a view. Switching to the view already shown is a no-op;
// switching back to Open always recomputes.
func (b *Board) Switch(ctx context.Context, v View) (Snapshot, error) {
	if v == Settled {
		return b.apply(ctx, SwitchToSettled)
	}
	snap, err := b.apply(ctx, SwitchToOpen)
	if err != nil {
		return snap, err
	}
	// The initial Open state has nothing computed yet.
	return b.apply(ctx, Refresh)
}

// Handle reacts to a domain-change notification. Errors are logged and kept
// on the board; the previous result stays in place.
func (b *Board) Handle(ctx context.Context, c notify.Change) {
	if c.EventID != b.eventID {
		return
	}
	if _, err := b.apply(ctx, Changed); err != nil {
		slog.Warn("Debt view recompute failed",
			"event_id", b.eventID,
			"kind", c.Kind,
			"entity_id", c.EntityID,
			"error", err,
		)
	}
}

func (b *Board) apply(ctx context.Context, t Trigger) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	load := func(ctx context.Context) (*models.Event, error) {
		return b.loader.GetEvent(ctx, b.eventID)
	}

	start := time.Now()
	next, outcome, err := Transition(ctx, b.state, t, load, b.engine)
	took := time.Since(start)

	if err != nil {
		b.lastErr = err
		b.metrics.Recompute(b.state.View.String(), metrics.OutcomeError, took)
		return b.snapshotLocked(), err
	}

	switch outcome {
	case OutcomeRecomputed:
		b.metrics.Recompute(next.View.String(), metrics.OutcomeOK, took)
		b.metrics.PlanSize(len(next.Result.Plan))
	case OutcomeUnchanged:
		b.metrics.Recompute(next.View.String(), metrics.OutcomeUnchanged, took)
	case OutcomeListed:
		b.metrics.Recompute(next.View.String(), metrics.OutcomeHistoryOnly, took)
	}
	if outcome != OutcomeNoop {
		slog.Debug("Debt view updated",
			"event_id", b.eventID,
			"view", next.View,
			"outcome", outcome,
			"duration_ms", took.Milliseconds(),
		)
		b.updatedAt = time.Now()
		b.lastErr = nil
	}

	b.state = next
	return b.snapshotLocked(), nil
}

func (b *Board) snapshotLocked() Snapshot {
	return Snapshot{
		EventID:   b.eventID,
		View:      b.state.View,
		Result:    b.state.Result,
		History:   b.state.History,
		Err:       b.lastErr,
		UpdatedAt: b.updatedAt,
	}
}
