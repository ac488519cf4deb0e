// Package notify delivers domain-change notifications to subscribers.
//
// Handlers run synchronously on the publishing goroutine. Publishing is
// serialized, so handlers observe changes one at a time in arrival order.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Kind identifies what changed.
type Kind string

const (
	ExpenseAdded       Kind = "expense.added"
	ExpenseUpdated     Kind = "expense.updated"
	ExpenseRemoved     Kind = "expense.removed"
	ParticipantAdded   Kind = "participant.added"
	ParticipantUpdated Kind = "participant.updated"
	ParticipantRemoved Kind = "participant.removed"
	TransactionAdded   Kind = "transaction.added"
	TransactionRemoved Kind = "transaction.removed"
	EventDeleted       Kind = "event.deleted"
)

// Kinds lists every kind that can affect open debts.
var Kinds = []Kind{
	ExpenseAdded, ExpenseUpdated, ExpenseRemoved,
	ParticipantAdded, ParticipantUpdated, ParticipantRemoved,
	TransactionAdded, TransactionRemoved,
}

// Change is a single notification.
type Change struct {
	EventID  string
	Kind     Kind
	EntityID string
}

// Handler reacts to a change.
type Handler func(ctx context.Context, c Change)

// Bus fans changes out to handlers registered per kind.
type Bus struct {
	publishMu sync.Mutex

	mu       sync.RWMutex
	handlers map[Kind][]Handler
	all      []Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// On registers h for changes of the given kind.
func (b *Bus) On(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// OnAll registers h for every change.
func (b *Bus) OnAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers c to every matching handler, in registration order, and
// returns once all of them have run. Handlers must not call Publish.
func (b *Bus) Publish(ctx context.Context, c Change) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[c.Kind])+len(b.all))
	handlers = append(handlers, b.handlers[c.Kind]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	slog.Debug("Publishing change",
		"event_id", c.EventID,
		"kind", c.Kind,
		"entity_id", c.EntityID,
		"handlers", len(handlers),
	)
	for _, h := range handlers {
		h(ctx, c)
	}
}
