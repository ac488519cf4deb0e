package debts

import (
	"context"
	"sync"

	"github.com/mmynk/settleup/internal/notify"
)

// Registry owns one Board per event and routes change notifications to it.
type Registry struct {
	loader EventLoader
	engine Engine
	opts   []Option

	mu     sync.Mutex
	boards map[string]*Board
}

// NewRegistry creates a Registry and subscribes it to bus.
func NewRegistry(bus *notify.Bus, loader EventLoader, engine Engine, opts ...Option) *Registry {
	r := &Registry{
		loader: loader,
		engine: engine,
		opts:   opts,
		boards: make(map[string]*Board),
	}
	for _, kind := range notify.Kinds {
		bus.On(kind, r.dispatch)
	}
	bus.On(notify.EventDeleted, r.forget)
	return r
}

// Engine returns the engine shared by all boards.
func (r *Registry) Engine() Engine {
	return r.engine
}

// Board returns the board of an event, creating it on first use.
func (r *Registry) Board(eventID string) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[eventID]
	if !ok {
		b = NewBoard(eventID, r.loader, r.engine, r.opts...)
		r.boards[eventID] = b
	}
	return b
}

// dispatch forwards a change to the board of its event. Events nobody has
// looked at yet have no board and are computed on first access instead.
func (r *Registry) dispatch(ctx context.Context, c notify.Change) {
	r.mu.Lock()
	b, ok := r.boards[c.EventID]
	r.mu.Unlock()

	if ok {
		b.Handle(ctx, c)
	}
}

func (r *Registry) forget(_ context.Context, c notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, c.EventID)
}
