package notify_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/settleup/internal/notify"
)

func TestBus_DeliversByKind(t *testing.T) {
	bus := notify.NewBus()

	var expenses, all []notify.Change
	bus.On(notify.ExpenseAdded, func(_ context.Context, c notify.Change) { expenses = append(expenses, c) })
	bus.OnAll(func(_ context.Context, c notify.Change) { all = append(all, c) })

	ctx := context.Background()
	bus.Publish(ctx, notify.Change{EventID: "EVENT", Kind: notify.ExpenseAdded, EntityID: "e1"})
	bus.Publish(ctx, notify.Change{EventID: "EVENT", Kind: notify.TransactionAdded, EntityID: "t1"})

	assert.Len(t, expenses, 1)
	assert.Equal(t, "e1", expenses[0].EntityID)
	assert.Len(t, all, 2)
}

func TestBus_SerializesHandlers(t *testing.T) {
	bus := notify.NewBus()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		count   int
	)
	bus.OnAll(func(_ context.Context, _ notify.Change) {
		mu.Lock()
		running++
		if running > maxSeen {
			maxSeen = running
		}
		mu.Unlock()

		mu.Lock()
		running--
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), notify.Change{Kind: notify.ExpenseUpdated})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
	assert.Equal(t, 1, maxSeen)
}

func TestBus_PreservesOrder(t *testing.T) {
	bus := notify.NewBus()

	var got []string
	bus.OnAll(func(_ context.Context, c notify.Change) { got = append(got, c.EntityID) })

	for _, id := range []string{"a", "b", "c"} {
		bus.Publish(context.Background(), notify.Change{Kind: notify.ExpenseAdded, EntityID: id})
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
