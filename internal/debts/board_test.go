package debts_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/debts"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
)

func TestBoard_Switch(t *testing.T) {
	ctx := context.Background()
	loader, _, eng := setup(twoPersonEvent())
	b := debts.NewBoard("ABCDE", loader, eng, debts.WithTimeout(time.Second))

	snap := b.Snapshot()
	assert.Equal(t, debts.Open, snap.View)
	assert.Nil(t, snap.Result)

	snap, err := b.Switch(ctx, debts.Open)
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	assert.Len(t, snap.Result.Plan, 1)
	assert.False(t, snap.UpdatedAt.IsZero())

	snap, err = b.Switch(ctx, debts.Settled)
	require.NoError(t, err)
	assert.Equal(t, debts.Settled, snap.View)
	assert.Empty(t, snap.History)
}

func TestBoard_SwitchToSettledSkipsOpenComputation(t *testing.T) {
	loader, conv, eng := setup(twoPersonEvent())
	conv.setFail(true)
	loader.update("ABCDE", func(ev *models.Event) {
		ev.Expenses = append(ev.Expenses, usdExpense("e2"))
	})
	b := debts.NewBoard("ABCDE", loader, eng)

	snap, err := b.Switch(context.Background(), debts.Settled)
	require.NoError(t, err)
	assert.Equal(t, debts.Settled, snap.View)
	assert.Nil(t, snap.Result)
}

func TestRegistry_RecomputesOnChange(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	bus := notify.NewBus()
	loader, conv, eng := setup(twoPersonEvent())
	r := debts.NewRegistry(bus, loader, eng, debts.WithMetrics(metrics.New(reg)))

	board := r.Board("ABCDE")
	assert.Same(t, board, r.Board("ABCDE"))

	before, err := board.Current(ctx)
	require.NoError(t, err)
	require.Len(t, before.Result.Plan, 1)
	assert.InDelta(t, 50, before.Result.Plan[0].Amount, calculator.Epsilon)

	loader.update("ABCDE", func(ev *models.Event) {
		ev.Transactions = append(ev.Transactions, models.Transaction{
			ID: "t1", GiverID: "B", ReceiverID: "A",
			Amount: decimal.NewFromInt(20), Currency: "EUR", Date: day,
		})
	})
	bus.Publish(ctx, notify.Change{EventID: "ABCDE", Kind: notify.TransactionAdded, EntityID: "t1"})

	after := board.Snapshot()
	require.Len(t, after.Result.Plan, 1)
	assert.InDelta(t, 30, after.Result.Plan[0].Amount, calculator.Epsilon)
	assert.NoError(t, after.Err)

	t.Run("failure keeps the previous plan", func(t *testing.T) {
		conv.setFail(true)
		loader.update("ABCDE", func(ev *models.Event) {
			ev.Expenses = append(ev.Expenses, usdExpense("e2"))
		})
		bus.Publish(ctx, notify.Change{EventID: "ABCDE", Kind: notify.ExpenseAdded, EntityID: "e2"})

		snap := board.Snapshot()
		assert.ErrorIs(t, snap.Err, calculator.ErrConversionUnavailable)
		assert.Same(t, after.Result, snap.Result)

		conv.setFail(false)
		bus.Publish(ctx, notify.Change{EventID: "ABCDE", Kind: notify.ExpenseUpdated, EntityID: "e2"})

		snap = board.Snapshot()
		assert.NoError(t, snap.Err)
		require.Len(t, snap.Result.Plan, 1)
		assert.InDelta(t, 20, snap.Result.Plan[0].Amount, calculator.Epsilon)
	})

	t.Run("changes of other events are ignored", func(t *testing.T) {
		loads := loader.loadCount()
		bus.Publish(ctx, notify.Change{EventID: "OTHER", Kind: notify.ExpenseAdded, EntityID: "x"})
		assert.Equal(t, loads, loader.loadCount())
	})

	t.Run("deleting the event drops its board", func(t *testing.T) {
		bus.Publish(ctx, notify.Change{EventID: "ABCDE", Kind: notify.EventDeleted})
		assert.NotSame(t, board, r.Board("ABCDE"))
	})

	count, err := testutil.GatherAndCount(reg, "settleup_recomputes_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}
