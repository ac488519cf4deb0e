package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/metrics"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Recompute("open", metrics.OutcomeOK, 3*time.Millisecond)
	m.Recompute("open", metrics.OutcomeUnchanged, time.Millisecond)
	m.RateLookup(true)
	m.RateLookup(false)
	m.ConversionFailed("USD", "EUR")
	m.RPC("/settleup.v1.DebtService/SwitchView", "ok")
	m.PlanSize(2)

	n, err := testutil.GatherAndCount(reg, "settleup_recomputes_total", "settleup_rate_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = testutil.GatherAndCount(reg, "settleup_conversion_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Recompute("open", metrics.OutcomeOK, time.Millisecond)
		m.RateLookup(true)
		m.ConversionFailed("USD", "EUR")
		m.RPC("x", "ok")
		m.PlanSize(1)
	})
}
