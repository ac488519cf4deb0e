package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/pkg/api"
)

func call(t *testing.T, interceptor connect.UnaryInterceptorFunc, ctx context.Context, msg any, err error) {
	t.Helper()
	next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		if err != nil {
			return nil, err
		}
		return connect.NewResponse(&api.GetEventResponse{}), nil
	}
	var req connect.AnyRequest
	switch m := msg.(type) {
	case *api.GetEventRequest:
		req = connect.NewRequest(m)
	case *api.CreateEventRequest:
		req = connect.NewRequest(m)
	default:
		t.Fatalf("unsupported message %T", msg)
	}
	_, gotErr := interceptor(next)(ctx, req)
	assert.Equal(t, err, gotErr)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggingInterceptor(t *testing.T) {
	t.Run("request and event ids are logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "host/req-000001")

		call(t, middleware.LoggingInterceptor(logger), ctx, &api.GetEventRequest{EventId: "evt-1"}, nil)

		entry := decode(t, &buf)
		assert.Equal(t, "RPC ok", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "host/req-000001", entry["request_id"])
		assert.Equal(t, "evt-1", entry["event_id"])
		assert.Contains(t, entry, "duration_ms")
	})

	t.Run("requests without an event omit event_id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		call(t, middleware.LoggingInterceptor(logger), context.Background(), &api.CreateEventRequest{Title: "Trip"}, nil)

		entry := decode(t, &buf)
		assert.NotContains(t, entry, "event_id")
		assert.NotContains(t, entry, "request_id")
	})

	t.Run("caller errors log at warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		err := connect.NewError(connect.CodeNotFound, errors.New("event not found"))

		call(t, middleware.LoggingInterceptor(logger), context.Background(), &api.GetEventRequest{EventId: "missing"}, err)

		entry := decode(t, &buf)
		assert.Equal(t, "RPC error", entry["msg"])
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "not_found", entry["code"])
		assert.Equal(t, "missing", entry["event_id"])
	})

	t.Run("server errors log at error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		call(t, middleware.LoggingInterceptor(logger), context.Background(), &api.GetEventRequest{EventId: "evt-1"}, errors.New("disk full"))

		entry := decode(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "unknown", entry["code"])
	})
}

func TestGetEventId_NilRequest(t *testing.T) {
	var req *api.GetEventRequest
	assert.Empty(t, req.GetEventId())
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	interceptor := middleware.MetricsInterceptor(m)

	call(t, interceptor, context.Background(), &api.GetEventRequest{EventId: "evt-1"}, nil)
	call(t, interceptor, context.Background(), &api.GetEventRequest{EventId: "evt-1"},
		connect.NewError(connect.CodeInvalidArgument, errors.New("bad")))

	n, err := testutil.GatherAndCount(reg, "settleup_rpc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
