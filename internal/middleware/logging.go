package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// eventScoped is implemented by every request that targets a single event.
type eventScoped interface {
	GetEventId() string
}

// LoggingInterceptor logs each RPC with the chi request id and, when the
// request targets an event, its event id. Caller mistakes (bad input, missing
// rows, precondition failures) log at Warn; everything else that fails logs at
// Error. A nil logger uses slog.Default().
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			log := logger
			if log == nil {
				log = slog.Default()
			}
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := rpcAttrs(ctx, req, time.Since(start))
			if err == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, slog.String("code", code.String()), slog.Any("error", err))
			log.LogAttrs(ctx, levelFor(code), "RPC error", attrs...)
			return resp, err
		}
	}
}

func rpcAttrs(ctx context.Context, req connect.AnyRequest, elapsed time.Duration) []slog.Attr {
	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs, slog.String("procedure", req.Spec().Procedure))
	if id := chimw.GetReqID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if scoped, ok := req.Any().(eventScoped); ok {
		if id := scoped.GetEventId(); id != "" {
			attrs = append(attrs, slog.String("event_id", id))
		}
	}
	return append(attrs, slog.Int64("duration_ms", elapsed.Milliseconds()))
}

func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument,
		connect.CodeNotFound,
		connect.CodeFailedPrecondition,
		connect.CodeAlreadyExists,
		connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
