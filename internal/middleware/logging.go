package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// IdempotencyKeyHeader carries a client-chosen key that makes create RPCs safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, duration, the idempotency key if any, and error codes/messages.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			attrs := []any{"procedure", procedure}
			if key := req.Header().Get(IdempotencyKeyHeader); key != "" {
				attrs = append(attrs, "idempotency_key", key)
			}

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error", append(attrs,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
					)...)
				} else {
					slog.Error("RPC error", append(attrs, "error", err)...)
				}
			} else {
				slog.Info("RPC ok", attrs...)
			}

			return resp, err
		}
	}
}
