// Package tracing provides functions to help integrate logging with tracing.
package tracing

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/loghive/logsearch/slog"
)

// InstrumentHTTP will instrument the given [http.Handler] by adding a
// slog.Logger on the request context. The logger will have `trace_id` added
// to it. Use slog.FromCtx(ctx) to retrieve the logger.
func InstrumentHTTP(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		traceID := req.Header.Get("traceparent")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := CtxWithTraceID(req.Context(), traceID)

		log := slog.FromCtx(ctx).With("trace_id", traceID)
		ctx = slog.NewContext(ctx, log)

		h.ServeHTTP(res, req.WithContext(ctx))
	})
}

// CtxWithTraceID creates a new [context.Context] with the given trace ID
// associated with it. Call [CtxGetTraceID] to retrieve the trace ID.
func CtxWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// CtxGetTraceID gets the trace ID associated with this context.
// Returns the trace ID and true if there is one, empty and false otherwise.
func CtxGetTraceID(ctx context.Context) (string, bool) {
	return ctxget(ctx, traceIDKey)
}

// CtxWithClusterID creates a new [context.Context] with the given cluster ID
// associated with it. Call [CtxGetClusterID] to retrieve the cluster ID.
func CtxWithClusterID(ctx context.Context, clusterID string) context.Context {
	return context.WithValue(ctx, clusterIDKey, clusterID)
}

// CtxGetClusterID gets the cluster ID associated with this context.
// Returns the cluster ID and true if there is one, empty and false otherwise.
func CtxGetClusterID(ctx context.Context) (string, bool) {
	return ctxget(ctx, clusterIDKey)
}

// key is the type used to store data on contexts.
type key int

const (
	traceIDKey key = iota
	clusterIDKey
)

func ctxget(ctx context.Context, k key) (string, bool) {
	str, ok := ctx.Value(k).(string)
	return str, ok
}
