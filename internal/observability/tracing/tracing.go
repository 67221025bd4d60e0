package tracing

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const TraceIDHeader = "X-Trace-Id"

func InjectTraceID(ctx context.Context) context.Context {
	return injectTraceID(ctx, uuid.New().String())
}

func injectTraceID(ctx context.Context, id string) context.Context {
	logger := log.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}

// Middleware gives every request a logger carrying a trace id. A valid
// X-Trace-Id header from the caller is reused.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(TraceIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(TraceIDHeader, id)

		next.ServeHTTP(w, r.WithContext(injectTraceID(r.Context(), id)))
	})
}
