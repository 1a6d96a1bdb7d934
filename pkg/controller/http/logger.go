package http

import (
	"log/slog"
	"net/http"

	"github.com/the-ledger/ledger/pkg/utils/clock"
	"github.com/the-ledger/ledger/pkg/utils/logging"
	"github.com/the-ledger/ledger/pkg/utils/request_id"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, requestID := request_id.Generate(r.Context())
		logger := logging.From(ctx).With("request_id", requestID)
		started := clock.Now(ctx)

		attrs := []any{
			slog.Any("method", r.Method),
			slog.Any("path", r.URL.Path),
			slog.Any("query", r.URL.Query()),
		}

		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(logging.With(ctx, logger)))
		attrs = append(attrs,
			slog.Int("status", sw.status),
			slog.Duration("duration", clock.Since(ctx, started)),
		)

		logger.Info("Access Log", attrs...)
	})
}
