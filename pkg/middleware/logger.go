package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// NewStructuredLogger logs one line per request with request and response groups.
// It expects chi's RequestID middleware to run first.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t_start := time.Now()
			defer func() {
				status := tww.Status()
				latency := time.Since(t_start)

				reqFields := []any{
					slog.String("id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				}
				if key := r.Header.Get("Idempotency-Key"); key != "" {
					reqFields = append(reqFields, slog.String("idempotency_key", key))
				}
				requestAttrs := slog.Group("request", reqFields...)

				responseAttrs := slog.Group("response",
					slog.Int("status", status),
					slog.Int("bytes", tww.BytesWritten()),
					slog.String("latency", latency.String()),
					slog.Bool("replayed", tww.Header().Get("X-Idempotent-Replay") == "true"),
				)

				switch {
				case status >= 500:
					logger.ErrorContext(r.Context(), "server error", requestAttrs, responseAttrs)
				case status >= 400:
					logger.WarnContext(r.Context(), "request rejected", requestAttrs, responseAttrs)
				default:
					logger.InfoContext(r.Context(), "request completed", requestAttrs, responseAttrs)
				}
			}()

			next.ServeHTTP(tww, r)
		}
		return http.HandlerFunc(fn)
	}
}
