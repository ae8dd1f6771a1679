package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	slowRequestThreshold = 500 * time.Millisecond
	errorStatusFloor     = 400
)

// Logger logs only slow or failed requests. Fast successful requests are
// dropped to keep log volume down.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			latency := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < errorStatusFloor && latency < slowRequestThreshold {
				return
			}

			fields := []zap.Field{
				zap.Int("status", status),
				zap.Duration("latency", latency),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", GetRequestID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", fields...)
				return
			}
			logger.Warn("request", fields...)
		})
	}
}
