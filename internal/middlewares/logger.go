package middlewares

import (
	"context"
	"net/http"
	"time"

	"backoffice/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// Logger attaches a request-scoped logger carrying the request id and logs
// every completed request.
func Logger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		logger := zap.L().With(zap.String("request_id", requestID))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		ctx := context.WithValue(r.Context(), models.LoggerKey{}, logger)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info("Request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	}
	return http.HandlerFunc(fn)
}

// GetLogger returns the request-scoped logger, or the global one outside the Logger middleware.
func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(models.LoggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}
