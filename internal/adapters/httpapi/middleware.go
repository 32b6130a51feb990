package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/punchclock/internal/ports"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestLogger writes one access log entry per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// requireAdmin checks the bearer token against the administrator token held
// in the secret store. The token is read per request so a rotation applies
// without a restart.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			Error(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			Error(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		if h.secrets == nil {
			Error(w, http.StatusServiceUnavailable, "administrator token is not configured")
			return
		}

		want, err := h.secrets.Get(r.Context(), h.tokenKey)
		if err != nil {
			if errors.Is(err, ports.ErrSecretNotFound) {
				Error(w, http.StatusServiceUnavailable, "administrator token is not configured")
				return
			}
			h.logger.Error("read administrator token", zap.Error(err))
			Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), []byte(want)) != 1 {
			h.logger.Warn("rejected administrator request", zap.String("path", r.URL.Path))
			Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
