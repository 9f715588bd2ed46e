package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/auth"
)

type contextKey string

const usernameKey contextKey = "username"

// UsernameFromContext returns the identity placed by RequireAuth.
func UsernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

const tokenCookie = "token"

// RequireAuth verifies the session cookie and stores the username in the
// request context. A missing token gets 401, a bad or expired one 403.
func RequireAuth(tokens *auth.TokenService, log *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(rw http.ResponseWriter, r *http.Request) {
			raw := ""
			if c, err := r.Cookie(tokenCookie); err == nil {
				raw = c.Value
			}
			username, err := tokens.Verify(raw)
			if err != nil {
				log.Info("auth failed", zap.Error(err))
				if errors.Is(err, auth.ErrNoToken) {
					writeError(rw, http.StatusUnauthorized, "authentication required")
					return
				}
				writeError(rw, http.StatusForbidden, "invalid token")
				return
			}
			next(rw, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs one line per request with method, path, status and
// duration.
func RequestLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("dur", time.Since(start)),
			)
		})
	}
}

// Recover turns a handler panic into a 500 instead of killing the server.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeError(rw, http.StatusInternalServerError, "server error")
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
