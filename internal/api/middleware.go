package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeySessionID contextKey = "session_id"
	contextKeyClientIP  contextKey = "client_ip"
	contextKeyAuthErr   contextKey = "auth_error"
)

// authMiddleware validates Bearer tokens and stores the user in context.
// Requests without a valid token continue anonymously; handlers that need a
// user call GetUserID. A token that could not be checked at all (store down)
// is not anonymous: the failure is kept in context and returned by
// GetUserID and optionalUserID.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				if domainerrors.Is(err, domainerrors.ErrUnauthorized) {
					next.ServeHTTP(w, r)
					return
				}
				ctx := context.WithValue(r.Context(), contextKeyAuthErr, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, contextKeySessionID, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// GetUserID returns the authenticated user ID from context.
// Returns an UNAUTHENTICATED error if there is none.
func GetUserID(ctx context.Context) (string, error) {
	userID, err := optionalUserID(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", domainerrors.Unauthenticated("user not authenticated")
	}
	return userID, nil
}

// optionalUserID returns the authenticated user ID, or empty for anonymous
// requests. It fails only when the token could not be verified.
func optionalUserID(ctx context.Context) (string, error) {
	if err, ok := ctx.Value(contextKeyAuthErr).(error); ok {
		return "", err
	}
	userID, _ := ctx.Value(contextKeyUserID).(string)
	return userID, nil
}

func getSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(contextKeySessionID).(string)
	return sessionID
}

// clientIPMiddleware stores the caller's address in context. It runs after
// middleware.RealIP, so proxy headers are already applied to RemoteAddr.
func clientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKeyClientIP, ip)))
	})
}

func getClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP).(string)
	return ip
}

// requestLogger logs one line per request with slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
