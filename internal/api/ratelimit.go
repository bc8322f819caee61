package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a limiter allowing ratePerInterval requests per
// interval per key, with the given burst.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// limitByIP is a huma middleware that rate limits an operation per client IP.
func (s *Server) limitByIP(ctx huma.Context, next func(huma.Context)) {
	ip := getClientIP(ctx.Context())
	if !s.authRateLimiter.Allow(ip) {
		s.logger.Warn("rate limit exceeded", "ip", ip, "path", ctx.URL().Path)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many requests", domainerrors.RateLimited("too many requests"))
		return
	}
	next(ctx)
}

// allowScore applies the per-user score submission limit.
func (s *Server) allowScore(userID string) error {
	if !s.scoreRateLimiter.Allow(userID) {
		s.logger.Warn("score rate limit exceeded", "user_id", userID)
		return domainerrors.RateLimited("too many score submissions")
	}
	return nil
}
