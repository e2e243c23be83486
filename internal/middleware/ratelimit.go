package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/places-sync/internal/config"
)

// SyncPathPrefix is the route group guarded by SyncRateLimiter.
const SyncPathPrefix = "/admin/sync/"

// SyncRateLimiter applies a token bucket to the pipeline trigger endpoints. Excess triggers are
// refused, not queued.
func SyncRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Every(cfg.Every()), cfg.Requests)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Path(), SyncPathPrefix) {
				return next(c)
			}
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "sync rate limit exceeded"})
			}
			return next(c)
		}
	}
}
