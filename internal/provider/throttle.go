package provider

import (
	"golang.org/x/time/rate"

	"github.com/octobees/places-sync/internal/config"
)

// NewLimiter spaces provider calls according to cfg. A zero config disables throttling.
func NewLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	every := cfg.Every()
	if every <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(every), 1)
}
