package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Every returns the minimum spacing between two requests.
func (r RateLimitConfig) Every() time.Duration {
	if r.Requests <= 0 || r.Interval <= 0 {
		return 0
	}
	return r.Interval / time.Duration(r.Requests)
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	Port            string
	TokenTTL        time.Duration
	RateLimitSync   RateLimitConfig
	GoogleAPIKey    string
	YelpAPIKey      string
	GoogleRateLimit RateLimitConfig
	YelpRateLimit   RateLimitConfig
	ProviderTimeout time.Duration
	MatchThreshold  float64
	MatchBatchLimit int
	RetentionWindow time.Duration
	SweepInterval   time.Duration
	Cities          []string
	PhoneRegion     string
	Region          *RegionConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		Port:            getEnv("PORT", "8080"),
		TokenTTL:        parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		GoogleAPIKey:    strings.TrimSpace(os.Getenv("GOOGLE_PLACES_API_KEY")),
		YelpAPIKey:      strings.TrimSpace(os.Getenv("YELP_API_KEY")),
		ProviderTimeout: parseDuration(getEnv("PROVIDER_TIMEOUT", "15s"), 15*time.Second),
		RetentionWindow: parseDuration(getEnv("RETENTION_WINDOW", "336h"), 14*24*time.Hour),
		SweepInterval:   parseDuration(getEnv("SWEEP_INTERVAL", "24h"), 24*time.Hour),
		Cities:          splitList(getEnv("SYNC_CITIES", "Vancouver,Surrey,Burnaby,Richmond")),
		PhoneRegion:     strings.ToUpper(getEnv("PHONE_REGION", "CA")),
	}

	var err error
	if cfg.RateLimitSync, err = parseRateLimit(getEnv("RATE_LIMIT_SYNC", "5/min")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SYNC value: %w", err)
	}
	if cfg.GoogleRateLimit, err = parseRateLimit(getEnv("GOOGLE_RATE_LIMIT", "10/sec")); err != nil {
		return nil, fmt.Errorf("invalid GOOGLE_RATE_LIMIT value: %w", err)
	}
	if cfg.YelpRateLimit, err = parseRateLimit(getEnv("YELP_RATE_LIMIT", "5/sec")); err != nil {
		return nil, fmt.Errorf("invalid YELP_RATE_LIMIT value: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("MATCH_THRESHOLD", "0.85"), 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("invalid MATCH_THRESHOLD value: must be within (0, 1]")
	}
	cfg.MatchThreshold = threshold

	limit, err := strconv.Atoi(getEnv("MATCH_BATCH_LIMIT", "50"))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("invalid MATCH_BATCH_LIMIT value: must be a positive integer")
	}
	cfg.MatchBatchLimit = limit

	region, err := LoadRegion(os.Getenv("REGION_CONFIG"))
	if err != nil {
		return nil, err
	}
	cfg.Region = region

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
