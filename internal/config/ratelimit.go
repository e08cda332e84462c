package config

import "time"

// RateLimitConfig defines settings for the fixed-window rate limiter.
// Limit requests per Window are allowed per client IP; the limiter
// fails open when Redis is unavailable.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads limiter settings from the environment with
// sensible defaults.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getenv("RATELIMIT_ENABLED", "true") == "true",
		Limit:   atoi(getenv("RATELIMIT_LIMIT", "120")),
		Window:  parseDur(getenv("RATELIMIT_WINDOW", "1m")),
		Prefix:  getenv("RATELIMIT_PREFIX", "ratelimit"),
	}
}
