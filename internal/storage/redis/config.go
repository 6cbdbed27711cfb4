package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// AttemptTTL bounds how long per-client failure records are kept. The
	// lockout window only ever reads the trailing 15 minutes, so anything
	// comfortably older can expire.
	AttemptTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		AttemptTTL:   24 * time.Hour,
	}
}
