package backend

import "time"

// Config holds the settings for the onboarding REST backend.
type Config struct {
	BaseURL   string
	TimeoutMs int
	LogCalls  bool
}

// DefaultConfig returns the production backend with a 10 second timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.yolearn.ai",
		TimeoutMs: 10000,
		LogCalls:  true,
	}
}

// Timeout is the per-call deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return time.Duration(DefaultConfig().TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
