package ratelimit

import "time"

const (
	DefaultResetHeader     = "X-RateLimit-Reset"
	DefaultRemainingHeader = "X-RateLimit-Remaining"
	DefaultMaxWait         = 5 * time.Second
)

type RateLimitParameters struct {
	// RequestsPerSecond of zero disables client-side pacing; server windows are still honored.
	RequestsPerSecond float64
	Burst             int
	// MaxWait bounds how long a request is held for a server window. Longer windows
	// are passed through so the server answers with its own 429.
	MaxWait         time.Duration
	ResetHeader     string
	RemainingHeader string
}
