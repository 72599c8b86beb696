package resilient

import "time"

// RetryParameters configure the retry layer. MaxRetry counts attempts after the first.
type RetryParameters struct {
	MaxRetry       uint8
	BackoffTimeout time.Duration
	// MaxBackoff caps a single delay. Zero means DefaultMaxBackoff.
	MaxBackoff time.Duration
}

const DefaultMaxBackoff = 30 * time.Second
