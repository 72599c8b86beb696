package fdapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/RassulYunussov/fdapi/identity"
	"github.com/RassulYunussov/fdapi/internal/cb"
	"github.com/RassulYunussov/fdapi/internal/ratelimit"
	"github.com/RassulYunussov/fdapi/internal/resilient"
	"github.com/RassulYunussov/fdapi/pipeline"
	"github.com/rs/zerolog"
)

// Apply retry policy: 5xx and network errors are retried with exponential backoff.
func WithRetry(maxRetry uint8,
	backoffTimeout time.Duration) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.retryParameters = &resilient.RetryParameters{
			MaxRetry:       maxRetry,
			BackoffTimeout: backoffTimeout,
		}
		return h
	}
}

// Apply circuit breaker policy, one breaker per method and path.
// https://github.com/sony/gobreaker
func WithCircuitBreaker(maxRequests uint32,
	consecutiveFailures uint32,
	interval time.Duration,
	timeout time.Duration) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.circuitBreakerParameters = &cb.CircuitBreakerParameters{
			MaxRequests:         maxRequests,
			ConsecutiveFailures: consecutiveFailures,
			Interval:            interval,
			Timeout:             timeout,
		}
		return h
	}
}

// Apply client-side rate limiting. requestsPerSecond of zero only honors the server's
// X-RateLimit-Remaining/X-RateLimit-Reset windows.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		if h.rateLimitParameters == nil {
			h.rateLimitParameters = new(ratelimit.RateLimitParameters)
		}
		h.rateLimitParameters.RequestsPerSecond = requestsPerSecond
		h.rateLimitParameters.Burst = burst
		return h
	}
}

// Override the rate limit header names the server uses.
func WithRateLimitHeaders(resetHeader, remainingHeader string) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		if h.rateLimitParameters == nil {
			h.rateLimitParameters = new(ratelimit.RateLimitParameters)
		}
		h.rateLimitParameters.ResetHeader = resetHeader
		h.rateLimitParameters.RemainingHeader = remainingHeader
		return h
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.logger = logger
		return h
	}
}

// Persist device id and credentials in store. Defaults to memory.
func WithStore(store identity.Store) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.store = store
		return h
	}
}

// Called after a 401 has cleared the session.
func WithSignInRedirect(redirect func()) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.redirect = redirect
		return h
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.httpClient = client
		return h
	}
}

// Extra request stages, run after the standard headers are set.
func WithRequestStage(stages ...pipeline.RequestStage) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.requestStages = append(h.requestStages, stages...)
		return h
	}
}

// Extra error stages, run after the rate limit hint is folded in.
func WithErrorStage(stages ...pipeline.ErrorStage) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.errorStages = append(h.errorStages, stages...)
		return h
	}
}

// Clock used for error timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.now = now
		return h
	}
}

// Location the rate limit reset time is rendered in.
func WithLocation(location *time.Location) Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.location = location
		return h
	}
}

// Disable sharing of identical in-flight GETs.
func WithoutDeduplication() Option {
	return func(h *clientCreationParameters) *clientCreationParameters {
		h.deduplicate = false
		return h
	}
}

func WithQuery(query url.Values) CallOption {
	return func(p *callParameters) {
		if p.query == nil {
			p.query = url.Values{}
		}
		for k, values := range query {
			for _, v := range values {
				p.query.Add(k, v)
			}
		}
	}
}

func WithQueryParam(key, value string) CallOption {
	return func(p *callParameters) {
		if value == "" {
			return
		}
		if p.query == nil {
			p.query = url.Values{}
		}
		p.query.Add(key, value)
	}
}

// WithBody sends v as JSON.
func WithBody(v any) CallOption {
	return func(p *callParameters) {
		p.body = v
	}
}

// WithRawBody sends pre-encoded JSON.
func WithRawBody(raw []byte) CallOption {
	return func(p *callParameters) {
		p.raw = raw
	}
}

// WithBodyBuilder sends the JSON returned by build. A build error fails the call
// like any other.
func WithBodyBuilder(build func() ([]byte, error)) CallOption {
	return func(p *callParameters) {
		p.build = build
	}
}

func WithHeader(key, value string) CallOption {
	return func(p *callParameters) {
		if p.header == nil {
			p.header = http.Header{}
		}
		p.header.Add(key, value)
	}
}
