package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/RassulYunussov/fdapi/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type rateLimitedHttpClient struct {
	client     common.EnhancedHttpClient
	limiter    *rate.Limiter
	parameters RateLimitParameters
	logger     zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	windows map[string]time.Time
}

// CreateRateLimitedHttpClient paces outgoing requests with a token bucket and holds
// requests for a resource whose server window is exhausted until the window resets.
func CreateRateLimitedHttpClient(client common.EnhancedHttpClient, rateLimitParameters *RateLimitParameters, logger zerolog.Logger) common.EnhancedHttpClient {
	if rateLimitParameters == nil {
		return client
	}
	parameters := *rateLimitParameters
	if parameters.ResetHeader == "" {
		parameters.ResetHeader = DefaultResetHeader
	}
	if parameters.RemainingHeader == "" {
		parameters.RemainingHeader = DefaultRemainingHeader
	}
	if parameters.MaxWait <= 0 {
		parameters.MaxWait = DefaultMaxWait
	}
	limit := rate.Inf
	if parameters.RequestsPerSecond > 0 {
		limit = rate.Limit(parameters.RequestsPerSecond)
	}
	if parameters.Burst < 1 {
		parameters.Burst = 1
	}
	return &rateLimitedHttpClient{
		client:     client,
		limiter:    rate.NewLimiter(limit, parameters.Burst),
		parameters: parameters,
		logger:     logger,
		now:        time.Now,
		windows:    make(map[string]time.Time),
	}
}

func (c *rateLimitedHttpClient) DoResourceRequest(resource string, r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := c.waitWindow(ctx, resource); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// the limiter refuses up front when the wait would outlive the deadline
		return nil, fmt.Errorf("%w: %s", context.DeadlineExceeded, err)
	}
	resp, err := c.client.DoResourceRequest(resource, r)
	if err != nil {
		return nil, err
	}
	c.observe(resource, resp)
	return resp, nil
}

func (c *rateLimitedHttpClient) Do(r *http.Request) (*http.Response, error) {
	return c.DoResourceRequest(common.Resource(r), r)
}

func (c *rateLimitedHttpClient) waitWindow(ctx context.Context, resource string) error {
	c.mu.Lock()
	until, ok := c.windows[resource]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	delay := until.Sub(c.now())
	if delay <= 0 {
		c.mu.Lock()
		if c.windows[resource].Equal(until) {
			delete(c.windows, resource)
		}
		c.mu.Unlock()
		return nil
	}
	if delay > c.parameters.MaxWait {
		return nil
	}
	c.logger.Debug().Str("resource", resource).Dur("delay", delay).Msg("waiting for rate limit window")
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// observe records the reset time once the server reports an exhausted window or a 429.
func (c *rateLimitedHttpClient) observe(resource string, resp *http.Response) {
	reset, ok := ParseReset(resp.Header.Get(c.parameters.ResetHeader))
	if !ok {
		return
	}
	exhausted := resp.StatusCode == http.StatusTooManyRequests
	if remaining, err := strconv.Atoi(resp.Header.Get(c.parameters.RemainingHeader)); err == nil && remaining <= 0 {
		exhausted = true
	}
	if !exhausted {
		return
	}
	c.mu.Lock()
	c.windows[resource] = reset
	c.mu.Unlock()
	c.logger.Info().Str("resource", resource).Time("reset", reset).Msg("rate limit window exhausted")
}

// ParseReset reads a reset header carrying epoch seconds.
func ParseReset(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds <= 0 {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}
