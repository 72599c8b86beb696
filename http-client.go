// Package fdapi is the client for the food-distribution admin API. Every call resolves with
// a Payload or fails with an *Error carrying a human-readable message.
package fdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RassulYunussov/fdapi/decorate"
	"github.com/RassulYunussov/fdapi/identity"
	"github.com/RassulYunussov/fdapi/internal/cb"
	"github.com/RassulYunussov/fdapi/internal/noop"
	"github.com/RassulYunussov/fdapi/internal/ratelimit"
	"github.com/RassulYunussov/fdapi/internal/resilient"
	"github.com/RassulYunussov/fdapi/internal/transport"
	"github.com/RassulYunussov/fdapi/normalize"
	"github.com/RassulYunussov/fdapi/pipeline"
	"github.com/RassulYunussov/fdapi/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type (
	Payload = normalize.Payload
	Error   = normalize.Error
	Option  = func(*clientCreationParameters) *clientCreationParameters
)

// CallOption adjusts a single call.
type CallOption func(*callParameters)

// Client calls the admin API through the decorator, transport and normalizer pipeline.
type Client interface {
	Call(ctx context.Context, method, path string, opts ...CallOption) (Payload, error)
	Get(ctx context.Context, path string, opts ...CallOption) (Payload, error)
	Post(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error)
	Put(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error)
	Patch(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error)
	Delete(ctx context.Context, path string, opts ...CallOption) (Payload, error)
	Session() *session.Context
	BaseURL() string
}

type client struct {
	base     *url.URL
	timeout  time.Duration
	session  *session.Context
	pipeline *pipeline.Pipeline
	inflight *singleflight.Group
	logger   zerolog.Logger
}

// Create builds a client for baseURL. timeout bounds every call including its retries.
// The transport stack is base client, rate limiter, circuit breaker, retry policy.
func Create(baseURL string, timeout time.Duration, opts ...Option) (Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	parameters := defaultParameters()
	for _, o := range opts {
		parameters = o(parameters)
	}
	if parameters.store == nil {
		parameters.store = identity.NewMemoryStore()
	}
	logger := parameters.logger.With().Str("component", "fdapi").Logger()

	sc := session.NewContext(parameters.store, logger)
	if err := sc.Credentials.Restore(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to restore session: %w", err)
	}

	doer := noop.CreateNoOpHttpClient(parameters.httpClient, timeout, logger)
	doer = ratelimit.CreateRateLimitedHttpClient(doer, parameters.rateLimitParameters, logger)
	doer = cb.CreateCircuitBreakerHttpClient(doer, parameters.circuitBreakerParameters, logger)
	doer = resilient.CreateResilientHttpClient(doer, parameters.retryParameters, logger)

	reactor := session.NewReactor(sc.Credentials, parameters.redirect, logger).WithLocation(parameters.location)
	if parameters.rateLimitParameters != nil {
		reactor.WithResetHeader(parameters.rateLimitParameters.ResetHeader)
	}
	p := pipeline.New(transport.New(doer), normalize.New(base.String(), parameters.now)).
		UseRequest(decorate.Stage(sc)).
		UseRequest(parameters.requestStages...).
		UseOutcome(reactor.ObserveOutcome).
		UseError(reactor.FoldRateLimit).
		UseError(parameters.errorStages...)

	c := &client{
		base:     base,
		timeout:  timeout,
		session:  sc,
		pipeline: p,
		logger:   logger,
	}
	if parameters.deduplicate {
		c.inflight = new(singleflight.Group)
	}
	return c, nil
}

func (c *client) Call(ctx context.Context, method, path string, opts ...CallOption) (Payload, error) {
	parameters := new(callParameters)
	for _, o := range opts {
		o(parameters)
	}
	u, err := resolve(c.base, path, parameters.query)
	if err != nil {
		return Payload{}, c.pipeline.Fail(err)
	}
	if key, ok := dedupKey(method, u, parameters); ok && c.inflight != nil {
		v, err, shared := c.inflight.Do(key, func() (any, error) {
			return c.execute(ctx, method, u, parameters)
		})
		if shared {
			c.logger.Debug().Str("key", key).Msg("shared in-flight response")
		}
		return v.(Payload), err
	}
	return c.execute(ctx, method, u, parameters)
}

func (c *client) execute(ctx context.Context, method string, u *url.URL, parameters *callParameters) (Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	body, err := encode(parameters)
	if err != nil {
		return Payload{}, c.pipeline.Fail(err)
	}
	request, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return Payload{}, c.pipeline.Fail(err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for k, values := range parameters.header {
		for _, v := range values {
			request.Header.Add(k, v)
		}
	}
	return c.pipeline.Execute(request)
}

func (c *client) Get(ctx context.Context, path string, opts ...CallOption) (Payload, error) {
	return c.Call(ctx, http.MethodGet, path, opts...)
}

func (c *client) Post(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error) {
	return c.Call(ctx, http.MethodPost, path, append(opts, WithBody(body))...)
}

func (c *client) Put(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error) {
	return c.Call(ctx, http.MethodPut, path, append(opts, WithBody(body))...)
}

func (c *client) Patch(ctx context.Context, path string, body any, opts ...CallOption) (Payload, error) {
	return c.Call(ctx, http.MethodPatch, path, append(opts, WithBody(body))...)
}

func (c *client) Delete(ctx context.Context, path string, opts ...CallOption) (Payload, error) {
	return c.Call(ctx, http.MethodDelete, path, opts...)
}

func (c *client) Session() *session.Context {
	return c.session
}

func (c *client) BaseURL() string {
	return c.base.String()
}

func encode(parameters *callParameters) (io.Reader, error) {
	switch {
	case parameters.build != nil:
		raw, err := parameters.build()
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(raw), nil
	case parameters.raw != nil:
		return bytes.NewReader(parameters.raw), nil
	case parameters.body != nil:
		raw, err := json.Marshal(parameters.body)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(raw), nil
	}
	return nil, nil
}
