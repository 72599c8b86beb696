package cb

import (
	"errors"
	"net/http"
	"sync"

	"github.com/RassulYunussov/fdapi/internal/common"
	"github.com/rs/zerolog"
)

type circuitBreakerBackedHttpClient struct {
	client          common.EnhancedHttpClient
	parameters      CircuitBreakerParameters
	logger          zerolog.Logger
	circuitBreakers sync.Map
}

// CreateCircuitBreakerHttpClient keeps one breaker per resource. Without parameters the
// client is returned undecorated.
func CreateCircuitBreakerHttpClient(client common.EnhancedHttpClient, circuitBreakerParameters *CircuitBreakerParameters, logger zerolog.Logger) common.EnhancedHttpClient {
	if circuitBreakerParameters == nil {
		return client
	}
	return &circuitBreakerBackedHttpClient{
		client:     client,
		parameters: *circuitBreakerParameters,
		logger:     logger,
	}
}

func (c *circuitBreakerBackedHttpClient) DoResourceRequest(resource string, r *http.Request) (*http.Response, error) {
	resp, err := c.breakerFor(resource).Execute(func() (*http.Response, error) {
		return c.do(resource, r)
	})
	var counted *countedFailure
	if errors.As(err, &counted) {
		return counted.resp, nil
	}
	return resp, err
}

func (c *circuitBreakerBackedHttpClient) Do(r *http.Request) (*http.Response, error) {
	return c.DoResourceRequest(common.Resource(r), r)
}

func (c *circuitBreakerBackedHttpClient) breakerFor(resource string) *breaker {
	if b, ok := c.circuitBreakers.Load(resource); ok {
		return b.(*breaker)
	}
	b, _ := c.circuitBreakers.LoadOrStore(resource, newBreaker(&c.parameters, resource, c.logger))
	return b.(*breaker)
}

func (c *circuitBreakerBackedHttpClient) do(resource string, r *http.Request) (*http.Response, error) {
	resp, err := c.client.DoResourceRequest(resource, r)
	if err != nil {
		return nil, err
	}
	if !common.IsServerFailure(resp) {
		return resp, nil
	}
	return nil, &countedFailure{resp: resp}
}
