package noop

import (
	"net/http"
	"time"

	"github.com/RassulYunussov/fdapi/internal/common"
	"github.com/rs/zerolog"
)

type noOpHttpClient struct {
	client *http.Client
	logger zerolog.Logger
}

// CreateNoOpHttpClient is the bottom of the stack: one attempt on the wire, logged.
func CreateNoOpHttpClient(client *http.Client, timeout time.Duration, logger zerolog.Logger) common.EnhancedHttpClient {
	base := http.Client{}
	if client != nil {
		base = *client
	}
	if base.Timeout == 0 {
		base.Timeout = timeout
	}
	return &noOpHttpClient{client: &base, logger: logger}
}

func (c *noOpHttpClient) DoResourceRequest(resource string, r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(r)
	event := c.logger.Debug().
		Str("resource", resource).
		Str("correlation_id", r.Header.Get("X-Correlation-Id")).
		Dur("duration", time.Since(start))
	if err != nil {
		event.Err(err).Msg("request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}

func (c *noOpHttpClient) Do(r *http.Request) (*http.Response, error) {
	return c.DoResourceRequest(common.Resource(r), r)
}
