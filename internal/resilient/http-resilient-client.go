package resilient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/RassulYunussov/fdapi/internal/common"
	local_errors "github.com/RassulYunussov/fdapi/internal/errors"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

type resilientHttpClient struct {
	client   common.EnhancedHttpClient
	maxRetry uint8
	backoff  time.Duration
	ceiling  time.Duration
	logger   zerolog.Logger
}

// CreateResilientHttpClient retries 5xx responses other than the degraded 503 and network
// errors with exponential backoff and jitter. 4xx, context errors and an open breaker are returned at once.
// When retries run out on a 5xx the last response is returned so its body can be read.
func CreateResilientHttpClient(client common.EnhancedHttpClient, retryParameters *RetryParameters, logger zerolog.Logger) common.EnhancedHttpClient {
	if retryParameters == nil {
		return client
	}
	ceiling := retryParameters.MaxBackoff
	if ceiling <= 0 {
		ceiling = DefaultMaxBackoff
	}
	return &resilientHttpClient{
		client:   client,
		maxRetry: retryParameters.MaxRetry,
		backoff:  retryParameters.BackoffTimeout,
		ceiling:  ceiling,
		logger:   logger,
	}
}

func (c *resilientHttpClient) DoResourceRequest(resource string, r *http.Request) (*http.Response, error) {
	var last *http.Response
	attempt := uint(0)
	err := retry.Do(
		func() error {
			discard(last)
			last = nil
			request, err := rewind(r, attempt)
			attempt++
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.client.DoResourceRequest(resource, request)
			if err != nil {
				return err
			}
			last = resp
			if common.IsServerFailure(resp) {
				return local_errors.ErrHttp5xxStatus
			}
			return nil
		},
		c.options(r.Context(), resource)...,
	)
	if err == nil || (errors.Is(err, local_errors.ErrHttp5xxStatus) && last != nil) {
		return last, nil
	}
	discard(last)
	return nil, err
}

func (c *resilientHttpClient) Do(r *http.Request) (*http.Response, error) {
	return c.DoResourceRequest(common.Resource(r), r)
}

func (c *resilientHttpClient) options(ctx context.Context, resource string) []retry.Option {
	options := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetry) + 1),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && retriable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().Str("resource", resource).Uint("attempt", n+1).Err(err).Msg("retrying request")
		}),
	}
	if c.backoff > 1 {
		options = append(options,
			retry.Delay(c.backoff),
			retry.MaxJitter(c.backoff/2),
			retry.MaxDelay(c.ceiling),
			retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		)
	} else {
		options = append(options, retry.Delay(0), retry.DelayType(retry.FixedDelay))
	}
	return options
}

// retriable excludes caller cancellation and an open breaker. A client timeout is
// retried as long as the caller's own context is still live.
func retriable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, gobreaker.ErrOpenState) &&
		!errors.Is(err, gobreaker.ErrTooManyRequests)
}

// rewind returns the request for the given attempt with a fresh body.
func rewind(r *http.Request, attempt uint) (*http.Request, error) {
	if attempt == 0 || r.Body == nil || r.Body == http.NoBody {
		return r, nil
	}
	if r.GetBody == nil {
		return nil, local_errors.ErrRequestNotReplayable
	}
	body, err := r.GetBody()
	if err != nil {
		return nil, err
	}
	request := r.Clone(r.Context())
	request.Body = body
	return request, nil
}

func discard(resp *http.Response) {
	if resp == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
