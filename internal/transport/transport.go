// Package transport adapts the decorated http stack to the normalizer's raw shapes.
package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/RassulYunussov/fdapi/internal/common"
	"github.com/RassulYunussov/fdapi/normalize"
	"github.com/sony/gobreaker/v2"
)

// maxBodySize caps how much of a response body is buffered.
const maxBodySize = 16 << 20

type Transport struct {
	client common.EnhancedHttpClient
}

func New(client common.EnhancedHttpClient) *Transport {
	return &Transport{client: client}
}

// RoundTrip performs the request and buffers the body. 4xx and 5xx other than 503 are
// raised as *normalize.RawFailure, as is any failure before a response arrived.
func (t *Transport) RoundTrip(r *http.Request) (*normalize.RawResponse, error) {
	resp, err := t.client.Do(r)
	if err != nil {
		return nil, &normalize.RawFailure{Condition: Condition(err), Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &normalize.RawFailure{StatusCode: resp.StatusCode, Header: resp.Header, Condition: Condition(err), Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, &normalize.RawFailure{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	}
	return &normalize.RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Condition tags a transport error. Errors that did not come from the network at all
// are left untagged.
func Condition(err error) normalize.Condition {
	var netErr net.Error
	switch {
	case err == nil:
		return normalize.ConditionNone
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return normalize.ConditionCircuitOpen
	case errors.Is(err, context.Canceled):
		return normalize.ConditionAborted
	case errors.Is(err, context.DeadlineExceeded):
		return normalize.ConditionTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return normalize.ConditionRefused
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return normalize.ConditionTimeout
		}
		return normalize.ConditionNetwork
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return normalize.ConditionNetwork
	}
	return normalize.ConditionNone
}
