package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/RassulYunussov/fdapi/internal/noop"
	"github.com/RassulYunussov/fdapi/normalize"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gotest.tools/v3/assert"
)

func create(timeout time.Duration) *Transport {
	return New(noop.CreateNoOpHttpClient(nil, timeout, zerolog.Nop()))
}

func getHttpServer(status int, body string) *httptest.Server {
	return httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-RateLimit-Reset", "1709289000")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}),
	)
}

func TestSuccessIsRawResponse(t *testing.T) {
	s := getHttpServer(http.StatusOK, `{"success":true,"data":[1,2]}`)
	defer s.Close()
	request, _ := http.NewRequest(http.MethodGet, s.URL, nil)
	resp, err := create(time.Second).RoundTrip(request)
	assert.NilError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"success":true,"data":[1,2]}`, string(resp.Body))
}

func TestServiceUnavailableIsRawResponse(t *testing.T) {
	s := getHttpServer(http.StatusServiceUnavailable, `{"status":"degraded"}`)
	defer s.Close()
	request, _ := http.NewRequest(http.MethodGet, s.URL, nil)
	resp, err := create(time.Second).RoundTrip(request)
	assert.NilError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestErrorStatusIsRawFailure(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			s := getHttpServer(status, `{"message":"nope"}`)
			defer s.Close()
			request, _ := http.NewRequest(http.MethodGet, s.URL, nil)
			_, err := create(time.Second).RoundTrip(request)
			var raw *normalize.RawFailure
			assert.Assert(t, errors.As(err, &raw))
			assert.Equal(t, status, raw.StatusCode)
			assert.Equal(t, `{"message":"nope"}`, string(raw.Body))
			assert.Equal(t, "1709289000", raw.Header.Get("X-RateLimit-Reset"))
			assert.Equal(t, normalize.ConditionNone, raw.Condition)
			assert.Equal(t, fmt.Sprintf("Request failed with status code %d", status), raw.Error())
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	address := listener.Addr().String()
	listener.Close()
	request, _ := http.NewRequest(http.MethodGet, "http://"+address+"/health", nil)
	_, err = create(time.Second).RoundTrip(request)
	var raw *normalize.RawFailure
	assert.Assert(t, errors.As(err, &raw))
	assert.Equal(t, normalize.ConditionRefused, raw.Condition)
	assert.Equal(t, 0, raw.StatusCode)
}

func TestClientTimeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer s.Close()
	request, _ := http.NewRequest(http.MethodGet, s.URL, nil)
	_, err := create(10 * time.Millisecond).RoundTrip(request)
	var raw *normalize.RawFailure
	assert.Assert(t, errors.As(err, &raw))
	assert.Equal(t, normalize.ConditionTimeout, raw.Condition)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestCondition(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		condition normalize.Condition
	}{
		{"nil", nil, normalize.ConditionNone},
		{"open breaker", gobreaker.ErrOpenState, normalize.ConditionCircuitOpen},
		{"half-open breaker", fmt.Errorf("wrapped: %w", gobreaker.ErrTooManyRequests), normalize.ConditionCircuitOpen},
		{"canceled", &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}, normalize.ConditionAborted},
		{"deadline", &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, normalize.ConditionTimeout},
		{"refused", &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, normalize.ConditionRefused},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutError{}}, normalize.ConditionTimeout},
		{"dns", &url.Error{Op: "Get", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}, normalize.ConditionNetwork},
		{"plain", errors.New("boom"), normalize.ConditionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.condition, Condition(tc.err))
		})
	}
}
