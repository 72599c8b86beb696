package cb

import (
	"fmt"
	"net/http"
	"time"
)

type CircuitBreakerParameters struct {
	MaxRequests         uint32
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
}

// countedFailure marks a 5xx response as a breaker failure while still handing it back
// to the caller.
type countedFailure struct {
	resp *http.Response
}

func (e *countedFailure) Error() string {
	return fmt.Sprintf("http-%d status counted as circuit breaker failure", e.resp.StatusCode)
}
