package normalize

import (
	"fmt"
	"net/http"
)

// RawResponse is a transport completion that was not raised: 2xx/3xx and the degraded 503.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Condition tags a transport-level failure that carries no response body.
type Condition string

const (
	ConditionNone        Condition = ""
	ConditionNetwork     Condition = "network"
	ConditionRefused     Condition = "refused"
	ConditionTimeout     Condition = "timeout"
	ConditionAborted     Condition = "aborted"
	ConditionCircuitOpen Condition = "circuit_open"
)

// RawFailure is what the transport raises for 4xx/5xx statuses and for network failures.
// StatusCode is zero when no response arrived.
type RawFailure struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Condition  Condition
	Err        error
}

func (f *RawFailure) Error() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	if f.StatusCode != 0 {
		return fmt.Sprintf("Request failed with status code %d", f.StatusCode)
	}
	return ""
}

func (f *RawFailure) Unwrap() error {
	return f.Err
}
