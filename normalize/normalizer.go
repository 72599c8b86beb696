// Package normalize turns every backend response shape and transport failure into either a
// Payload or a *Error.
package normalize

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultFailureMessage = "API request failed"
	UnexpectedMessage     = "An unexpected error occurred"
	UnavailableMessage    = "Service temporarily unavailable"

	networkMessage = "Network error: unable to reach the API server. Check that the server is running and that its CORS configuration allows this client."
	refusedFormat  = "Connection refused: cannot connect to %s. Make sure the API server is running."
	timeoutMessage = "Request timeout: the server took too long to respond."

	// TimestampLayout is ISO-8601 with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Normalizer is stateless apart from the base URL it names in messages and its clock.
type Normalizer struct {
	baseURL string
	now     func() time.Time
}

// New returns a Normalizer. A nil clock means time.Now.
func New(baseURL string, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{baseURL: baseURL, now: now}
}

// Normalize resolves a transport outcome. A non-nil err always yields a *Error.
func (n *Normalizer) Normalize(resp *RawResponse, err error) (Payload, error) {
	if err != nil {
		return Payload{}, n.Failure(err)
	}
	if resp == nil {
		return Acknowledgement(), nil
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return n.degraded(resp)
	}
	return n.success(resp)
}

func (n *Normalizer) success(resp *RawResponse) (Payload, error) {
	body := Classify(resp.Body)
	switch body.Kind {
	case Envelope:
		if !body.Envelope.Success {
			return Payload{}, n.envelopeFailure(body.Envelope, resp.StatusCode, resp.Header, nil)
		}
		if body.Envelope.HasData {
			return payloadOf(body.Envelope.Data.Raw), nil
		}
		return Acknowledgement(), nil
	case Bare:
		return payloadOf(body.Value.Raw), nil
	case Text:
		return textPayload(body), nil
	}
	return Acknowledgement(), nil
}

// degraded answers a 503 with whatever payload can still be extracted.
func (n *Normalizer) degraded(resp *RawResponse) (Payload, error) {
	body := Classify(resp.Body)
	switch body.Kind {
	case Envelope:
		if !body.Envelope.Success {
			return Payload{}, n.envelopeFailure(body.Envelope, resp.StatusCode, resp.Header, nil)
		}
		if body.Envelope.HasData {
			return payloadOf(body.Envelope.Data.Raw), nil
		}
	case Bare:
		return payloadOf(body.Value.Raw), nil
	}
	return Payload{}, n.newError(UnavailableMessage, "", KindServiceDegraded, resp.StatusCode, resp.Header, nil)
}

// Failure normalizes anything raised on the way to or from the backend.
// An error that is already normalized is returned as is.
func (n *Normalizer) Failure(err error) *Error {
	var normalized *Error
	if errors.As(err, &normalized) && normalized.Normalized() {
		return normalized
	}
	var raw *RawFailure
	if !errors.As(err, &raw) {
		raw = &RawFailure{Err: err}
	}
	if body := Classify(raw.Body); body.Kind != Empty {
		return n.fromBody(raw, body, err)
	}
	if raw.Condition != ConditionNone && raw.Condition != ConditionAborted {
		return n.fromCondition(raw, err)
	}
	return n.newError(firstNonEmpty(raw.Error(), UnexpectedMessage), "", kindFor(raw.StatusCode, KindUnknown), raw.StatusCode, raw.Header, err)
}

func (n *Normalizer) fromBody(raw *RawFailure, body Body, cause error) *Error {
	if body.Kind == Text {
		message := firstNonEmpty(body.Text, raw.Error(), DefaultFailureMessage)
		return n.newError(message, "", kindFor(raw.StatusCode, KindMalformedUpstream), raw.StatusCode, raw.Header, cause)
	}
	message := firstNonEmpty(
		firstText(body.Value, "message", "error", "errorMessage", "msg"),
		raw.Error(),
		DefaultFailureMessage,
	)
	code := firstText(body.Value, "code", "errorCode", "statusCode")
	if body.Kind == Envelope && !body.Envelope.Success && code == "" && body.Envelope.Message != "" {
		// a failed envelope with its own message carries the code in "error"
		code = body.Envelope.Error
	}
	return n.newError(message, code, kindFor(raw.StatusCode, KindApplication), raw.StatusCode, raw.Header, cause)
}

func (n *Normalizer) fromCondition(raw *RawFailure, cause error) *Error {
	var message string
	var kind Kind
	switch raw.Condition {
	case ConditionRefused:
		message, kind = fmt.Sprintf(refusedFormat, n.baseURL), KindConnectionRefused
	case ConditionTimeout:
		message, kind = timeoutMessage, KindTimeout
	case ConditionCircuitOpen:
		message, kind = UnavailableMessage, KindServiceDegraded
	default:
		message, kind = networkMessage, KindNetworkUnreachable
	}
	return n.newError(message, "", kindFor(raw.StatusCode, kind), raw.StatusCode, raw.Header, cause)
}

func (n *Normalizer) envelopeFailure(envelope EnvelopeBody, status int, header http.Header, cause error) *Error {
	message := firstNonEmpty(envelope.Message, DefaultFailureMessage)
	return n.newError(message, envelope.Error, kindFor(status, KindApplication), status, header, cause)
}

func (n *Normalizer) newError(message, code string, kind Kind, status int, header http.Header, cause error) *Error {
	return &Error{
		Message:   message,
		Code:      code,
		Timestamp: n.Timestamp(),
		Kind:      kind,
		Status:    status,
		Header:    header,
		cause:     cause,
	}
}

// Timestamp is the current time in TimestampLayout, always UTC.
func (n *Normalizer) Timestamp() string {
	return n.now().UTC().Format(TimestampLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
