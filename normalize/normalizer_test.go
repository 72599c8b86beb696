package normalize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const testBaseURL = "http://localhost:5000/api"

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 123000000, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(testBaseURL, func() time.Time { return fixedNow })
}

func ok(body string) *RawResponse {
	return &RawResponse{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}
}

func asError(t *testing.T, err error) *Error {
	t.Helper()
	var normalized *Error
	assert.Assert(t, errors.As(err, &normalized), "expected *Error, got %T", err)
	return normalized
}

func TestEnvelopeSuccessWithData(t *testing.T) {
	n := newTestNormalizer()
	cases := []string{
		`[1,2,3]`,
		`{"id":"p-1","name":"Rice","tags":["grain"],"stock":{"warehouse":12}}`,
		`42`,
		`"plain"`,
		`false`,
		`null`,
	}
	for _, data := range cases {
		t.Run(data, func(t *testing.T) {
			payload, err := n.Normalize(ok(`{"success":true,"data":`+data+`,"message":"ok"}`), nil)
			assert.NilError(t, err)
			assert.Equal(t, false, payload.Acknowledged())
			assert.Equal(t, data, string(payload.Raw()))
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	type product struct {
		ID     string         `json:"id"`
		Price  float64        `json:"price"`
		Labels []string       `json:"labels"`
		Attrs  map[string]any `json:"attrs"`
	}
	want := product{ID: "sku-9", Price: 12.5, Labels: []string{"frozen", "bulk"}, Attrs: map[string]any{"origin": "NZ"}}
	payload, err := newTestNormalizer().Normalize(ok(`{"success":true,"data":{"id":"sku-9","price":12.5,"labels":["frozen","bulk"],"attrs":{"origin":"NZ"}}}`), nil)
	assert.NilError(t, err)
	got, err := Decode[product](payload)
	assert.NilError(t, err)
	assert.DeepEqual(t, want, got)
}

func TestEnvelopeSuccessWithoutData(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(ok(`{"success":true,"message":"Product deleted"}`), nil)
	assert.NilError(t, err)
	assert.Equal(t, true, payload.Acknowledged())
	assert.Equal(t, "true", string(payload.Raw()))
	ack, err := Decode[bool](payload)
	assert.NilError(t, err)
	assert.Equal(t, true, ack)
}

func TestFailedCallHasNoPayload(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(nil, errors.New("boom"))
	assert.Assert(t, err != nil)
	assert.Equal(t, false, payload.Acknowledged())
	assert.Equal(t, true, payload.Empty())
	assert.Equal(t, "null", payload.String())
}

func TestBareResponse(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(ok(`{"status":"healthy","uptime":123}`), nil)
	assert.NilError(t, err)
	assert.Equal(t, "healthy", payload.Get("status").String())
	assert.Equal(t, int64(123), payload.Get("uptime").Int())
	assert.Equal(t, `{"status":"healthy","uptime":123}`, payload.String())
}

func TestBareTextResponse(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(ok("OK"), nil)
	assert.NilError(t, err)
	s, err := Decode[string](payload)
	assert.NilError(t, err)
	assert.Equal(t, "OK", s)
}

func TestEmptySuccessBody(t *testing.T) {
	for _, body := range []string{"", "null", "  \n"} {
		payload, err := newTestNormalizer().Normalize(ok(body), nil)
		assert.NilError(t, err)
		assert.Equal(t, true, payload.Acknowledged(), "body %q", body)
	}
	payload, err := newTestNormalizer().Normalize(nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, true, payload.Acknowledged())
}

func TestEnvelopeFailureAtOK(t *testing.T) {
	_, err := newTestNormalizer().Normalize(ok(`{"success":false,"message":"Validation failed","error":"INVALID_DATA"}`), nil)
	normalized := asError(t, err)
	assert.Equal(t, "Validation failed", normalized.Message)
	assert.Equal(t, "INVALID_DATA", normalized.Code)
	assert.Equal(t, "2024-03-01T10:30:00.123Z", normalized.Timestamp)
	assert.Equal(t, KindApplication, normalized.Kind)
}

func TestEnvelopeFailureWithoutMessage(t *testing.T) {
	_, err := newTestNormalizer().Normalize(ok(`{"success":false}`), nil)
	normalized := asError(t, err)
	assert.Equal(t, DefaultFailureMessage, normalized.Message)
	assert.Equal(t, "", normalized.Code)
}

func TestEnvelopeFailureAtErrorStatus(t *testing.T) {
	n := newTestNormalizer()
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		err := n.Failure(&RawFailure{
			StatusCode: status,
			Body:       []byte(`{"success":false,"message":"Validation failed","error":"INVALID_DATA"}`),
		})
		assert.Equal(t, "Validation failed", err.Message)
		assert.Equal(t, "INVALID_DATA", err.Code)
		assert.Equal(t, status, err.Status)
	}

	cases := []struct {
		status  int
		body    string
		message string
		code    string
	}{
		{http.StatusUnauthorized, `{"success":false,"error":"Token expired"}`, "Token expired", ""},
		{http.StatusBadRequest, `{"success":false,"message":"Invalid","code":"E42"}`, "Invalid", "E42"},
		{http.StatusBadRequest, `{"success":false,"errorMessage":"Bad qty","errorCode":"QTY"}`, "Bad qty", "QTY"},
		{http.StatusConflict, `{"success":false,"msg":"Taken","statusCode":409}`, "Taken", "409"},
		{http.StatusBadRequest, `{"success":false}`, "Request failed with status code 400", ""},
	}
	for _, c := range cases {
		err := n.Failure(&RawFailure{StatusCode: c.status, Body: []byte(c.body)})
		assert.Equal(t, c.message, err.Message, c.body)
		assert.Equal(t, c.code, err.Code, c.body)
	}
}

func TestMalformedFailureBody(t *testing.T) {
	n := newTestNormalizer()
	err := n.Failure(&RawFailure{StatusCode: http.StatusInternalServerError, Body: []byte("Internal server error")})
	assert.Equal(t, "Internal server error", err.Message)
	assert.Equal(t, KindMalformedUpstream, err.Kind)

	err = n.Failure(&RawFailure{StatusCode: http.StatusInternalServerError, Body: []byte(`"Internal server error"`)})
	assert.Equal(t, "Internal server error", err.Message)

	err = n.Failure(&RawFailure{StatusCode: http.StatusInternalServerError, Body: []byte("Internal server error\n")})
	assert.Equal(t, "Internal server error", err.Message)
}

func TestStructuredFailureMessagePriority(t *testing.T) {
	cases := []struct {
		body    string
		message string
		code    string
	}{
		{`{"message":"m","error":"e","errorMessage":"em","msg":"x","code":"C","errorCode":"EC","statusCode":400}`, "m", "C"},
		{`{"error":"e","errorMessage":"em","msg":"x","errorCode":"EC","statusCode":400}`, "e", "EC"},
		{`{"errorMessage":"em","msg":"x","statusCode":400}`, "em", "400"},
		{`{"msg":"x"}`, "x", ""},
		{`{"message":"","detail":"ignored"}`, "Request failed with status code 422", ""},
		{`[1,2]`, "Request failed with status code 422", ""},
	}
	n := newTestNormalizer()
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			err := n.Failure(&RawFailure{StatusCode: http.StatusUnprocessableEntity, Body: []byte(tc.body)})
			assert.Equal(t, tc.message, err.Message)
			assert.Equal(t, tc.code, err.Code)
			assert.Equal(t, KindApplication, err.Kind)
		})
	}
}

func TestStructuredFailureFallsBackToTransportMessage(t *testing.T) {
	err := newTestNormalizer().Failure(&RawFailure{
		StatusCode: http.StatusBadGateway,
		Body:       []byte(`{"detail":"upstream"}`),
		Err:        errors.New("bad gateway from proxy"),
	})
	assert.Equal(t, "bad gateway from proxy", err.Message)
}

func TestAlreadyNormalizedErrorPassesThrough(t *testing.T) {
	n := newTestNormalizer()
	original := &Error{Message: "Order not found", Code: "NOT_FOUND", Timestamp: "2023-12-31T23:59:59.000Z"}
	got := n.Failure(original)
	assert.Assert(t, got == original)
	assert.Equal(t, "Order not found", got.Message)
	assert.Equal(t, "2023-12-31T23:59:59.000Z", got.Timestamp)

	wrapped := fmt.Errorf("nested call: %w", original)
	assert.Assert(t, n.Failure(wrapped) == original)

	_, err := n.Normalize(nil, original)
	assert.Assert(t, err.(*Error) == original)
}

func TestIncompleteErrorIsNormalizedAgain(t *testing.T) {
	got := newTestNormalizer().Failure(&Error{Message: "half built"})
	assert.Equal(t, "half built", got.Message)
	assert.Equal(t, "2024-03-01T10:30:00.123Z", got.Timestamp)
}

func TestDegradedWithData(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(&RawResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`{"success":true,"data":[1,2,3]}`),
	}, nil)
	assert.NilError(t, err)
	numbers, err := Decode[[]int](payload)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int{1, 2, 3}, numbers)
}

func TestDegradedWithoutUsableBody(t *testing.T) {
	n := newTestNormalizer()
	for _, body := range []string{"", "null", `{"success":true}`, "<html>Service Unavailable</html>"} {
		_, err := n.Normalize(&RawResponse{StatusCode: http.StatusServiceUnavailable, Body: []byte(body)}, nil)
		normalized := asError(t, err)
		assert.Equal(t, UnavailableMessage, normalized.Message, "body %q", body)
		assert.Equal(t, KindServiceDegraded, normalized.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, normalized.Status)
	}
}

func TestDegradedBareBody(t *testing.T) {
	payload, err := newTestNormalizer().Normalize(&RawResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`{"status":"degraded","db":"down"}`),
	}, nil)
	assert.NilError(t, err)
	assert.Equal(t, "degraded", payload.Get("status").String())
}

func TestDegradedEnvelopeFailure(t *testing.T) {
	_, err := newTestNormalizer().Normalize(&RawResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`{"success":false,"message":"Maintenance window","error":"MAINTENANCE"}`),
	}, nil)
	normalized := asError(t, err)
	assert.Equal(t, "Maintenance window", normalized.Message)
	assert.Equal(t, "MAINTENANCE", normalized.Code)
}

func TestTransportConditions(t *testing.T) {
	n := newTestNormalizer()

	refused := n.Failure(&RawFailure{Condition: ConditionRefused, Err: errors.New("dial tcp: connection refused")})
	assert.Assert(t, is.Contains(refused.Message, testBaseURL))
	assert.Assert(t, is.Contains(refused.Message, "running"))
	assert.Equal(t, KindConnectionRefused, refused.Kind)

	timeout := n.Failure(&RawFailure{Condition: ConditionTimeout, Err: context.DeadlineExceeded})
	assert.Assert(t, is.Contains(timeout.Message, "too long"))
	assert.Equal(t, KindTimeout, timeout.Kind)
	assert.Assert(t, errors.Is(timeout, context.DeadlineExceeded))

	network := n.Failure(&RawFailure{Condition: ConditionNetwork, Err: errors.New("no such host")})
	assert.Assert(t, is.Contains(network.Message, "CORS"))
	assert.Equal(t, KindNetworkUnreachable, network.Kind)

	open := n.Failure(&RawFailure{Condition: ConditionCircuitOpen, Err: errors.New("circuit breaker is open")})
	assert.Equal(t, UnavailableMessage, open.Message)
	assert.Equal(t, KindServiceDegraded, open.Kind)

	aborted := n.Failure(&RawFailure{Condition: ConditionAborted, Err: context.Canceled})
	assert.Equal(t, "context canceled", aborted.Message)
	assert.Equal(t, KindUnknown, aborted.Kind)
}

func TestUnknownFailure(t *testing.T) {
	n := newTestNormalizer()
	assert.Equal(t, "boom", n.Failure(errors.New("boom")).Message)
	assert.Equal(t, UnexpectedMessage, n.Failure(nil).Message)
	assert.Equal(t, UnexpectedMessage, n.Failure(&RawFailure{}).Message)
}

func TestStatusDerivedKinds(t *testing.T) {
	n := newTestNormalizer()
	unauthorized := n.Failure(&RawFailure{StatusCode: http.StatusUnauthorized})
	assert.Equal(t, KindUnauthorized, unauthorized.Kind)
	assert.Equal(t, "Request failed with status code 401", unauthorized.Message)

	header := http.Header{"X-Ratelimit-Reset": []string{"1700000000"}}
	limited := n.Failure(&RawFailure{StatusCode: http.StatusTooManyRequests, Header: header, Body: []byte(`{"message":"Too many requests"}`)})
	assert.Equal(t, KindRateLimited, limited.Kind)
	assert.Equal(t, "Too many requests", limited.Message)
	assert.Equal(t, "1700000000", limited.Header.Get("X-RateLimit-Reset"))
}

func TestMessageIsNeverEmpty(t *testing.T) {
	n := newTestNormalizer()
	inputs := []error{
		nil,
		&RawFailure{},
		&RawFailure{StatusCode: 500, Body: []byte(`""`)},
		&RawFailure{StatusCode: 500, Body: []byte(`{}`)},
		&RawFailure{StatusCode: 500, Body: []byte(`{"message":{"nested":true}}`)},
		&RawFailure{Body: []byte(`{"success":false,"message":""}`)},
		&Error{},
	}
	for _, in := range inputs {
		assert.Assert(t, n.Failure(in).Message != "", "input %#v", in)
	}
}
