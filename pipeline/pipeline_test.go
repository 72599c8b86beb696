package pipeline

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/RassulYunussov/fdapi/normalize"
	"gotest.tools/v3/assert"
)

func newNormalizer() *normalize.Normalizer {
	return normalize.New("http://api.test", func() time.Time { return time.Unix(0, 0) })
}

func TestStagesRunInOrder(t *testing.T) {
	var trace []string
	transport := TransportFunc(func(r *http.Request) (*normalize.RawResponse, error) {
		trace = append(trace, "transport:"+r.Header.Get("X-Stage"))
		return &normalize.RawResponse{StatusCode: http.StatusOK, Body: []byte(`{"success":true,"data":{"id":1}}`)}, nil
	})
	p := New(transport, newNormalizer()).
		UseRequest(
			func(r *http.Request) (*http.Request, error) {
				trace = append(trace, "request-1")
				r.Header.Set("X-Stage", "one")
				return r, nil
			},
			func(r *http.Request) (*http.Request, error) {
				trace = append(trace, "request-2")
				r.Header.Set("X-Stage", r.Header.Get("X-Stage")+"+two")
				return r, nil
			},
		).
		UseOutcome(func(r *http.Request, resp *normalize.RawResponse, err error) (*normalize.RawResponse, error) {
			trace = append(trace, "outcome")
			return resp, err
		})

	request, _ := http.NewRequest(http.MethodGet, "http://api.test/products", nil)
	payload, err := p.Execute(request)
	assert.NilError(t, err)
	assert.Equal(t, int64(1), payload.Get("id").Int())
	assert.DeepEqual(t, []string{"request-1", "request-2", "transport:one+two", "outcome"}, trace)
}

func TestRequestStageErrorIsNormalized(t *testing.T) {
	called := false
	transport := TransportFunc(func(r *http.Request) (*normalize.RawResponse, error) {
		called = true
		return nil, nil
	})
	p := New(transport, newNormalizer()).UseRequest(func(r *http.Request) (*http.Request, error) {
		return nil, errors.New("credential store unavailable")
	})
	request, _ := http.NewRequest(http.MethodGet, "http://api.test/orders", nil)
	_, err := p.Execute(request)
	var normalized *normalize.Error
	assert.Assert(t, errors.As(err, &normalized))
	assert.Equal(t, "credential store unavailable", normalized.Message)
	assert.Equal(t, false, called)
}

func TestOutcomeStageSeesRawFailure(t *testing.T) {
	var seen int
	transport := TransportFunc(func(r *http.Request) (*normalize.RawResponse, error) {
		return nil, &normalize.RawFailure{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"Token expired"}`)}
	})
	p := New(transport, newNormalizer()).UseOutcome(func(r *http.Request, resp *normalize.RawResponse, err error) (*normalize.RawResponse, error) {
		var raw *normalize.RawFailure
		if errors.As(err, &raw) {
			seen = raw.StatusCode
		}
		return resp, err
	})
	request, _ := http.NewRequest(http.MethodGet, "http://api.test/me", nil)
	_, err := p.Execute(request)
	assert.Equal(t, http.StatusUnauthorized, seen)
	assert.Equal(t, "Token expired", err.Error())
}

func TestErrorStagesRewriteNormalizedError(t *testing.T) {
	transport := TransportFunc(func(r *http.Request) (*normalize.RawResponse, error) {
		return &normalize.RawResponse{StatusCode: http.StatusOK, Body: []byte(`{"success":false,"message":"Duplicate SKU","error":"DUPLICATE"}`)}, nil
	})
	p := New(transport, newNormalizer()).UseError(func(err *normalize.Error) *normalize.Error {
		return err.WithMessage("Create product: " + err.Message)
	})
	request, _ := http.NewRequest(http.MethodPost, "http://api.test/products", nil)
	_, err := p.Execute(request)
	normalized := err.(*normalize.Error)
	assert.Equal(t, "Create product: Duplicate SKU", normalized.Message)
	assert.Equal(t, "DUPLICATE", normalized.Code)
}
