// Package pipeline composes request and outcome transforms around a single transport call.
package pipeline

import (
	"net/http"

	"github.com/RassulYunussov/fdapi/normalize"
)

// Transport issues one HTTP request. 4xx/5xx other than 503 come back as *normalize.RawFailure.
type Transport interface {
	RoundTrip(r *http.Request) (*normalize.RawResponse, error)
}

type TransportFunc func(r *http.Request) (*normalize.RawResponse, error)

func (f TransportFunc) RoundTrip(r *http.Request) (*normalize.RawResponse, error) {
	return f(r)
}

// RequestStage enriches an outgoing request. An error aborts the call.
type RequestStage func(r *http.Request) (*http.Request, error)

// OutcomeStage observes or rewrites the raw transport outcome before normalization.
type OutcomeStage func(r *http.Request, resp *normalize.RawResponse, err error) (*normalize.RawResponse, error)

// ErrorStage rewrites a normalized error before it reaches the caller.
type ErrorStage func(err *normalize.Error) *normalize.Error

type Pipeline struct {
	transport  Transport
	normalizer *normalize.Normalizer
	requests   []RequestStage
	outcomes   []OutcomeStage
	errors     []ErrorStage
}

func New(transport Transport, normalizer *normalize.Normalizer) *Pipeline {
	return &Pipeline{transport: transport, normalizer: normalizer}
}

func (p *Pipeline) UseRequest(stages ...RequestStage) *Pipeline {
	p.requests = append(p.requests, stages...)
	return p
}

func (p *Pipeline) UseOutcome(stages ...OutcomeStage) *Pipeline {
	p.outcomes = append(p.outcomes, stages...)
	return p
}

func (p *Pipeline) UseError(stages ...ErrorStage) *Pipeline {
	p.errors = append(p.errors, stages...)
	return p
}

// Execute runs request stages in order, the transport, outcome stages in order and
// finally the normalizer. The returned error is always a *normalize.Error.
func (p *Pipeline) Execute(r *http.Request) (normalize.Payload, error) {
	var err error
	for _, stage := range p.requests {
		if r, err = stage(r); err != nil {
			return normalize.Payload{}, p.Fail(err)
		}
	}
	resp, err := p.transport.RoundTrip(r)
	for _, stage := range p.outcomes {
		resp, err = stage(r, resp, err)
	}
	payload, err := p.normalizer.Normalize(resp, err)
	if err != nil {
		return normalize.Payload{}, p.Fail(err)
	}
	return payload, nil
}

// Fail normalizes err and passes it through the error stages.
func (p *Pipeline) Fail(err error) *normalize.Error {
	normalized := p.normalizer.Failure(err)
	for _, stage := range p.errors {
		normalized = stage(normalized)
	}
	return normalized
}
