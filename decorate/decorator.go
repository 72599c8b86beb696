// Package decorate attaches the per-request metadata every backend call carries.
package decorate

import (
	"net/http"

	"github.com/RassulYunussov/fdapi/pipeline"
	"github.com/RassulYunussov/fdapi/session"
	"github.com/google/uuid"
)

const (
	DeviceIDHeader      = "X-Device-Id"
	CorrelationIDHeader = "X-Correlation-Id"
	AuthorizationHeader = "Authorization"
)

// Stage sets the device id, a fresh correlation id and, when a credential is held,
// the bearer token. It never retries and never fails.
func Stage(sc *session.Context) pipeline.RequestStage {
	return func(r *http.Request) (*http.Request, error) {
		r.Header.Set(DeviceIDHeader, sc.Device.ID(r.Context()))
		r.Header.Set(CorrelationIDHeader, uuid.NewString())
		if token, ok := sc.Credentials.Token(); ok {
			r.Header.Set(AuthorizationHeader, "Bearer "+token)
		}
		return r, nil
	}
}
