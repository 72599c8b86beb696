package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
)

type Health struct {
	c Caller
}

// Check returns the health document as served, including the degraded 503 body.
func (r *Health) Check(ctx context.Context) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, "/health")
}
