package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
)

type Search struct {
	c Caller
}

// Query searches across resources. kind narrows the search to one resource type when set.
func (r *Search) Query(ctx context.Context, q, kind string, params ListParams) (fdapi.Payload, error) {
	opts := append(params.options(), fdapi.WithQueryParam("q", q), fdapi.WithQueryParam("type", kind))
	return r.c.Call(ctx, http.MethodGet, "/search", opts...)
}
