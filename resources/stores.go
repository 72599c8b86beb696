package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
)

const storesPath = "/stores"

type Stores struct {
	c Caller
}

func (r *Stores) List(ctx context.Context, params ListParams) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, storesPath, params.options()...)
}

func (r *Stores) Get(ctx context.Context, id string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, item(storesPath, id))
}

func (r *Stores) Create(ctx context.Context, store any) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPost, storesPath, fdapi.WithBody(store))
}

func (r *Stores) Update(ctx context.Context, id string, store any) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPut, item(storesPath, id), fdapi.WithBody(store))
}

func (r *Stores) Delete(ctx context.Context, id string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodDelete, item(storesPath, id))
}
