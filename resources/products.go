package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
)

const productsPath = "/products"

type Products struct {
	c Caller
}

func (r *Products) List(ctx context.Context, params ListParams) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, productsPath, params.options()...)
}

func (r *Products) Get(ctx context.Context, id string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, item(productsPath, id))
}

func (r *Products) Create(ctx context.Context, product any) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPost, productsPath, fdapi.WithBody(product))
}

func (r *Products) Update(ctx context.Context, id string, product any) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPut, item(productsPath, id), fdapi.WithBody(product))
}

func (r *Products) Delete(ctx context.Context, id string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodDelete, item(productsPath, id))
}
