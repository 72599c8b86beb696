package resources

import (
	"context"
	"net/http"

	"github.com/RassulYunussov/fdapi"
	"github.com/tidwall/sjson"
)

const ordersPath = "/orders"

type Orders struct {
	c Caller
}

func (r *Orders) List(ctx context.Context, params ListParams) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, ordersPath, params.options()...)
}

func (r *Orders) Get(ctx context.Context, id string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, item(ordersPath, id))
}

func (r *Orders) Create(ctx context.Context, order any) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPost, ordersPath, fdapi.WithBody(order))
}

// UpdateStatus moves an order to status. note is sent only when set.
func (r *Orders) UpdateStatus(ctx context.Context, id, status, note string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPatch, item(ordersPath, id)+"/status", fdapi.WithBodyBuilder(func() ([]byte, error) {
		body, err := sjson.SetBytes([]byte(`{}`), "status", status)
		if err != nil || note == "" {
			return body, err
		}
		return sjson.SetBytes(body, "note", note)
	}))
}

func (r *Orders) Cancel(ctx context.Context, id, reason string) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodPost, item(ordersPath, id)+"/cancel", fdapi.WithBodyBuilder(func() ([]byte, error) {
		if reason == "" {
			return []byte(`{}`), nil
		}
		return sjson.SetBytes([]byte(`{}`), "reason", reason)
	}))
}
