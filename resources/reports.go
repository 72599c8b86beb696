package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/RassulYunussov/fdapi"
)

const (
	reportsPath = "/reports"
	dateLayout  = time.DateOnly
)

type Reports struct {
	c Caller
}

// Period bounds a report. Zero ends are left to the server's default.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) options() []fdapi.CallOption {
	var opts []fdapi.CallOption
	if !p.From.IsZero() {
		opts = append(opts, fdapi.WithQueryParam("from", p.From.Format(dateLayout)))
	}
	if !p.To.IsZero() {
		opts = append(opts, fdapi.WithQueryParam("to", p.To.Format(dateLayout)))
	}
	return opts
}

func (r *Reports) Sales(ctx context.Context, period Period) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, reportsPath+"/sales", period.options()...)
}

func (r *Reports) Inventory(ctx context.Context) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, reportsPath+"/inventory")
}

func (r *Reports) Dashboard(ctx context.Context) (fdapi.Payload, error) {
	return r.c.Call(ctx, http.MethodGet, reportsPath+"/dashboard")
}
