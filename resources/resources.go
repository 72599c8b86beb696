// Package resources holds thin per-resource calls. Each returns the normalized result as is.
package resources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RassulYunussov/fdapi"
)

// Caller is satisfied by fdapi.Client.
type Caller interface {
	Call(ctx context.Context, method, path string, opts ...fdapi.CallOption) (fdapi.Payload, error)
}

// API groups every resource behind one caller.
type API struct {
	Products  *Products
	Orders    *Orders
	Stores    *Stores
	Inventory *Inventory
	Search    *Search
	Reports   *Reports
	Health    *Health
}

func New(c Caller) *API {
	return &API{
		Products:  &Products{c: c},
		Orders:    &Orders{c: c},
		Stores:    &Stores{c: c},
		Inventory: &Inventory{c: c},
		Search:    &Search{c: c},
		Reports:   &Reports{c: c},
		Health:    &Health{c: c},
	}
}

// ListParams are the paging and filter parameters list endpoints accept. Zero values are omitted.
type ListParams struct {
	Page    int
	Limit   int
	Sort    string
	Filters map[string]string
}

func (p ListParams) options() []fdapi.CallOption {
	query := url.Values{}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		query.Set("sort", p.Sort)
	}
	for k, v := range p.Filters {
		if v != "" {
			query.Set(k, v)
		}
	}
	if len(query) == 0 {
		return nil
	}
	return []fdapi.CallOption{fdapi.WithQuery(query)}
}

func item(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
