// Package session holds the client context created once per process: the device identity,
// the held credentials, and the reactor that tears the session down on 401.
package session

import (
	"github.com/RassulYunussov/fdapi/identity"
	"github.com/rs/zerolog"
)

// Context is shared by every request issued through one client.
type Context struct {
	Store       identity.Store
	Device      *identity.Device
	Credentials *Credentials
}

func NewContext(store identity.Store, logger zerolog.Logger) *Context {
	return &Context{
		Store:       store,
		Device:      identity.NewDevice(store, logger),
		Credentials: NewCredentials(store),
	}
}
