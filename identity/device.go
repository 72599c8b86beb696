package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DeviceKey = "device_id"

// Device is the stable per-installation identifier. It is created on first use,
// persisted in the Store and reused for the lifetime of the process.
type Device struct {
	store  Store
	logger zerolog.Logger
	mu     sync.Mutex
	id     string
}

func NewDevice(store Store, logger zerolog.Logger) *Device {
	return &Device{store: store, logger: logger}
}

// ID never fails: a store that cannot be read or written only costs persistence.
func (d *Device) ID(ctx context.Context) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id != "" {
		return d.id
	}
	// a caller giving up must not cost the installation its persisted id
	ctx = context.WithoutCancel(ctx)
	id, err := d.store.Load(ctx, DeviceKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		d.logger.Warn().Err(err).Msg("unable to load device id")
	}
	if id == "" {
		id = uuid.NewString()
		if err := d.store.Save(ctx, DeviceKey, id); err != nil {
			d.logger.Warn().Err(err).Msg("unable to persist device id")
		}
		d.logger.Debug().Str("device_id", id).Msg("created device id")
	}
	d.id = id
	return id
}
