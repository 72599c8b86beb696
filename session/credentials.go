package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/RassulYunussov/fdapi/identity"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenKey = "auth_token"
	UserKey  = "user"
)

// Credentials holds the bearer token and the cached profile of the signed-in user.
type Credentials struct {
	store identity.Store
	now   func() time.Time
	mu    sync.RWMutex
	token string
	user  string
}

func NewCredentials(store identity.Store) *Credentials {
	return &Credentials{store: store, now: time.Now}
}

// Restore loads a previously persisted session. A missing session is not an error.
func (c *Credentials) Restore(ctx context.Context) error {
	token, err := c.store.Load(ctx, TokenKey)
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		return err
	}
	user, err := c.store.Load(ctx, UserKey)
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.user = token, user
	return nil
}

func (c *Credentials) SignIn(ctx context.Context, token string, user json.RawMessage) error {
	c.mu.Lock()
	c.token, c.user = token, string(user)
	c.mu.Unlock()
	if err := c.store.Save(ctx, TokenKey, token); err != nil {
		return err
	}
	if len(user) == 0 {
		return c.store.Delete(ctx, UserKey)
	}
	return c.store.Save(ctx, UserKey, string(user))
}

// Token returns the bearer token if one is held and, when it is a JWT, not yet expired.
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" || expired(token, c.now()) {
		return "", false
	}
	return token, true
}

func (c *Credentials) User() json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == "" {
		return nil
	}
	return json.RawMessage(c.user)
}

// Clear drops the token and the cached user, in memory and in the store.
func (c *Credentials) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.token, c.user = "", ""
	c.mu.Unlock()
	return errors.Join(c.store.Delete(ctx, TokenKey), c.store.Delete(ctx, UserKey))
}

// expired only judges tokens that parse as JWTs; opaque tokens are left to the server.
func expired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(now)
}
