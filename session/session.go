// Package session orchestrates login, logout and startup restore on top of
// the api client and the token store. It holds the signed-in user in memory
// only; tokens live in the store shared with the client.
package session

import (
	"context"
	"sync"

	"campus/client/api"
	"campus/client/token"
)

type Controller struct {
	client *api.Client
	store  token.Store

	mu   sync.RWMutex
	user *api.User
}

// NewController wires the controller to the same store the client reads
// bearer tokens from.
func NewController(client *api.Client, store token.Store) *Controller {
	return &Controller{client: client, store: store}
}

// Login authenticates and persists the returned pair. Failures surface as
// the client's normalized error; nothing is stored on failure.
func (c *Controller) Login(ctx context.Context, email, password string) (*api.User, error) {
	result, err := c.client.Auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, result.Pair); err != nil {
		return nil, err
	}
	c.setUser(&result.User)
	return &result.User, nil
}

// Restore re-establishes a session at startup. No stored access token means
// no user and no error. A transport failure keeps the stored tokens so a
// later retry can still succeed; any other failure clears them and resolves
// with no user.
func (c *Controller) Restore(ctx context.Context) (*api.User, error) {
	pair, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, nil
	}

	user, err := c.client.Auth.Me(ctx)
	if err != nil {
		if api.IsUnreachable(err) {
			return nil, err
		}
		_ = c.store.Clear(ctx)
		c.setUser(nil)
		return nil, nil
	}
	c.setUser(user)
	return user, nil
}

// Logout clears local state unconditionally. The server-side revocation is
// best-effort: an unreachable backend must not keep the user signed in
// locally. Navigation afterwards is the caller's concern.
func (c *Controller) Logout(ctx context.Context) error {
	_ = c.client.Auth.Logout(ctx)
	c.setUser(nil)
	return c.store.Clear(ctx)
}

// Current returns the in-memory user, nil when signed out.
func (c *Controller) Current() *api.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Controller) setUser(user *api.User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}
