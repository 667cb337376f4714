package state

import (
	"sync"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// Container bundles all in-memory stores for one client session. Nothing
// here survives a restart; every store is rehydrated from the server.
type Container struct {
	Feed        *Feed
	Inbox       *Inbox
	Connections *Connections

	mu      sync.RWMutex
	profile domain.Profile
	bus     *bus.Bus
}

// NewContainer creates the session stores wired to the given bus.
func NewContainer(b *bus.Bus) *Container {
	return &Container{
		Feed:        NewFeed(b),
		Inbox:       NewInbox(b),
		Connections: NewConnections(b),
		bus:         b,
	}
}

// SetProfile stores the logged-in user's profile.
func (c *Container) SetProfile(p domain.Profile) {
	c.mu.Lock()
	c.profile = p
	c.mu.Unlock()
	if c.bus != nil {
		c.bus.Publish("session.profile_changed", p)
	}
}

// Profile returns the logged-in user's profile.
func (c *Container) Profile() domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// Reset clears everything. Called on logout.
func (c *Container) Reset() {
	c.Feed.Clear()
	c.Inbox.Reset()
	c.Connections.Set(nil)
	c.SetProfile(domain.Profile{})
}
