package state

import (
	"sync"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// Connections holds the list of established connections, refreshed from
// the server whenever the connections view opens or a request is accepted.
type Connections struct {
	mu   sync.RWMutex
	list []domain.Profile
	bus  *bus.Bus
}

// NewConnections creates an empty connections store.
func NewConnections(b *bus.Bus) *Connections {
	return &Connections{bus: b}
}

// Set replaces the list with a fresh server snapshot.
func (c *Connections) Set(list []domain.Profile) {
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	if c.bus != nil {
		c.bus.Publish("connections.changed", len(list))
	}
}

// Get returns the connection with the given user ID, or false.
func (c *Connections) Get(id string) (domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.list {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Profile{}, false
}

// Snapshot returns a copy of the connections in order.
func (c *Connections) Snapshot() []domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Profile, len(c.list))
	copy(out, c.list)
	return out
}

// Len returns the number of connections.
func (c *Connections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.list)
}
