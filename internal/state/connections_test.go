package state

import (
	"testing"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

func TestConnectionsSetAndGet(t *testing.T) {
	c := NewConnections(nil)
	c.Set(profiles("a", "b"))

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	p, ok := c.Get("b")
	if !ok || p.FirstName != "Userb" {
		t.Errorf("Get(b) = %v, %v", p, ok)
	}
	if _, ok := c.Get("zzz"); ok {
		t.Error("Get of unknown ID should return false")
	}
}

func TestConnectionsPublish(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("connections.", 4)
	defer unsub()

	c := NewConnections(b)
	c.Set(profiles("a"))

	evt := <-ch
	if evt.Kind != "connections.changed" {
		t.Errorf("event kind = %q, want connections.changed", evt.Kind)
	}
}

func TestContainerReset(t *testing.T) {
	c := NewContainer(nil)
	c.SetProfile(domain.Profile{ID: "me", FirstName: "Mina"})
	c.Feed.Append(profiles("a"))
	c.Inbox.Set(requests("r1"))
	c.Connections.Set(profiles("b"))

	c.Reset()

	if c.Profile().ID != "" {
		t.Error("profile should be cleared on Reset")
	}
	if c.Feed.Len() != 0 || c.Inbox.Len() != 0 || c.Connections.Len() != 0 {
		t.Errorf("stores not empty after Reset: feed=%d inbox=%d conns=%d",
			c.Feed.Len(), c.Inbox.Len(), c.Connections.Len())
	}
}
