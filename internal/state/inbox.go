package state

import (
	"sync"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// Inbox holds pending received connection requests. Each request carries a
// processing flag so that a review in flight blocks duplicate submissions
// for the same request while leaving the others actionable.
type Inbox struct {
	mu         sync.RWMutex
	requests   []domain.RequestEntry
	processing map[string]bool
	bus        *bus.Bus
}

// NewInbox creates an empty inbox store.
func NewInbox(b *bus.Bus) *Inbox {
	return &Inbox{
		processing: make(map[string]bool),
		bus:        b,
	}
}

// Set replaces the inbox contents with a fresh server snapshot. Processing
// flags for requests no longer present are dropped.
func (in *Inbox) Set(requests []domain.RequestEntry) {
	in.mu.Lock()
	in.requests = requests
	keep := make(map[string]bool)
	for _, r := range requests {
		if in.processing[r.ID] {
			keep[r.ID] = true
		}
	}
	in.processing = keep
	in.mu.Unlock()
	in.publish()
}

// Remove drops the request with the given ID. Returns false if absent.
// The processing flag, if set, survives removal: the server may still
// list the request on the next refetch while its review is in flight,
// and the flag keeps it unsubmittable until End.
func (in *Inbox) Remove(id string) bool {
	in.mu.Lock()
	found := false
	for i, r := range in.requests {
		if r.ID == id {
			in.requests = append(in.requests[:i], in.requests[i+1:]...)
			found = true
			break
		}
	}
	in.mu.Unlock()
	if found {
		in.publish()
	}
	return found
}

// Begin marks a request as having a review in flight. Returns false if it
// is already being processed or is not in the inbox.
func (in *Inbox) Begin(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.processing[id] {
		return false
	}
	present := false
	for _, r := range in.requests {
		if r.ID == id {
			present = true
			break
		}
	}
	if !present {
		return false
	}
	in.processing[id] = true
	return true
}

// Reset replaces the inbox and drops every processing flag. Used on
// logout, where in-flight reviews no longer matter.
func (in *Inbox) Reset() {
	in.mu.Lock()
	in.requests = nil
	in.processing = make(map[string]bool)
	in.mu.Unlock()
	in.publish()
}

// End clears the processing flag for a request.
func (in *Inbox) End(id string) {
	in.mu.Lock()
	delete(in.processing, id)
	in.mu.Unlock()
}

// Processing reports whether a review is in flight for the given request.
func (in *Inbox) Processing(id string) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.processing[id]
}

// Snapshot returns a copy of the pending requests in order.
func (in *Inbox) Snapshot() []domain.RequestEntry {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]domain.RequestEntry, len(in.requests))
	copy(out, in.requests)
	return out
}

// Len returns the number of pending requests.
func (in *Inbox) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.requests)
}

func (in *Inbox) publish() {
	if in.bus != nil {
		in.bus.Publish("inbox.changed", in.Len())
	}
}
