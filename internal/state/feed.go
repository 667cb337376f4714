package state

import (
	"sync"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
)

// Feed holds the ordered deck of candidate profiles. The head of the deck
// is the card currently shown; decisions remove it and the next card
// slides up. Mutations publish "feed.changed" so the pagination loop and
// the UI can react.
type Feed struct {
	mu    sync.RWMutex
	cards []domain.Profile
	seen  map[string]bool
	bus   *bus.Bus
}

// NewFeed creates an empty feed store.
func NewFeed(b *bus.Bus) *Feed {
	return &Feed{
		seen: make(map[string]bool),
		bus:  b,
	}
}

// Append adds profiles to the back of the deck, skipping any whose ID is
// already present or was present earlier in this deck's lifetime. Returns
// the number of profiles actually added.
func (f *Feed) Append(profiles []domain.Profile) int {
	f.mu.Lock()
	added := 0
	for _, p := range profiles {
		if p.ID == "" || f.seen[p.ID] {
			continue
		}
		f.seen[p.ID] = true
		f.cards = append(f.cards, p)
		added++
	}
	f.mu.Unlock()
	if added > 0 {
		f.publish()
	}
	return added
}

// Remove drops the profile with the given ID from the deck, preserving
// the order of the rest. Returns false if no such profile is present.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	found := false
	for i, p := range f.cards {
		if p.ID == id {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			found = true
			break
		}
	}
	f.mu.Unlock()
	if found {
		f.publish()
	}
	return found
}

// Clear empties the deck and forgets all previously seen IDs. Called when
// the filters change and a fresh first page is about to load.
func (f *Feed) Clear() {
	f.mu.Lock()
	f.cards = nil
	f.seen = make(map[string]bool)
	f.mu.Unlock()
	f.publish()
}

// Head returns the current top card, or false if the deck is empty.
func (f *Feed) Head() (domain.Profile, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.cards) == 0 {
		return domain.Profile{}, false
	}
	return f.cards[0], true
}

// Len returns the number of cards in the deck.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cards)
}

// Snapshot returns a copy of the deck in order.
func (f *Feed) Snapshot() []domain.Profile {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Profile, len(f.cards))
	copy(out, f.cards)
	return out
}

func (f *Feed) publish() {
	if f.bus != nil {
		f.bus.Publish("feed.changed", f.Len())
	}
}
