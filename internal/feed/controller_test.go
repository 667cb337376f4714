package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
)

// fakePager records calls and answers via a pluggable PageFunc.
type fakePager struct {
	mu       sync.Mutex
	calls    []domain.Criteria
	PageFunc func(ctx context.Context, c domain.Criteria, limit int) ([]domain.Profile, error)
}

func (f *fakePager) Page(ctx context.Context, c domain.Criteria, limit int) ([]domain.Profile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	fn := f.PageFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, c, limit)
}

func (f *fakePager) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePager) lastCall() domain.Criteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return domain.Criteria{}
	}
	return f.calls[len(f.calls)-1]
}

func page(ids ...string) []domain.Profile {
	out := make([]domain.Profile, len(ids))
	for i, id := range ids {
		out[i] = domain.Profile{ID: id}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func newTestController(t *testing.T, pager *fakePager, opts Options) (*Controller, *state.Feed, *bus.Bus) {
	t.Helper()
	b := bus.New()
	store := state.NewFeed(b)
	c := NewController(pager, store, b, nil, opts)
	t.Cleanup(c.Stop)
	return c, store, b
}

func TestLoadFetchesFirstPage(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		return page("a", "b", "c"), nil
	}}
	c, store, _ := newTestController(t, pager, Options{PageSize: 3})

	c.Load(domain.Criteria{Search: "tolstoy"})

	waitFor(t, func() bool { return store.Len() == 3 })
	got := pager.lastCall()
	if got.Search != "tolstoy" || got.Page != 1 {
		t.Errorf("fetch criteria = %+v, want search=tolstoy page=1", got)
	}
}

func TestDebounceCoalescesTextEdits(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		return page("a"), nil
	}}
	c, _, _ := newTestController(t, pager, Options{Debounce: 30 * time.Millisecond})

	// A burst of keystrokes across two fields inside one window.
	c.SetSearch("t")
	c.SetSearch("to")
	c.SetBook("dune")
	c.SetSearch("tol")

	waitFor(t, func() bool { return pager.callCount() > 0 })
	time.Sleep(60 * time.Millisecond) // no trailing second commit

	if n := pager.callCount(); n != 1 {
		t.Errorf("fetch count = %d, want 1 combined commit", n)
	}
	got := pager.lastCall()
	if got.Search != "tol" || got.Book != "dune" {
		t.Errorf("criteria = %+v, want search=tol book=dune", got)
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	pager := &fakePager{}
	pager.PageFunc = func(ctx context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		if c.Genre == "" {
			// First generation: stall until released, then answer anyway.
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
			return page("stale1", "stale2"), nil
		}
		return page("fresh"), nil
	}
	c, store, _ := newTestController(t, pager, Options{PageSize: 5})

	c.Load(domain.Criteria{})
	waitFor(t, func() bool { return pager.callCount() == 1 })

	c.SetGenre("Fantasy")
	waitFor(t, func() bool { return store.Len() == 1 })

	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := store.Snapshot()
	if len(snap) != 1 || snap[0].ID != "fresh" {
		t.Errorf("deck = %v, want only the fresh result", snap)
	}
	if c.LastErr() != nil {
		t.Errorf("stale fetch must be discarded silently, got error %v", c.LastErr())
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		return page("x" + string(rune('0'+c.Page))), nil
	}}
	c, store, _ := newTestController(t, pager, Options{PageSize: 5})

	c.Load(domain.Criteria{})
	waitFor(t, func() bool { return store.Len() == 1 })

	c.SetSort(domain.SortNewest)
	waitFor(t, func() bool { return pager.callCount() >= 2 })

	got := pager.lastCall()
	if got.Page != 1 || got.Sort != domain.SortNewest {
		t.Errorf("criteria = %+v, want page reset to 1", got)
	}
}

func TestSameFiltersCommitIsNoOp(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, _ domain.Criteria, _ int) ([]domain.Profile, error) {
		return page("a"), nil
	}}
	c, store, _ := newTestController(t, pager, Options{PageSize: 5})

	c.Load(domain.Criteria{Genre: "Fantasy"})
	waitFor(t, func() bool { return store.Len() == 1 })

	c.SetGenre("Fantasy") // unchanged
	time.Sleep(30 * time.Millisecond)
	if n := pager.callCount(); n != 1 {
		t.Errorf("fetch count = %d, want 1 (unchanged filters must not refetch)", n)
	}
}

func TestTopUpWhenDeckRunsLow(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		switch c.Page {
		case 1:
			return page("a", "b", "c"), nil
		case 2:
			return page("d", "e", "f"), nil
		}
		return nil, nil
	}}
	c, store, _ := newTestController(t, pager, Options{PageSize: 3, LowWatermark: 2})

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Load(domain.Criteria{})
	waitFor(t, func() bool { return store.Len() == 3 })

	store.Remove("a") // deck drops to the watermark
	waitFor(t, func() bool { return store.Len() == 5 })

	if got := pager.lastCall(); got.Page != 2 {
		t.Errorf("top-up fetched page %d, want 2", got.Page)
	}
}

func TestNoTopUpAfterExhaustion(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		if c.Page == 1 {
			return page("a", "b"), nil // short page: nothing more
		}
		return nil, nil
	}}
	c, store, _ := newTestController(t, pager, Options{PageSize: 3, LowWatermark: 2})

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Load(domain.Criteria{})
	waitFor(t, func() bool { return store.Len() == 2 })

	store.Remove("a")
	time.Sleep(50 * time.Millisecond)

	if n := pager.callCount(); n != 1 {
		t.Errorf("fetch count = %d, want 1 (exhausted feed must not refetch)", n)
	}
	if store.Len() != 1 {
		t.Errorf("deck len = %d, want 1", store.Len())
	}
}

func TestFetchErrorKeepsDeck(t *testing.T) {
	fail := errors.New("boom")
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		if c.Page == 1 {
			return page("a", "b", "c"), nil
		}
		return nil, fail
	}}
	c, store, b := newTestController(t, pager, Options{PageSize: 3, LowWatermark: 2})

	errCh, unsub := b.Subscribe("feed.error", 4)
	defer unsub()

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Load(domain.Criteria{})
	waitFor(t, func() bool { return store.Len() == 3 })

	store.Remove("a")
	waitFor(t, func() bool { return c.LastErr() != nil })

	if store.Len() != 2 {
		t.Errorf("deck len = %d, want 2 (failed fetch must not clear the deck)", store.Len())
	}
	select {
	case evt := <-errCh:
		if evt.Kind != "feed.error" {
			t.Errorf("event kind = %q", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Error("no feed.error event published")
	}
}

func TestClearFilters(t *testing.T) {
	pager := &fakePager{PageFunc: func(_ context.Context, c domain.Criteria, _ int) ([]domain.Profile, error) {
		return page("a"), nil
	}}
	c, _, _ := newTestController(t, pager, Options{Debounce: 10 * time.Millisecond})

	c.Load(domain.Criteria{Search: "x", Genre: "Fantasy", Sort: domain.SortName})
	waitFor(t, func() bool { return pager.callCount() == 1 })

	c.SetSearch("pending") // staged, then wiped by the clear
	c.ClearFilters()
	waitFor(t, func() bool { return pager.callCount() >= 2 })
	time.Sleep(30 * time.Millisecond)

	got := pager.lastCall()
	if got.Active() {
		t.Errorf("criteria after clear = %+v, want none active", got)
	}
	if crit := c.Criteria(); crit.Search != "" {
		t.Errorf("staged edit leaked through clear: %+v", crit)
	}
}
