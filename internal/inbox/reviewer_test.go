package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
)

type fakeCaller struct {
	mu      sync.Mutex
	calls   []string
	err     error
	release chan struct{}
}

func (f *fakeCaller) Review(ctx context.Context, d api.Decision, requestID string) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, string(d)+":"+requestID)
	f.mu.Unlock()
	return f.err
}

func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func seed(ids ...string) []domain.RequestEntry {
	out := make([]domain.RequestEntry, len(ids))
	for i, id := range ids {
		out[i] = domain.RequestEntry{ID: id}
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

func TestReviewRemovesImmediately(t *testing.T) {
	caller := &fakeCaller{release: make(chan struct{})}
	store := state.NewInbox(nil)
	store.Set(seed("r1", "r2"))

	r := NewReviewer(caller, store, nil, nil)
	if !r.Review(api.DecisionAccepted, "r1") {
		t.Fatal("Review = false, want true")
	}
	if store.Len() != 1 {
		t.Errorf("inbox len = %d, want 1 while the call is still in flight", store.Len())
	}
	close(caller.release)
	waitFor(t, func() bool { return caller.callCount() == 1 })
}

func TestReviewOneInFlightPerRequest(t *testing.T) {
	caller := &fakeCaller{release: make(chan struct{})}
	store := state.NewInbox(nil)
	store.Set(seed("r1", "r2"))

	r := NewReviewer(caller, store, nil, nil)
	if !r.Review(api.DecisionAccepted, "r1") {
		t.Fatal("first Review(r1) should succeed")
	}
	if r.Review(api.DecisionRejected, "r1") {
		t.Error("second Review(r1) should be blocked while in flight")
	}
	// r1 in flight does not block r2.
	if !r.Review(api.DecisionRejected, "r2") {
		t.Error("Review(r2) should succeed concurrently")
	}
	close(caller.release)
	waitFor(t, func() bool { return caller.callCount() == 2 })
}

func TestReviewFailureNoRollback(t *testing.T) {
	caller := &fakeCaller{err: errors.New("boom")}
	b := bus.New()
	store := state.NewInbox(b)
	store.Set(seed("r1"))

	failed, unsub := b.Subscribe("inbox.review_failed", 4)
	defer unsub()

	r := NewReviewer(caller, store, b, nil)
	r.Review(api.DecisionRejected, "r1")

	select {
	case evt := <-failed:
		if evt.Payload.(string) != "r1" {
			t.Errorf("payload = %v, want r1", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no inbox.review_failed event")
	}
	if store.Len() != 0 {
		t.Error("failed review must not restore the entry")
	}
}

func TestAcceptAnnouncesConnection(t *testing.T) {
	caller := &fakeCaller{}
	b := bus.New()
	store := state.NewInbox(b)
	store.Set(seed("r1"))

	accepted, unsub := b.Subscribe("inbox.accepted", 4)
	defer unsub()

	r := NewReviewer(caller, store, b, nil)
	r.Review(api.DecisionAccepted, "r1")

	select {
	case evt := <-accepted:
		if evt.Payload.(string) != "r1" {
			t.Errorf("payload = %v, want r1", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no inbox.accepted event")
	}
}

func TestReviewUnknownRequest(t *testing.T) {
	caller := &fakeCaller{}
	store := state.NewInbox(nil)
	store.Set(seed("r1"))

	r := NewReviewer(caller, store, nil, nil)
	if r.Review(api.DecisionAccepted, "nope") {
		t.Error("Review of unknown request should return false")
	}
	time.Sleep(20 * time.Millisecond)
	if caller.callCount() != 0 {
		t.Error("no call should be made for an unknown request")
	}
}
