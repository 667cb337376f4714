package inbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
)

// Caller reviews a received request. Satisfied by api.RequestsService.
type Caller interface {
	Review(ctx context.Context, d api.Decision, requestID string) error
}

// Reviewer applies accept/reject decisions to received requests. The
// entry leaves the inbox as soon as the decision is issued; the remote
// call runs in the background, one in flight per request ID, so reviewing
// one request never blocks reviewing another. Failures are logged and
// announced, never rolled back.
type Reviewer struct {
	caller  Caller
	store   *state.Inbox
	bus     *bus.Bus
	log     *zap.Logger
	timeout time.Duration
}

// NewReviewer creates a request reviewer.
func NewReviewer(caller Caller, store *state.Inbox, b *bus.Bus, log *zap.Logger) *Reviewer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reviewer{
		caller:  caller,
		store:   store,
		bus:     b,
		log:     log.Named("inbox"),
		timeout: 15 * time.Second,
	}
}

// Review removes the request from the inbox and sends the decision in
// the background. Returns false if the request is unknown or a review
// for it is already in flight.
func (r *Reviewer) Review(d api.Decision, requestID string) bool {
	if !r.store.Begin(requestID) {
		return false
	}
	r.store.Remove(requestID)

	go func() {
		defer r.store.End(requestID)
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.caller.Review(ctx, d, requestID); err != nil {
			r.log.Warn("request review failed",
				zap.String("decision", string(d)),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			if r.bus != nil {
				r.bus.Publish("inbox.review_failed", requestID)
			}
			return
		}
		if d == api.DecisionAccepted && r.bus != nil {
			// A fresh connection exists now; interested views refetch.
			r.bus.Publish("inbox.accepted", requestID)
		}
	}()
	return true
}
