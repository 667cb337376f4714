package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
)

// Sender delivers a swipe decision. Satisfied by api.RequestsService.
type Sender interface {
	Send(ctx context.Context, v api.Verdict, userID string) error
}

// Dispatcher applies swipe decisions optimistically: the card leaves the
// deck at once and the server call runs in the background. Delivery
// failures are logged and announced but never put the card back.
type Dispatcher struct {
	sender  Sender
	store   *state.Feed
	bus     *bus.Bus
	log     *zap.Logger
	timeout time.Duration
}

// NewDispatcher creates a decision dispatcher.
func NewDispatcher(sender Sender, store *state.Feed, b *bus.Bus, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		sender:  sender,
		store:   store,
		bus:     b,
		log:     log.Named("decisions"),
		timeout: 15 * time.Second,
	}
}

// Decide removes the candidate from the deck and sends the verdict in the
// background. Returns false if the candidate is no longer in the deck,
// which makes a double-tap on the same card a no-op.
func (d *Dispatcher) Decide(v api.Verdict, userID string) bool {
	if !d.store.Remove(userID) {
		return false
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.Send(ctx, v, userID); err != nil {
			d.log.Warn("decision delivery failed",
				zap.String("verdict", string(v)),
				zap.String("user_id", userID),
				zap.Error(err),
			)
			if d.bus != nil {
				d.bus.Publish("feed.decision_failed", userID)
			}
		}
	}()
	return true
}
