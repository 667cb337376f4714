package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mayank-pillai-99/bookconnect/internal/bus"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/state"
)

// Pager fetches one page of candidates. Satisfied by api.FeedService.
type Pager interface {
	Page(ctx context.Context, c domain.Criteria, limit int) ([]domain.Profile, error)
}

// Options tune the controller. Zero values fall back to the defaults
// used in production config.
type Options struct {
	PageSize     int
	LowWatermark int
	Debounce     time.Duration
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	if o.LowWatermark <= 0 {
		o.LowWatermark = 2
	}
	if o.Debounce <= 0 {
		o.Debounce = 500 * time.Millisecond
	}
	return o
}

// Controller owns the feed's criteria and its fetch lifecycle. Text
// filters are staged and committed together after a debounce window;
// genre and sort commit immediately. Each commit starts a new fetch
// generation: the previous in-flight fetch is cancelled and its result,
// should it still arrive, is discarded. The deck is topped up
// automatically whenever it runs low.
type Controller struct {
	pager Pager
	store *state.Feed
	bus   *bus.Bus
	log   *zap.Logger
	opts  Options

	debounce *Debouncer

	mu           sync.Mutex
	criteria     domain.Criteria
	stagedSearch string
	stagedBook   string
	gen          uint64
	cancel       context.CancelFunc
	loading      bool
	exhausted    bool
	lastErr      error

	baseCtx  context.Context
	stopLoop context.CancelFunc
}

// NewController creates a feed controller. Start must be called before
// automatic pagination kicks in; explicit loads work immediately.
func NewController(pager Pager, store *state.Feed, b *bus.Bus, log *zap.Logger, opts Options) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Controller{
		pager:    pager,
		store:    store,
		bus:      b,
		log:      log.Named("feed"),
		opts:     opts,
		debounce: NewDebouncer(opts.Debounce),
		criteria: domain.Criteria{Page: 1},
		baseCtx:  context.Background(),
	}
}

// Start launches the top-up loop, which watches deck changes and fetches
// the next page when the deck runs low.
func (c *Controller) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.baseCtx = loopCtx
	c.stopLoop = cancel
	c.mu.Unlock()

	ch, unsub := c.bus.Subscribe("feed.changed", 32)
	go func() {
		defer unsub()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ch:
				c.maybeTopUp()
			}
		}
	}()
	return nil
}

// Stop cancels any pending debounce, the in-flight fetch and the top-up
// loop.
func (c *Controller) Stop() {
	c.debounce.Stop()
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	stop := c.stopLoop
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Criteria returns the committed criteria.
func (c *Controller) Criteria() domain.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastErr returns the error of the most recent failed fetch, cleared on
// the next fetch start.
func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Load commits the given criteria unconditionally and fetches its first
// page. Used at startup, optionally seeded from a shared filter string.
func (c *Controller) Load(criteria domain.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	criteria.Page = 1
	c.criteria = criteria
	c.stagedSearch = criteria.Search
	c.stagedBook = criteria.Book
	c.exhausted = false
	c.store.Clear()
	c.fetchLocked()
}

// SetSearch stages a new search text. It commits after the debounce
// window together with any other staged text edits.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	c.stagedSearch = s
	c.mu.Unlock()
	c.debounce.Trigger(c.commitStaged)
}

// SetBook stages a new book-title filter, committed like SetSearch.
func (c *Controller) SetBook(s string) {
	c.mu.Lock()
	c.stagedBook = s
	c.mu.Unlock()
	c.debounce.Trigger(c.commitStaged)
}

// SetGenre commits a genre filter immediately.
func (c *Controller) SetGenre(g string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.criteria
	next.Genre = g
	c.commitLocked(next)
}

// SetSort commits a sort mode immediately.
func (c *Controller) SetSort(m domain.SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.criteria
	next.Sort = m
	c.commitLocked(next)
}

// ClearFilters drops every filter, staged or committed, and reloads.
func (c *Controller) ClearFilters() {
	c.debounce.Stop()
	c.Load(domain.Criteria{})
}

// Reset cancels any in-flight fetch and pending debounce and drops the
// criteria back to empty, without stopping the top-up loop. Used on
// logout; the deck itself is cleared by the caller.
func (c *Controller) Reset() {
	c.debounce.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
	c.lastErr = nil
	c.exhausted = false
	c.criteria = domain.Criteria{Page: 1}
	c.stagedSearch = ""
	c.stagedBook = ""
}

// Retry refetches the current page after a failure.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return
	}
	c.fetchLocked()
}

func (c *Controller) commitStaged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.criteria
	next.Search = c.stagedSearch
	next.Book = c.stagedBook
	c.commitLocked(next)
}

// commitLocked applies new criteria if the filters actually changed:
// page resets to 1, the deck is cleared and a fresh fetch starts.
func (c *Controller) commitLocked(next domain.Criteria) {
	if next.SameFilters(c.criteria) {
		return
	}
	next.Page = 1
	c.criteria = next
	c.exhausted = false
	c.store.Clear()
	c.fetchLocked()
}

func (c *Controller) maybeTopUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || c.exhausted {
		return
	}
	n := c.store.Len()
	if n == 0 || n > c.opts.LowWatermark {
		return
	}
	c.criteria.Page++
	c.fetchLocked()
}

// fetchLocked starts a new fetch generation. Caller holds c.mu.
func (c *Controller) fetchLocked() {
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.loading = true
	c.lastErr = nil
	criteria := c.criteria

	go func() {
		profiles, err := c.pager.Page(ctx, criteria, c.opts.PageSize)

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			// Superseded by a newer commit; drop the result silently.
			return
		}
		c.loading = false
		c.cancel = nil
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.lastErr = err
			c.log.Warn("feed page fetch failed",
				zap.Int("page", criteria.Page),
				zap.Error(err),
			)
			c.bus.Publish("feed.error", err.Error())
			return
		}
		if len(profiles) < c.opts.PageSize {
			c.exhausted = true
		}
		c.store.Append(profiles)
		c.bus.Publish("feed.loaded", criteria.Page)
	}()
}
