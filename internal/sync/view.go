// internal/sync/view.go
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrViewClosed is returned when a refresh is requested on, or completes
// against, a view that has been torn down.
var ErrViewClosed = errors.New("sync: view is closed")

// FetchFunc produces the authoritative collection for a view.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// View owns the synchronized state of one remote collection: the items
// from the last successful fetch, when that fetch happened, and a poll
// ticker that re-fetches on a fixed interval for as long as the view is
// open.
//
// Refreshes are coalesced: at most one fetch is in flight, and callers
// arriving while one is running wait for its result instead of starting
// another. A fetch still in flight when the view closes runs to
// completion but its result is discarded; closed state is checked again
// at apply time, so a slow response can never resurrect a torn-down
// view.
type View[T any] struct {
	mu         stdsync.Mutex
	items      []T
	lastSynced time.Time
	refreshing bool
	waiters    []chan error
	closed     bool

	fetch    FetchFunc[T]
	interval time.Duration
	timeout  time.Duration
	stop     chan struct{}
	logger   *logrus.Entry
}

// Snapshot is a point-in-time copy of a view's state.
type Snapshot[T any] struct {
	Items        []T
	LastSynced   time.Time
	IsRefreshing bool
}

// NewView builds a view around fetch and starts its poll ticker. The
// caller must Close the view when it is no longer wanted.
func NewView[T any](name string, fetch FetchFunc[T], interval time.Duration, logger *logrus.Logger) *View[T] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	v := &View[T]{
		fetch:    fetch,
		interval: interval,
		timeout:  interval,
		stop:     make(chan struct{}),
		logger:   logger.WithField("view", name),
	}
	go v.pollLoop()
	return v
}

func (v *View[T]) pollLoop() {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
			v.Refresh(ctx)
			cancel()
		case <-v.stop:
			return
		}
	}
}

// Refresh fetches the collection immediately. On success items are
// replaced wholesale and LastSynced advances; on failure both are left
// untouched, so a transient outage keeps stale-but-valid data on screen
// until the next tick heals it.
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.refreshing {
		// Piggyback on the in-flight fetch.
		ch := make(chan error, 1)
		v.waiters = append(v.waiters, ch)
		v.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	v.refreshing = true
	v.mu.Unlock()

	items, err := v.fetch(ctx)

	v.mu.Lock()
	v.refreshing = false
	waiters := v.waiters
	v.waiters = nil

	if v.closed {
		v.mu.Unlock()
		notify(waiters, ErrViewClosed)
		return ErrViewClosed
	}

	if err != nil {
		v.mu.Unlock()
		v.logger.WithError(err).Warn("refresh failed, keeping previous items")
		notify(waiters, err)
		return err
	}

	v.items = items
	v.lastSynced = time.Now()
	v.mu.Unlock()

	notify(waiters, nil)
	return nil
}

func notify(waiters []chan error, err error) {
	for _, ch := range waiters {
		ch <- err
	}
}

// Snapshot returns a copy of the current state. The items slice is
// copied so callers can sort and filter without racing the next apply.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	items := make([]T, len(v.items))
	copy(items, v.items)
	return Snapshot[T]{
		Items:        items,
		LastSynced:   v.lastSynced,
		IsRefreshing: v.refreshing,
	}
}

// Close stops the poll ticker and marks the view dead. Idempotent. Any
// fetch still in flight is discarded when it completes.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	close(v.stop)
}

// Closed reports whether the view has been torn down.
func (v *View[T]) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
