// internal/sync/registry.go
package sync

import (
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"
)

type entry[T any] struct {
	view     *View[T]
	lastSeen time.Time
}

// Registry owns one View per key (in practice: per user and collection).
// Views are created on first access and closed when idle past the TTL,
// so every poll ticker is scoped to a live consumer instead of living
// process-wide.
type Registry[T any] struct {
	mu      stdsync.Mutex
	entries map[string]*entry[T]

	interval time.Duration
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce stdsync.Once
	logger   *logrus.Logger
}

func NewRegistry[T any](interval, idleTTL time.Duration, logger *logrus.Logger) *Registry[T] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Registry[T]{
		entries:  make(map[string]*entry[T]),
		interval: interval,
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
		logger:   logger,
	}
	if idleTTL > 0 {
		go r.evictLoop()
	}
	return r
}

// Get returns the live view for key, creating one around fetch on first
// access. Access refreshes the idle clock.
func (r *Registry[T]) Get(key string, fetch FetchFunc[T]) *View[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok && !e.view.Closed() {
		e.lastSeen = time.Now()
		return e.view
	}

	view := NewView(key, fetch, r.interval, r.logger)
	r.entries[key] = &entry[T]{view: view, lastSeen: time.Now()}
	return view
}

// Drop closes and removes the view for key, if present.
func (r *Registry[T]) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.view.Close()
		delete(r.entries, key)
	}
}

func (r *Registry[T]) evictLoop() {
	tick := r.idleTTL / 2
	if tick < time.Second {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stop:
			return
		}
	}
}

func (r *Registry[T]) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		if time.Since(e.lastSeen) > r.idleTTL {
			e.view.Close()
			delete(r.entries, key)
			r.logger.WithField("view", key).Debug("evicted idle view")
		}
	}
}

// Len reports how many views are currently registered.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close tears down the registry and every view it owns.
func (r *Registry[T]) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		e.view.Close()
		delete(r.entries, key)
	}
}
