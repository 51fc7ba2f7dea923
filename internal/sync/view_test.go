// internal/sync/view_test.go
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A long interval keeps the poll ticker out of tests that drive
// Refresh by hand.
const quiet = time.Hour

func TestRefreshReplacesItemsWholesale(t *testing.T) {
	var calls atomic.Int64
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return []string{"A", "B"}, nil
		}
		return []string{"C"}, nil
	}, quiet, nil)
	defer view.Close()

	require.NoError(t, view.Refresh(context.Background()))
	first := view.Snapshot()
	assert.Equal(t, []string{"A", "B"}, first.Items)
	assert.False(t, first.LastSynced.IsZero())

	require.NoError(t, view.Refresh(context.Background()))
	second := view.Snapshot()
	assert.Equal(t, []string{"C"}, second.Items)
	assert.True(t, second.LastSynced.After(first.LastSynced) || second.LastSynced.Equal(first.LastSynced))
}

func TestFailedRefreshKeepsStaleItems(t *testing.T) {
	var fail atomic.Bool
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		if fail.Load() {
			return nil, errors.New("upstream down")
		}
		return []string{"A", "B"}, nil
	}, quiet, nil)
	defer view.Close()

	require.NoError(t, view.Refresh(context.Background()))
	before := view.Snapshot()

	fail.Store(true)
	err := view.Refresh(context.Background())
	require.Error(t, err)

	after := view.Snapshot()
	assert.Equal(t, []string{"A", "B"}, after.Items)
	assert.Equal(t, before.LastSynced, after.LastSynced)
}

func TestConcurrentRefreshesCoalesce(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"A"}, nil
	}, quiet, nil)
	defer view.Close()

	var wg stdsync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = view.Refresh(context.Background())
		}(i)
	}

	// Let all three goroutines reach the view before releasing the
	// single in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"A"}, view.Snapshot().Items)
}

func TestCloseStopsPolling(t *testing.T) {
	var calls atomic.Int64
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return nil, nil
	}, 20*time.Millisecond, nil)

	// Let a few ticks land.
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	view.Close()
	settled := calls.Load()
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), settled+1, "no new ticks after Close")

	assert.ErrorIs(t, view.Refresh(context.Background()), ErrViewClosed)
}

func TestLateFetchResultDiscardedAfterClose(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		close(started)
		<-release
		return []string{"late"}, nil
	}, quiet, nil)

	done := make(chan error, 1)
	go func() { done <- view.Refresh(context.Background()) }()

	<-started
	view.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrViewClosed)
	assert.Empty(t, view.Snapshot().Items)
}

func TestCloseIsIdempotent(t *testing.T) {
	view := NewView("test", func(ctx context.Context) ([]string, error) {
		return nil, nil
	}, quiet, nil)

	view.Close()
	view.Close()
	assert.True(t, view.Closed())
}

func TestRegistryReusesLiveViews(t *testing.T) {
	registry := NewRegistry[string](quiet, 0, nil)
	defer registry.Close()

	fetch := func(ctx context.Context) ([]string, error) { return []string{"A"}, nil }

	a := registry.Get("user-1", fetch)
	b := registry.Get("user-1", fetch)
	c := registry.Get("user-2", fetch)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, registry.Len())
}

func TestRegistryDropClosesView(t *testing.T) {
	registry := NewRegistry[string](quiet, 0, nil)
	defer registry.Close()

	view := registry.Get("user-1", func(ctx context.Context) ([]string, error) { return nil, nil })
	registry.Drop("user-1")

	assert.True(t, view.Closed())
	assert.Equal(t, 0, registry.Len())

	// A fresh view replaces the closed one on next access.
	again := registry.Get("user-1", func(ctx context.Context) ([]string, error) { return nil, nil })
	assert.False(t, again.Closed())
}

func TestRegistryCloseTearsDownEverything(t *testing.T) {
	registry := NewRegistry[string](quiet, time.Minute, nil)

	a := registry.Get("user-1", func(ctx context.Context) ([]string, error) { return nil, nil })
	b := registry.Get("user-2", func(ctx context.Context) ([]string, error) { return nil, nil })

	registry.Close()
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.Equal(t, 0, registry.Len())
}
