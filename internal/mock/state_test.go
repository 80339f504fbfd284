package mock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 10, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStateStoreTouchCreatesAndIncrements(t *testing.T) {
	clock := newFakeClock()
	store := NewStateStore(WithClock(clock.Now))

	first := store.Touch("/flapping", nil)
	require.Equal(t, 1, first.RequestCount)
	require.Equal(t, clock.Now(), first.LastRequestTime)

	clock.Advance(5 * time.Second)
	second := store.Touch("/flapping", nil)
	require.Equal(t, 2, second.RequestCount)
	require.Equal(t, clock.Now(), second.LastRequestTime)

	other := store.Touch("/intermittent", nil)
	require.Equal(t, 1, other.RequestCount, "entries are independent")
}

func TestStateStoreTouchReportsIdleGap(t *testing.T) {
	clock := newFakeClock()
	store := NewStateStore(WithClock(clock.Now))

	var gaps []time.Duration
	record := func(_ *EndpointState, idle time.Duration) { gaps = append(gaps, idle) }

	store.Touch("/rate-limited", record)
	clock.Advance(90 * time.Second)
	store.Touch("/rate-limited", record)

	require.Equal(t, []time.Duration{0, 90 * time.Second}, gaps)
}

func TestStateStoreReturnsCopies(t *testing.T) {
	store := NewStateStore()
	state := store.Touch("/memory-leak", nil)
	state.RequestCount = 99

	current, ok := store.Get("/memory-leak")
	require.True(t, ok)
	assert.Equal(t, 1, current.RequestCount)
}

func TestStateStoreResetAndSnapshot(t *testing.T) {
	store := NewStateStore()
	store.Touch("/flapping", nil)
	store.Touch("/intermittent", nil)

	snap := store.Snapshot()
	require.Len(t, snap, 2)

	require.True(t, store.Reset("/flapping"))
	require.False(t, store.Reset("/flapping"))

	_, ok := store.Get("/flapping")
	require.False(t, ok)

	require.Equal(t, 1, store.ResetAll())
	require.Empty(t, store.Snapshot())
}

func TestStateStoreSerializesConcurrentTouches(t *testing.T) {
	store := NewStateStore()

	const workers, perWorker = 8, 250
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				store.Touch("/intermittent", nil)
			}
		}()
	}
	wg.Wait()

	state, ok := store.Get("/intermittent")
	require.True(t, ok)
	require.Equal(t, workers*perWorker, state.RequestCount)
}
