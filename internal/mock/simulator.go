package mock

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// timestampLayout matches the millisecond UTC timestamps monitoring clients expect.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Sampler draws uniform samples in [0,1).
type Sampler interface {
	Float64() float64
}

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// DelayObserver is notified of every simulated delay before it is applied.
type DelayObserver func(path string, d time.Duration)

// Simulator carries the collaborators shared by the endpoint handlers.
type Simulator struct {
	store     *StateStore
	sampler   Sampler
	sleep     SleepFunc
	now       func() time.Time
	startedAt time.Time
	version   string
	port      int
	onDelay   DelayObserver
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithStore sets the state store. A fresh store is used otherwise.
func WithStore(store *StateStore) Option {
	return func(s *Simulator) { s.store = store }
}

// WithSampler sets the randomness source.
func WithSampler(sampler Sampler) Option {
	return func(s *Simulator) { s.sampler = sampler }
}

// WithSleep replaces the wait used by latency endpoints.
func WithSleep(sleep SleepFunc) Option {
	return func(s *Simulator) { s.sleep = sleep }
}

// WithNow replaces the wall clock used for timestamps and time windows.
func WithNow(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(s *Simulator) { s.version = version }
}

// WithPort sets the port reported by /tcp-check.
func WithPort(port int) Option {
	return func(s *Simulator) { s.port = port }
}

// WithDelayObserver registers a hook for simulated delays.
func WithDelayObserver(fn DelayObserver) Option {
	return func(s *Simulator) { s.onDelay = fn }
}

// NewSimulator builds a Simulator with production defaults for anything not set.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		sampler: NewSampler(0),
		sleep:   ContextSleep,
		now:     time.Now,
		version: "dev",
		port:    3000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewStateStore(WithClock(s.now))
	}
	s.startedAt = s.now()
	return s
}

// Store exposes the state store backing the stateful endpoints.
func (s *Simulator) Store() *StateStore {
	return s.store
}

// Uptime reports how long the simulator has been running.
func (s *Simulator) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

func (s *Simulator) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// wait applies a simulated delay. It returns false if the caller went away.
func (s *Simulator) wait(ctx context.Context, path string, d time.Duration) bool {
	if s.onDelay != nil {
		s.onDelay(path, d)
	}
	return s.sleep(ctx, d) == nil
}

// uniformDuration samples a duration in [lo, lo+span).
func (s *Simulator) uniformDuration(lo, span time.Duration) time.Duration {
	return lo + time.Duration(s.sampler.Float64()*float64(span))
}

// ContextSleep blocks for d, returning early with ctx.Err() if ctx is done.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewSampler returns a goroutine-safe sampler. A zero seed draws from the
// runtime's randomly seeded source; any other seed gives a reproducible stream.
func NewSampler(seed int64) Sampler {
	if seed == 0 {
		return globalSampler{}
	}
	return &seededSampler{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

type globalSampler struct{}

func (globalSampler) Float64() float64 { return rand.Float64() }

type seededSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *seededSampler) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
