package mock

import (
	"sync"
	"time"
)

// EndpointState holds the counters an endpoint keeps across requests.
type EndpointState struct {
	RequestCount    int        `json:"requestCount"`
	LastRequestTime time.Time  `json:"lastRequestTime"`
	IsDown          bool       `json:"isDown"`
	DownUntil       *time.Time `json:"downUntil,omitempty"`
}

// StateStore maps endpoint names to their counters for the lifetime of the server.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]*EndpointState
	clock   func() time.Time
}

// StoreOption configures a StateStore.
type StoreOption func(*StateStore)

// WithClock overrides the time source used to stamp requests.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *StateStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStateStore creates an empty store.
func NewStateStore(opts ...StoreOption) *StateStore {
	s := &StateStore{
		entries: make(map[string]*EndpointState),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Touch records a request against name and returns a copy of the updated state.
//
// The entry is created on first use. RequestCount is incremented and
// LastRequestTime refreshed on every call. When adjust is non-nil it runs while
// the store is locked, receiving the gap since the previous request (zero for a
// new entry), so read-modify-write sequences on one endpoint never interleave.
func (s *StateStore) Touch(name string, adjust func(state *EndpointState, idle time.Duration)) EndpointState {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	state, ok := s.entries[name]
	if !ok {
		state = &EndpointState{LastRequestTime: now}
		s.entries[name] = state
	}

	idle := now.Sub(state.LastRequestTime)
	if idle < 0 {
		idle = 0
	}

	state.RequestCount++
	state.LastRequestTime = now

	if adjust != nil {
		adjust(state, idle)
	}

	return cloneState(state)
}

// Get returns the current state for name without recording a request.
func (s *StateStore) Get(name string) (EndpointState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.entries[name]
	if !ok {
		return EndpointState{}, false
	}
	return cloneState(state), true
}

// Snapshot copies every entry.
func (s *StateStore) Snapshot() map[string]EndpointState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]EndpointState, len(s.entries))
	for name, state := range s.entries {
		out[name] = cloneState(state)
	}
	return out
}

// Reset drops the entry for name. It reports whether an entry existed.
func (s *StateStore) Reset(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	return true
}

// ResetAll drops every entry and returns how many were removed.
func (s *StateStore) ResetAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[string]*EndpointState)
	return n
}

func cloneState(state *EndpointState) EndpointState {
	out := *state
	if state.DownUntil != nil {
		until := *state.DownUntil
		out.DownUntil = &until
	}
	return out
}
