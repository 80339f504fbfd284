package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSampler replays values in order and repeats the last one.
type fixedSampler struct {
	mu     sync.Mutex
	values []float64
}

func (f *fixedSampler) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v
}

type recordedSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleep) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestSimulator(t *testing.T, samples ...float64) (*Simulator, *fakeClock, *recordedSleep) {
	t.Helper()
	if len(samples) == 0 {
		samples = []float64{0.5}
	}
	clock := newFakeClock()
	sleeper := &recordedSleep{}
	sim := NewSimulator(
		WithSampler(&fixedSampler{values: samples}),
		WithNow(clock.Now),
		WithSleep(sleeper.Sleep),
		WithVersion("1.2.3"),
		WithPort(4000),
	)
	return sim, clock, sleeper
}

// endpoint returns the catalog entry registered under path.
func endpoint(t *testing.T, rt *Router, path string) Endpoint {
	t.Helper()
	for _, e := range rt.Endpoints() {
		if e.Path == path {
			return e
		}
	}
	t.Fatalf("no endpoint registered for %s", path)
	return Endpoint{}
}

// call invokes the handler for a concrete catalog path.
func call(t *testing.T, rt *Router, path string) Response {
	t.Helper()
	return callTarget(t, rt, path, path)
}

// callTarget invokes the handler registered under path with a request for target.
func callTarget(t *testing.T, rt *Router, path, target string) Response {
	t.Helper()
	return endpoint(t, rt, path).Handler(httptest.NewRequest(http.MethodGet, target, nil))
}

func decode[T any](t *testing.T, resp Response) T {
	t.Helper()
	require.Equal(t, ContentTypeJSON, resp.ContentType)
	data, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestIntermittentFailsEveryThirdCall(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	for n := 1; n <= 12; n++ {
		resp := call(t, rt, PathIntermittent)
		body := decode[CounterPayload](t, resp)
		require.Equal(t, n, body.RequestNumber)
		if n%3 == 0 {
			require.Equal(t, http.StatusInternalServerError, resp.Status, "call %d", n)
			require.Equal(t, "error", body.Status)
		} else {
			require.Equal(t, http.StatusOK, resp.Status, "call %d", n)
		}
	}
}

func TestFlappingAlternatesStartingUp(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	for n := 1; n <= 6; n++ {
		resp := call(t, rt, PathFlapping)
		if n%2 == 0 {
			require.Equal(t, http.StatusInternalServerError, resp.Status, "call %d", n)
		} else {
			require.Equal(t, http.StatusOK, resp.Status, "call %d", n)
		}
	}

	state, ok := sim.Store().Get(PathFlapping)
	require.True(t, ok)
	assert.True(t, state.IsDown)
}

func TestRateLimitedWindow(t *testing.T) {
	sim, clock, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	for n := 1; n <= 10; n++ {
		resp := call(t, rt, PathRateLimited)
		require.Equal(t, http.StatusOK, resp.Status, "call %d", n)
		body := decode[QuotaPayload](t, resp)
		require.Equal(t, 10-n, body.RemainingRequests)
		clock.Advance(time.Second)
	}

	resp := call(t, rt, PathRateLimited)
	require.Equal(t, http.StatusTooManyRequests, resp.Status)
	require.Equal(t, "60", resp.Header.Get("Retry-After"))
	limited := decode[RateLimitedPayload](t, resp)
	require.Equal(t, 60, limited.RetryAfter)
	require.Equal(t, "rate_limited", limited.Status)

	clock.Advance(61 * time.Second)
	resp = call(t, rt, PathRateLimited)
	require.Equal(t, http.StatusOK, resp.Status)
	body := decode[QuotaPayload](t, resp)
	require.Equal(t, 9, body.RemainingRequests)

	state, ok := sim.Store().Get(PathRateLimited)
	require.True(t, ok)
	require.Equal(t, 1, state.RequestCount)
	require.False(t, state.IsDown)
}

func TestRateLimitedStaysLimitedWhileTrafficContinues(t *testing.T) {
	sim, clock, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	for n := 0; n < 11; n++ {
		call(t, rt, PathRateLimited)
	}
	clock.Advance(30 * time.Second)
	resp := call(t, rt, PathRateLimited)
	require.Equal(t, http.StatusTooManyRequests, resp.Status)
}

func TestMemoryLeakDelayGrowsAndCaps(t *testing.T) {
	sim, _, sleeper := newTestSimulator(t)
	rt := NewRouter(sim)

	for n := 1; n <= 3; n++ {
		resp := call(t, rt, PathMemoryLeak)
		require.Equal(t, http.StatusOK, resp.Status)
		body := decode[MemoryLeakPayload](t, resp)
		require.Equal(t, n, body.RequestCount)
	}
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}, sleeper.delays)

	assert.Equal(t, 10*time.Second, MemoryLeakDelay(100))
	assert.Equal(t, 10*time.Second, MemoryLeakDelay(5000))
	assert.Equal(t, 9900*time.Millisecond, MemoryLeakDelay(99))
}

func TestParseStatusCode(t *testing.T) {
	cases := map[string]int{
		"/status/204":     204,
		"/status/100":     200,
		"/status/101":     200,
		"/status/199":     200,
		"/status/200":     200,
		"/status/x%2F503": 200,
		"/status/599":     599,
		"/status/600":     200,
		"/status/999":     200,
		"/status/99":      200,
		"/status/abc":     200,
		"/status/":        200,
		"/status/-404":    200,
		"/status/x/503":   503,
		"/status/503/foo": 200,
	}
	for path, want := range cases {
		assert.Equal(t, want, ParseStatusCode(path), path)
	}
}

func TestStatusCodeEndpoint(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	resp := callTarget(t, rt, PathStatusCode, "/status/418")
	require.Equal(t, 418, resp.Status)
	body := decode[StatusCodePayload](t, resp)
	require.Equal(t, "error", body.Status)
	require.Equal(t, 418, body.RequestedCode)

	resp = callTarget(t, rt, PathStatusCode, "/status/301")
	require.Equal(t, 301, resp.Status)
	require.Equal(t, "ok", decode[StatusCodePayload](t, resp).Status)
}

func TestPartialOutage(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		sim, _, _ := newTestSimulator(t, 0.99)
		resp := call(t, NewRouter(sim), PathPartialOutage)
		require.Equal(t, http.StatusOK, resp.Status)
		body := decode[PartialOutagePayload](t, resp)
		require.Equal(t, "ok", body.Status)
		require.True(t, body.Services.AllUp())
	})

	t.Run("mixed", func(t *testing.T) {
		sim, _, _ := newTestSimulator(t, 0.0)
		resp := call(t, NewRouter(sim), PathPartialOutage)
		require.Equal(t, http.StatusOK, resp.Status)
		body := decode[PartialOutagePayload](t, resp)
		require.Equal(t, "partial", body.Status)
		require.True(t, body.Services.CDN)
		require.False(t, body.Services.API)
	})

	t.Run("aggregate helpers", func(t *testing.T) {
		assert.True(t, Services{}.AllDown())
		assert.False(t, Services{}.AllUp())
		assert.False(t, Services{CDN: true}.AllDown())
	})
}

func TestRandomFailures(t *testing.T) {
	sim, _, _ := newTestSimulator(t, 0.1, 0.3, 0.3, 0.6)
	rt := NewRouter(sim)

	require.Equal(t, http.StatusInternalServerError, call(t, rt, PathRandomFailures).Status)
	require.Equal(t, http.StatusOK, call(t, rt, PathRandomFailures).Status)
	require.Equal(t, http.StatusInternalServerError, call(t, rt, PathFrequentFailures).Status)
	require.Equal(t, http.StatusOK, call(t, rt, PathFrequentFailures).Status)
}

func TestScheduledDowntimeWindows(t *testing.T) {
	at := func(minute int) time.Time { return time.Date(2025, 1, 1, 9, minute, 0, 0, time.UTC) }

	for _, m := range []int{0, 4, 30, 34} {
		assert.True(t, InScheduledDowntime(at(m)), "minute %d", m)
	}
	for _, m := range []int{5, 29, 35, 59} {
		assert.False(t, InScheduledDowntime(at(m)), "minute %d", m)
	}

	sim, clock, _ := newTestSimulator(t)
	rt := NewRouter(sim)
	require.Equal(t, http.StatusOK, call(t, rt, PathScheduledDown).Status)
	clock.Advance(21 * time.Minute)
	require.Equal(t, http.StatusServiceUnavailable, call(t, rt, PathScheduledDown).Status)
}

func TestSlowResponseWaitsWithinRange(t *testing.T) {
	sim, _, sleeper := newTestSimulator(t, 0.5)
	rt := NewRouter(sim)

	resp := call(t, rt, PathSlowResponse)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "3500ms", decode[LatencyPayload](t, resp).ResponseTime)

	call(t, rt, PathVerySlow)
	require.Equal(t, []time.Duration{3500 * time.Millisecond, 12500 * time.Millisecond}, sleeper.delays)
}

func TestSlowResponseAbandonedWhenClientLeaves(t *testing.T) {
	sim := NewSimulator(WithSampler(&fixedSampler{values: []float64{0}}))
	rt := NewRouter(sim)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, PathSlowResponse, nil).WithContext(ctx)

	resp := endpoint(t, rt, PathSlowResponse).Handler(req)
	require.True(t, resp.Abandoned)
}

func TestTimeoutHangsUntilCancelled(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)
	e := endpoint(t, rt, PathTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, PathTimeout, nil).WithContext(ctx)

	done := make(chan Response, 1)
	go func() { done <- e.Handler(req) }()

	select {
	case <-done:
		t.Fatal("timeout endpoint answered before the client went away")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case resp := <-done:
		require.True(t, resp.Abandoned)
	case <-time.After(time.Second):
		t.Fatal("timeout endpoint did not release after cancellation")
	}
}

func TestCertCheck(t *testing.T) {
	sim, _, _ := newTestSimulator(t, 0.05)
	resp := call(t, NewRouter(sim), PathCertCheck)
	body := decode[CertPayload](t, resp)
	require.Equal(t, 4, body.Certificate.DaysUntilExpiry)
	require.Equal(t, "warning", body.Status)

	sim, _, _ = newTestSimulator(t, 0.5)
	body = decode[CertPayload](t, call(t, NewRouter(sim), PathCertCheck))
	require.Equal(t, 45, body.Certificate.DaysUntilExpiry)
	require.Equal(t, "ok", body.Status)
}

func TestStaticEndpoints(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	cases := map[string]int{
		PathAlwaysUp:        http.StatusOK,
		PathAlwaysDown:      http.StatusInternalServerError,
		PathMaintenance:     http.StatusServiceUnavailable,
		PathDegraded:        http.StatusOK,
		PathHealth:          http.StatusOK,
		PathKeywordCheck:    http.StatusOK,
		PathTCPCheck:        http.StatusOK,
		PathDockerHealthy:   http.StatusOK,
		PathDockerUnhealthy: http.StatusInternalServerError,
		PathRoot:            http.StatusOK,
	}
	for path, status := range cases {
		assert.Equal(t, status, call(t, rt, path).Status, path)
	}

	tcp := decode[TCPPayload](t, call(t, rt, PathTCPCheck))
	assert.Equal(t, 4000, tcp.Port)

	health := decode[HealthPayload](t, call(t, rt, PathHealth))
	assert.Equal(t, "1.2.3", health.Version)
	assert.Equal(t, "connected", health.Checks.Database)

	ping := call(t, rt, PathPing)
	assert.Equal(t, ContentTypeText, ping.ContentType)
	assert.Equal(t, "pong", ping.Body)

	html := call(t, rt, PathHTMLStatus)
	assert.Equal(t, ContentTypeHTML, html.ContentType)
	assert.Contains(t, html.Body, "<!-- STATUS: UP -->")
}

func TestDirectoryListsEveryEndpoint(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	rt := NewRouter(sim)

	body := decode[DirectoryPayload](t, call(t, rt, PathRoot))
	assert.Contains(t, body.Endpoints, PathStatusCode)
	assert.Contains(t, body.Endpoints, PathDockerUnhealthy)
	assert.NotContains(t, body.Endpoints, PathRoot)
}
