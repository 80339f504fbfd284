package metrics

import (
	"strconv"
	"time"

	"github.com/uptimemock/uptimemock/internal/observability"
)

// Simulation metrics following Prometheus conventions
const (
	SimulatedOutcomesTotal = "mock_simulated_outcomes_total"
	SimulatedDelay         = "mock_simulated_delay_ms"
	AbandonedRequestsTotal = "mock_abandoned_requests_total"
	StateResetsTotal       = "mock_state_resets_total"
	ServerStartTime        = "app_server_start_time_seconds"
)

// Outcome classifies a simulated response the way an uptime monitor would.
func Outcome(status int) string {
	switch {
	case status >= 500:
		return "down"
	case status == 429:
		return "throttled"
	case status >= 400:
		return "client_error"
	default:
		return "up"
	}
}

// RecordSimulatedOutcome counts a response served by a mock endpoint.
func RecordSimulatedOutcome(endpoint string, status int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		SimulatedOutcomesTotal,
		1,
		map[string]string{
			"endpoint": endpoint,
			"outcome":  Outcome(status),
			"status":   strconv.Itoa(status),
		},
	)
}

// RecordSimulatedDelay records an artificial delay applied by an endpoint.
func RecordSimulatedDelay(endpoint string, delay time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Histogram(
		SimulatedDelay,
		delay,
		map[string]string{"endpoint": endpoint},
	)
}

// RecordAbandoned counts requests whose client left before a response was written.
func RecordAbandoned(endpoint string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		AbandonedRequestsTotal,
		1,
		map[string]string{"endpoint": endpoint},
	)
}

// RecordStateReset counts operator resets of endpoint state.
func RecordStateReset(scope string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		StateResetsTotal,
		1,
		map[string]string{"scope": scope},
	)
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(
		ServerStartTime,
		float64(timestamp),
		nil,
	)
}
