package metrics

import (
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptimemock/uptimemock/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{
		Enabled: true,
		Emitter: collector,
	})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() { observability.TelemetrySystem = original })

	return collector
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "up", Outcome(200))
	assert.Equal(t, "up", Outcome(301))
	assert.Equal(t, "client_error", Outcome(404))
	assert.Equal(t, "throttled", Outcome(429))
	assert.Equal(t, "down", Outcome(500))
	assert.Equal(t, "down", Outcome(503))
}

func TestRecordersEmit(t *testing.T) {
	collector := setupTelemetry(t)

	RecordSimulatedOutcome("/flapping", 500)
	RecordSimulatedDelay("/memory-leak", 300*time.Millisecond)
	RecordAbandoned("/timeout")
	RecordStateReset("all")
	RecordError("NOT_FOUND", 404)
	RecordPanic()

	assert.Greater(t, collector.CountMetricsByName(SimulatedOutcomesTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(SimulatedDelay), 0)
	assert.Greater(t, collector.CountMetricsByName(AbandonedRequestsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(StateResetsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(ErrorsTotalName), 0)
	assert.Greater(t, collector.CountMetricsByName(PanicsTotalName), 0)
}

func TestRecordersNoopWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() { observability.TelemetrySystem = original })

	RecordSimulatedOutcome("/always-up", 200)
	RecordSimulatedDelay("/slow-response", time.Second)
	RecordStateReset("endpoint")
	SetServerStartTime(time.Now().Unix())
}
