package mock

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HandlerFunc produces the simulated response for one request.
type HandlerFunc func(r *http.Request) Response

const (
	randomFailureRate   = 0.2
	frequentFailureRate = 0.5

	intermittentPeriod = 3

	rateLimitRequests = 10
	rateLimitWindow   = time.Minute
	rateLimitRetry    = 60

	memoryLeakStep = 100 * time.Millisecond
	memoryLeakCap  = 10 * time.Second

	certWarningDays = 7
	certMaxDays     = 90

	htmlUpProbability = 0.9
)

var keywords = []string{"OPERATIONAL", "ALL_SYSTEMS_GO", "STATUS_OK"}

func (s *Simulator) alwaysUp(*http.Request) Response {
	return JSON(http.StatusOK, StatusPayload{
		Status:    "ok",
		Message:   "This endpoint is always available",
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) alwaysDown(*http.Request) Response {
	return JSON(http.StatusInternalServerError, StatusPayload{
		Status:    "error",
		Message:   "This endpoint is always down",
		Timestamp: s.timestamp(),
	})
}

// randomFailure fails with probability rate.
func (s *Simulator) randomFailure(rate float64, failMessage string) HandlerFunc {
	return func(*http.Request) Response {
		if s.sampler.Float64() < rate {
			return JSON(http.StatusInternalServerError, StatusPayload{
				Status:    "error",
				Message:   failMessage,
				Timestamp: s.timestamp(),
			})
		}
		return JSON(http.StatusOK, StatusPayload{
			Status:    "ok",
			Message:   "Request succeeded",
			Timestamp: s.timestamp(),
		})
	}
}

// slow waits a uniformly sampled duration in [lo, lo+span) before answering.
func (s *Simulator) slow(path string, lo, span time.Duration, message string) HandlerFunc {
	return func(r *http.Request) Response {
		delay := s.uniformDuration(lo, span)
		if !s.wait(r.Context(), path, delay) {
			return abandoned()
		}
		return JSON(http.StatusOK, LatencyPayload{
			Status:       "ok",
			Message:      message,
			ResponseTime: formatMillis(delay),
			Timestamp:    s.timestamp(),
		})
	}
}

func (s *Simulator) intermittent(r *http.Request) Response {
	state := s.store.Touch(PathIntermittent, nil)
	if state.RequestCount%intermittentPeriod == 0 {
		return JSON(http.StatusInternalServerError, CounterPayload{
			Status:        "error",
			Message:       "Every 3rd request fails",
			RequestNumber: state.RequestCount,
			Timestamp:     s.timestamp(),
		})
	}
	return JSON(http.StatusOK, CounterPayload{
		Status:        "ok",
		Message:       "Request succeeded",
		RequestNumber: state.RequestCount,
		Timestamp:     s.timestamp(),
	})
}

func (s *Simulator) degraded(*http.Request) Response {
	return JSON(http.StatusOK, DegradedPayload{
		Status:  "degraded",
		Message: "Service is running but performance is degraded",
		Metrics: DegradedMetrics{
			ResponseTime: s.uniformInt(500, 1000),
			CPUUsage:     s.uniformInt(70, 25),
			MemoryUsage:  s.uniformInt(80, 15),
		},
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) maintenance(*http.Request) Response {
	return JSON(http.StatusServiceUnavailable, MaintenancePayload{
		Status:         "maintenance",
		Message:        "Service is under maintenance",
		ExpectedBackAt: s.now().Add(time.Hour).UTC().Format(timestampLayout),
		Timestamp:      s.timestamp(),
	})
}

// InScheduledDowntime reports whether minute-of-hour falls in a maintenance window.
func InScheduledDowntime(t time.Time) bool {
	minute := t.Minute()
	return minute < 5 || (minute >= 30 && minute < 35)
}

func (s *Simulator) scheduledDown(*http.Request) Response {
	if InScheduledDowntime(s.now()) {
		return JSON(http.StatusServiceUnavailable, ScheduledDownPayload{
			Status:     "scheduled_downtime",
			Message:    "Scheduled maintenance window",
			NextUptime: "In a few minutes",
			Timestamp:  s.timestamp(),
		})
	}
	return JSON(http.StatusOK, StatusPayload{
		Status:    "ok",
		Message:   "Service is operational",
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) flapping(r *http.Request) Response {
	state := s.store.Touch(PathFlapping, func(st *EndpointState, _ time.Duration) {
		st.IsDown = st.RequestCount%2 == 0
	})
	if state.IsDown {
		return JSON(http.StatusInternalServerError, CounterPayload{
			Status:        "error",
			Message:       "Service is flapping (currently down)",
			RequestNumber: state.RequestCount,
			Timestamp:     s.timestamp(),
		})
	}
	return JSON(http.StatusOK, CounterPayload{
		Status:        "ok",
		Message:       "Service is flapping (currently up)",
		RequestNumber: state.RequestCount,
		Timestamp:     s.timestamp(),
	})
}

// hang never answers. The request ends when the client gives up.
func (s *Simulator) hang(r *http.Request) Response {
	<-r.Context().Done()
	return abandoned()
}

func (s *Simulator) rateLimited(r *http.Request) Response {
	state := s.store.Touch(PathRateLimited, func(st *EndpointState, idle time.Duration) {
		if idle > rateLimitWindow {
			st.RequestCount = 1
		}
		st.IsDown = st.RequestCount > rateLimitRequests
		st.DownUntil = nil
		if st.IsDown {
			until := st.LastRequestTime.Add(rateLimitWindow)
			st.DownUntil = &until
		}
	})

	if state.IsDown {
		resp := JSON(http.StatusTooManyRequests, RateLimitedPayload{
			Status:     "rate_limited",
			Message:    "Too many requests",
			RetryAfter: rateLimitRetry,
			Timestamp:  s.timestamp(),
		})
		return resp.WithHeader("Retry-After", strconv.Itoa(rateLimitRetry))
	}
	return JSON(http.StatusOK, QuotaPayload{
		Status:            "ok",
		Message:           "Request succeeded",
		RemainingRequests: rateLimitRequests - state.RequestCount,
		Timestamp:         s.timestamp(),
	})
}

func (s *Simulator) health(*http.Request) Response {
	return JSON(http.StatusOK, HealthPayload{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    s.Uptime().Seconds(),
		Timestamp: s.timestamp(),
		Checks: HealthChecks{
			Database: "connected",
			Cache:    "connected",
			Queue:    "connected",
		},
	})
}

// SampleServices draws the up/down state of each partial-outage subsystem.
func (s *Simulator) SampleServices() Services {
	return Services{
		API:      s.sampler.Float64() > 0.1,
		Database: s.sampler.Float64() > 0.3,
		Cache:    s.sampler.Float64() > 0.2,
		CDN:      true,
		Auth:     s.sampler.Float64() > 0.15,
	}
}

func (s *Simulator) partialOutage(*http.Request) Response {
	services := s.SampleServices()

	status, message, code := "partial", "Partial outage detected", http.StatusOK
	switch {
	case services.AllUp():
		status, message = "ok", "All services operational"
	case services.AllDown():
		status, message, code = "error", "Complete outage", http.StatusInternalServerError
	}

	return JSON(code, PartialOutagePayload{
		Status:    status,
		Message:   message,
		Services:  services,
		Timestamp: s.timestamp(),
	})
}

// MemoryLeakDelay is the delay applied on the count-th request to /memory-leak.
func MemoryLeakDelay(count int) time.Duration {
	delay := time.Duration(count) * memoryLeakStep
	if delay > memoryLeakCap || delay < 0 {
		return memoryLeakCap
	}
	return delay
}

func (s *Simulator) memoryLeak(r *http.Request) Response {
	state := s.store.Touch(PathMemoryLeak, nil)
	delay := MemoryLeakDelay(state.RequestCount)
	if !s.wait(r.Context(), PathMemoryLeak, delay) {
		return abandoned()
	}
	return JSON(http.StatusOK, MemoryLeakPayload{
		Status:         "ok",
		Message:        "Response with simulated memory pressure",
		SimulatedDelay: formatMillis(delay),
		RequestCount:   state.RequestCount,
		Timestamp:      s.timestamp(),
	})
}

// ParseStatusCode reads the last segment of an escaped path as an HTTP
// status code. Anything that is not an integer in [200, 599] yields 200.
// 1xx codes are informational in net/http and cannot end a response.
func ParseStatusCode(path string) int {
	segment := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		segment = path[i+1:]
	}
	code, err := strconv.Atoi(segment)
	if err != nil || code < 200 || code >= 600 {
		return http.StatusOK
	}
	return code
}

func (s *Simulator) statusCode(r *http.Request) Response {
	code := ParseStatusCode(r.URL.EscapedPath())
	status := "ok"
	if code >= 400 {
		status = "error"
	}
	return JSON(code, StatusCodePayload{
		Status:        status,
		RequestedCode: code,
		Timestamp:     s.timestamp(),
	})
}

func (s *Simulator) keywordCheck(*http.Request) Response {
	return JSON(http.StatusOK, KeywordPayload{
		Status:    "OPERATIONAL",
		Keyword:   keywords[s.uniformIndex(len(keywords))],
		Message:   "Use keyword monitoring to check for 'OPERATIONAL'",
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) htmlStatus(*http.Request) Response {
	up := s.sampler.Float64() < htmlUpProbability

	class, marker, label := "down", "<!-- STATUS: DOWN -->", "Outage"
	if up {
		class, marker, label = "up", "<!-- STATUS: UP -->", "Operational"
	}

	body := fmt.Sprintf(`
      <h1>Service Status</h1>
      <div class="status %s">
        %s
        <p>Current Status: <strong>%s</strong></p>
      </div>
      <p>Last updated: %s</p>
    `, class, marker, label, s.timestamp())
	return HTML(http.StatusOK, body)
}

func (s *Simulator) tcpCheck(*http.Request) Response {
	return JSON(http.StatusOK, TCPPayload{
		Status:    "ok",
		Message:   "TCP connection would succeed",
		Port:      s.port,
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) ping(*http.Request) Response {
	return Text(http.StatusOK, "pong")
}

func (s *Simulator) certCheck(*http.Request) Response {
	days := s.uniformIndex(certMaxDays)
	now := s.now().UTC()
	const day = 24 * time.Hour

	status := "ok"
	if days < certWarningDays {
		status = "warning"
	}

	return JSON(http.StatusOK, CertPayload{
		Status: status,
		Certificate: Certificate{
			Subject:         "*.example.com",
			Issuer:          "Let's Encrypt",
			ValidFrom:       now.Add(-30 * day).Format(timestampLayout),
			ValidUntil:      now.Add(time.Duration(days) * day).Format(timestampLayout),
			DaysUntilExpiry: days,
		},
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) dockerHealthy(*http.Request) Response {
	return JSON(http.StatusOK, DockerPayload{
		Status:    "healthy",
		Container: "app-container",
		State:     "running",
		Health:    ContainerHealth{Status: "healthy"},
		Timestamp: s.timestamp(),
	})
}

func (s *Simulator) dockerUnhealthy(*http.Request) Response {
	return JSON(http.StatusInternalServerError, DockerPayload{
		Status:    "unhealthy",
		Container: "db-container",
		State:     "running",
		Health: ContainerHealth{
			Status:        "unhealthy",
			FailingStreak: 5,
			Log:           "Connection refused",
		},
		Timestamp: s.timestamp(),
	})
}

// uniformInt returns round(lo + sample*span).
func (s *Simulator) uniformInt(lo, span float64) int {
	return int(math.Round(lo + s.sampler.Float64()*span))
}

// uniformIndex returns an integer in [0, n).
func (s *Simulator) uniformIndex(n int) int {
	i := int(s.sampler.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Round(time.Millisecond).Milliseconds())
}
