package mock

import (
	"time"
)

// Endpoint paths.
const (
	PathRoot             = "/"
	PathAlwaysUp         = "/always-up"
	PathAlwaysDown       = "/always-down"
	PathRandomFailures   = "/random-failures"
	PathFrequentFailures = "/frequent-failures"
	PathSlowResponse     = "/slow-response"
	PathVerySlow         = "/very-slow"
	PathIntermittent     = "/intermittent"
	PathDegraded         = "/degraded"
	PathMaintenance      = "/maintenance"
	PathScheduledDown    = "/scheduled-down"
	PathFlapping         = "/flapping"
	PathTimeout          = "/timeout"
	PathRateLimited      = "/rate-limited"
	PathHealth           = "/health"
	PathPartialOutage    = "/partial-outage"
	PathMemoryLeak       = "/memory-leak"
	PathStatusCode       = "/status/:code"
	PathKeywordCheck     = "/keyword-check"
	PathHTMLStatus       = "/html-status"
	PathTCPCheck         = "/tcp-check"
	PathPing             = "/ping"
	PathCertCheck        = "/cert-check"
	PathDockerHealthy    = "/docker/healthy"
	PathDockerUnhealthy  = "/docker/unhealthy"

	// StatusCodePrefix routes every path below it to the status-code endpoint.
	StatusCodePrefix = "/status/"
)

// Category groups endpoints in listings.
type Category string

const (
	CategoryAlways    Category = "always"
	CategoryFailures  Category = "failure-patterns"
	CategoryTiming    Category = "timing"
	CategoryStatus    Category = "status-variations"
	CategoryHealth    Category = "health-checks"
	CategoryCustom    Category = "custom-status"
	CategoryDocker    Category = "docker"
	CategoryDirectory Category = "directory"
)

// Endpoint is one simulated monitoring target.
type Endpoint struct {
	// Path is the display path. Parameterized endpoints use ":name" segments.
	Path string `json:"path" yaml:"path"`
	// Route is the chi pattern the endpoint is mounted on.
	Route         string   `json:"route" yaml:"route"`
	Description   string   `json:"description" yaml:"description"`
	Category      Category `json:"category" yaml:"category"`
	Parameterized bool     `json:"parameterized" yaml:"parameterized"`
	// Stateful endpoints keep a StateStore entry under Path.
	Stateful bool        `json:"stateful" yaml:"stateful"`
	Handler  HandlerFunc `json:"-" yaml:"-"`
}

// Endpoints returns the catalog in display order, bound to s.
func (s *Simulator) Endpoints() []Endpoint {
	endpoints := []Endpoint{
		{Path: PathAlwaysUp, Description: "Always returns 200 OK", Category: CategoryAlways, Handler: s.alwaysUp},
		{Path: PathAlwaysDown, Description: "Always returns 500 error", Category: CategoryAlways, Handler: s.alwaysDown},

		{Path: PathRandomFailures, Description: "20% chance of failure", Category: CategoryFailures,
			Handler: s.randomFailure(randomFailureRate, "Random failure occurred")},
		{Path: PathFrequentFailures, Description: "50% chance of failure", Category: CategoryFailures,
			Handler: s.randomFailure(frequentFailureRate, "Frequent failure occurred")},
		{Path: PathIntermittent, Description: "Fails every 3rd request", Category: CategoryFailures, Stateful: true, Handler: s.intermittent},
		{Path: PathFlapping, Description: "Alternates between up and down", Category: CategoryFailures, Stateful: true, Handler: s.flapping},

		{Path: PathSlowResponse, Description: "2-5 second delay", Category: CategoryTiming,
			Handler: s.slow(PathSlowResponse, 2*time.Second, 3*time.Second, "Slow response completed")},
		{Path: PathVerySlow, Description: "10-15 second delay (may timeout)", Category: CategoryTiming,
			Handler: s.slow(PathVerySlow, 10*time.Second, 5*time.Second, "Very slow response completed")},
		{Path: PathTimeout, Description: "Never responds (tests timeout handling)", Category: CategoryTiming, Handler: s.hang},
		{Path: PathMemoryLeak, Description: "Gets slower with each request", Category: CategoryTiming, Stateful: true, Handler: s.memoryLeak},

		{Path: PathDegraded, Description: "Returns 200 with degraded status", Category: CategoryStatus, Handler: s.degraded},
		{Path: PathMaintenance, Description: "Returns 503 maintenance mode", Category: CategoryStatus, Handler: s.maintenance},
		{Path: PathScheduledDown, Description: "Down during minutes 0-5 and 30-35", Category: CategoryStatus, Handler: s.scheduledDown},
		{Path: PathPartialOutage, Description: "Random partial service outage", Category: CategoryStatus, Handler: s.partialOutage},
		{Path: PathRateLimited, Description: "Returns 429 after 10 req/min", Category: CategoryStatus, Stateful: true, Handler: s.rateLimited},

		{Path: PathHealth, Description: "Detailed health check response", Category: CategoryHealth, Handler: s.health},
		{Path: PathPing, Description: "Simple ping/pong", Category: CategoryHealth, Handler: s.ping},
		{Path: PathKeywordCheck, Description: "JSON with monitorable keywords", Category: CategoryHealth, Handler: s.keywordCheck},
		{Path: PathHTMLStatus, Description: "HTML page with status", Category: CategoryHealth, Handler: s.htmlStatus},
		{Path: PathCertCheck, Description: "Certificate expiry simulation", Category: CategoryHealth, Handler: s.certCheck},
		{Path: PathTCPCheck, Description: "TCP port check simulation", Category: CategoryHealth, Handler: s.tcpCheck},

		{Path: PathStatusCode, Route: StatusCodePrefix + "*", Description: "Returns specified HTTP status code",
			Category: CategoryCustom, Parameterized: true, Handler: s.statusCode},

		{Path: PathDockerHealthy, Description: "Healthy container status", Category: CategoryDocker, Handler: s.dockerHealthy},
		{Path: PathDockerUnhealthy, Description: "Unhealthy container status", Category: CategoryDocker, Handler: s.dockerUnhealthy},
	}

	for i := range endpoints {
		if endpoints[i].Route == "" {
			endpoints[i].Route = endpoints[i].Path
		}
	}

	directory := Endpoint{
		Path:        PathRoot,
		Route:       PathRoot,
		Description: "Directory of all endpoints",
		Category:    CategoryDirectory,
	}
	directory.Handler = s.directory(endpoints)

	return append(endpoints, directory)
}
