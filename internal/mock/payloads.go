package mock

// StatusPayload is the common up/down body.
type StatusPayload struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// CounterPayload reports the running request number of a stateful endpoint.
type CounterPayload struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	RequestNumber int    `json:"requestNumber"`
	Timestamp     string `json:"timestamp"`
}

// LatencyPayload reports how long a slow endpoint waited.
type LatencyPayload struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"responseTime"`
	Timestamp    string `json:"timestamp"`
}

// DegradedMetrics are the synthetic numbers served by /degraded.
type DegradedMetrics struct {
	ResponseTime int `json:"responseTime"`
	CPUUsage     int `json:"cpuUsage"`
	MemoryUsage  int `json:"memoryUsage"`
}

type DegradedPayload struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Metrics   DegradedMetrics `json:"metrics"`
	Timestamp string          `json:"timestamp"`
}

type MaintenancePayload struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ExpectedBackAt string `json:"expectedBackAt"`
	Timestamp      string `json:"timestamp"`
}

type ScheduledDownPayload struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	NextUptime string `json:"nextUptime"`
	Timestamp  string `json:"timestamp"`
}

type RateLimitedPayload struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
	Timestamp  string `json:"timestamp"`
}

type QuotaPayload struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	RemainingRequests int    `json:"remainingRequests"`
	Timestamp         string `json:"timestamp"`
}

// HealthChecks lists the simulated dependencies of /health.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Queue    string `json:"queue"`
}

type HealthPayload struct {
	Status    string       `json:"status"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	Timestamp string       `json:"timestamp"`
	Checks    HealthChecks `json:"checks"`
}

// Services is the per-subsystem up map of /partial-outage.
type Services struct {
	API      bool `json:"api"`
	Database bool `json:"database"`
	Cache    bool `json:"cache"`
	CDN      bool `json:"cdn"`
	Auth     bool `json:"auth"`
}

func (s Services) values() []bool {
	return []bool{s.API, s.Database, s.Cache, s.CDN, s.Auth}
}

// AllUp reports whether every service is up.
func (s Services) AllUp() bool {
	for _, up := range s.values() {
		if !up {
			return false
		}
	}
	return true
}

// AllDown reports whether every service is down.
func (s Services) AllDown() bool {
	for _, up := range s.values() {
		if up {
			return false
		}
	}
	return true
}

type PartialOutagePayload struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Services  Services `json:"services"`
	Timestamp string   `json:"timestamp"`
}

type MemoryLeakPayload struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	SimulatedDelay string `json:"simulatedDelay"`
	RequestCount   int    `json:"requestCount"`
	Timestamp      string `json:"timestamp"`
}

type StatusCodePayload struct {
	Status        string `json:"status"`
	RequestedCode int    `json:"requestedCode"`
	Timestamp     string `json:"timestamp"`
}

type KeywordPayload struct {
	Status    string `json:"status"`
	Keyword   string `json:"keyword"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type TCPPayload struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Port      int    `json:"port"`
	Timestamp string `json:"timestamp"`
}

// Certificate describes the simulated TLS certificate of /cert-check.
type Certificate struct {
	Subject         string `json:"subject"`
	Issuer          string `json:"issuer"`
	ValidFrom       string `json:"validFrom"`
	ValidUntil      string `json:"validUntil"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

type CertPayload struct {
	Status      string      `json:"status"`
	Certificate Certificate `json:"certificate"`
	Timestamp   string      `json:"timestamp"`
}

// ContainerHealth mirrors the docker health block.
type ContainerHealth struct {
	Status        string `json:"status"`
	FailingStreak int    `json:"failingStreak"`
	Log           string `json:"log,omitempty"`
}

type DockerPayload struct {
	Status    string          `json:"status"`
	Container string          `json:"container"`
	State     string          `json:"state"`
	Health    ContainerHealth `json:"health"`
	Timestamp string          `json:"timestamp"`
}

// DirectoryPayload is served at / and lists every endpoint.
type DirectoryPayload struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Usage       string            `json:"usage"`
}

// NotFoundPayload answers unmatched paths.
type NotFoundPayload struct {
	Status             string   `json:"status"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"availableEndpoints"`
	Timestamp          string   `json:"timestamp"`
}
