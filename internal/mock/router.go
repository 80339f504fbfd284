package mock

import (
	"net/http"
)

// Router holds the catalog the HTTP layer mounts, one route per endpoint.
type Router struct {
	sim       *Simulator
	endpoints []Endpoint
}

// NewRouter binds the simulator's catalog. It is read-only once built.
func NewRouter(sim *Simulator) *Router {
	return &Router{
		sim:       sim,
		endpoints: sim.Endpoints(),
	}
}

// Endpoints returns the catalog in display order.
func (rt *Router) Endpoints() []Endpoint {
	out := make([]Endpoint, len(rt.endpoints))
	copy(out, rt.endpoints)
	return out
}

// ConcretePaths lists every non-parameterized path in display order.
func (rt *Router) ConcretePaths() []string {
	paths := make([]string, 0, len(rt.endpoints))
	for _, e := range rt.endpoints {
		if !e.Parameterized {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// NotFound builds the payload for an unmatched path. path is reported as
// routed, without unescaping.
func (rt *Router) NotFound(path string) Response {
	return JSON(http.StatusNotFound, NotFoundPayload{
		Status:             "not_found",
		Message:            "Endpoint " + path + " not found",
		AvailableEndpoints: rt.ConcretePaths(),
		Timestamp:          rt.sim.timestamp(),
	})
}

func (s *Simulator) directory(endpoints []Endpoint) HandlerFunc {
	listing := make(map[string]string, len(endpoints))
	for _, e := range endpoints {
		listing[e.Path] = e.Description
	}
	return func(*http.Request) Response {
		return JSON(http.StatusOK, DirectoryPayload{
			Name:        "Uptime Kuma Mock Server",
			Description: "Test endpoints for various monitoring scenarios",
			Endpoints:   listing,
			Usage:       "Configure Uptime Kuma monitors to point to these endpoints",
		})
	}
}
