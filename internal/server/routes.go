package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uptimemock/uptimemock/internal/server/handlers"
)

// OperatorPrefix namespaces the server's own endpoints away from the
// simulated catalog, which already owns /health.
const OperatorPrefix = "/_mock"

func (s *Server) registerRoutes() {
	for _, e := range s.catalog.Endpoints() {
		h := s.endpointHandler(e)
		s.router.Get(e.Route, h)
		s.router.Head(e.Route, h)
	}

	s.router.Route(OperatorPrefix, func(r chi.Router) {
		r.Get("/health", s.health.HealthHandler)
		r.Get("/health/live", s.health.LivenessHandler)
		r.Get("/health/ready", s.health.ReadinessHandler)
		r.Get("/health/startup", s.health.StartupHandler)

		r.Method(http.MethodGet, "/version", handlers.VersionHandler{Mock: s.mockInfo})
		r.Get("/metrics", MetricsHandler)

		state := handlers.StateHandler{Store: s.sim.Store()}
		r.Get("/state", state.List)
		r.Post("/state/reset", state.Reset)
	})
}
