package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/uptimemock/uptimemock/internal/config"
	apperrors "github.com/uptimemock/uptimemock/internal/errors"
	"github.com/uptimemock/uptimemock/internal/mock"
	"github.com/uptimemock/uptimemock/internal/observability"
	"github.com/uptimemock/uptimemock/internal/server/handlers"
	servermw "github.com/uptimemock/uptimemock/internal/server/middleware"
)

// Options configures a Server.
type Options struct {
	Server    config.ServerConfig
	PoweredBy string
	Simulator *mock.Simulator
	// Health is created from the simulator when nil.
	Health *handlers.HealthManager
	// MockInfo is reported by /_mock/version.
	MockInfo handlers.MockInfo
}

// Server serves the simulated endpoints and the operator surface.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	cfg       config.ServerConfig
	poweredBy string
	sim       *mock.Simulator
	catalog   *mock.Router
	health    *handlers.HealthManager
	mockInfo  handlers.MockInfo
}

// New builds the chi router and mounts every catalog endpoint.
func New(opts Options) *Server {
	sim := opts.Simulator
	if sim == nil {
		sim = mock.NewSimulator()
	}
	poweredBy := opts.PoweredBy
	if poweredBy == "" {
		poweredBy = config.DefaultPoweredBy
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	s := &Server{
		router:    r,
		cfg:       opts.Server,
		poweredBy: poweredBy,
		sim:       sim,
		catalog:   mock.NewRouter(sim),
		health:    opts.Health,
		mockInfo:  opts.MockInfo,
	}
	if s.health == nil {
		s.health = handlers.NewHealthManager(handlers.AppVersion)
	}
	s.registerHealthCheckers()

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.render(w, req, "", s.catalog.NotFound(routingPath(req)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		err := apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource")
		HandleError(w, req, err)
	})

	handlers.SetHTTPErrorResponder(HandleError)

	s.registerRoutes()
	return s
}

func (s *Server) registerHealthCheckers() {
	s.health.RegisterChecker("catalog", handlers.CheckerFunc(func(context.Context) error {
		if len(s.catalog.Endpoints()) == 0 {
			return errors.New("endpoint catalog is empty")
		}
		return nil
	}))
	s.health.RegisterChecker("state_store", handlers.CheckerFunc(func(context.Context) error {
		if s.sim.Store() == nil {
			return errors.New("state store not initialized")
		}
		return nil
	}))
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.server = s.httpServer()

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Starting mock server",
			zap.String("addr", ln.Addr().String()),
			zap.Int("endpoints", len(s.catalog.Endpoints())))
	}

	return s.server.Serve(ln)
}

// Shutdown drains in-flight requests until ctx expires, then closes every
// remaining connection. Requests parked on /timeout only end that way.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.server == nil {
		return nil
	}

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Shutting down mock server")
	}

	err := s.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if observability.ServerLogger != nil {
			observability.ServerLogger.Warn("Shutdown timeout elapsed, abandoning open requests")
		}
		return s.server.Close()
	}
	return err
}

// Handler exposes the router for tests and instrumentation.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Catalog returns the endpoint table the server mounted.
func (s *Server) Catalog() *mock.Router {
	return s.catalog
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.cfg.Port
}
