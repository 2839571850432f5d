// Package server wires infrastructure, the API module and the HTTP listener
// into a single service with coordinated startup and graceful shutdown.
package server

import (
	"net/http"
	"time"

	"github.com/JaimeStill/djedi/internal/api"
	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/internal/infrastructure"
	"github.com/JaimeStill/djedi/pkg/middleware"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra   *infrastructure.Infrastructure
	api     *api.Module
	handler http.Handler
	http    *httpServer
}

// New creates the service from cfg.
func New(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithInfrastructure(cfg, infra)
}

// NewWithInfrastructure creates the service on top of an existing infrastructure.
func NewWithInfrastructure(cfg *config.Config, infra *infrastructure.Infrastructure) (*Server, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	mw := middleware.New()
	mw.Use(middleware.Logger(infra.Logger.With("system", "access")))
	handler := mw.Apply(buildRouter(infra, apiModule))

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"base_path", cfg.API.BasePath,
		"namespace", cfg.API.Namespace,
	)

	return &Server{
		infra:   infra,
		api:     apiModule,
		handler: handler,
		http:    newHTTPServer(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Handler returns the root handler served by the listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// API returns the mounted REST module.
func (s *Server) API() *api.Module {
	return s.api
}

// Start starts the infrastructure, the domain systems and the listener.
// Lifecycle readiness is set once every startup hook has finished.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.api.Start(s.infra.Lifecycle)

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// StartHandlers is Start without the listener, for serving through Handler.
func (s *Server) StartHandlers() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	s.api.Start(s.infra.Lifecycle)
	s.infra.Lifecycle.WaitForStartup()
	return nil
}

// Shutdown stops all subsystems, waiting at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
