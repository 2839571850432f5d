// Package api assembles the REST module: the embed and nodes routes mounted
// under the configured base path with their OpenAPI document.
package api

import (
	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/internal/infrastructure"
	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/middleware"
	"github.com/JaimeStill/djedi/pkg/module"
	"github.com/JaimeStill/djedi/pkg/openapi"
	"github.com/JaimeStill/djedi/pkg/routes"
)

// Module is the mounted REST module together with its routing table.
type Module struct {
	*module.Module
	Routes *routes.Table
	Domain *Domain
	spec   []byte
}

// NewModule builds the REST module from cfg on top of infra.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, &cfg.Auth)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)

	router := routes.NewRouter()
	router.Use(middleware.InstrumentBy(routes.RouteName))
	table := registerRoutes(router, spec, runtime, domain)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, router)
	m.Use(middleware.CORS(&cfg.API.CORS))

	return &Module{
		Module: m,
		Routes: table,
		Domain: domain,
		spec:   specBytes,
	}, nil
}

// Spec returns the rendered OpenAPI document.
func (m *Module) Spec() []byte {
	return m.spec
}

// Start starts the domain systems that own background work.
func (m *Module) Start(lc *lifecycle.Coordinator) {
	m.Domain.Nodes.Start(lc)
}
