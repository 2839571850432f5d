package api

import (
	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Server config.ServerConfig
	API    config.APIConfig
	CMS    config.CMSConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
		},
		Server: cfg.Server,
		API:    cfg.API,
		CMS:    cfg.CMS,
	}
}
