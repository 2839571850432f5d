package api

import (
	"github.com/JaimeStill/djedi/internal/auth"
	"github.com/JaimeStill/djedi/internal/config"
	"github.com/JaimeStill/djedi/internal/nodes"
	"github.com/JaimeStill/djedi/pkg/plugins"
	"github.com/JaimeStill/djedi/pkg/uri"
)

// Domain holds the domain systems behind the REST routes.
type Domain struct {
	Nodes nodes.System
	Auth  *auth.Authenticator
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, authCfg *config.AuthConfig) *Domain {
	cache := nodes.NewCache(runtime.CMS.CacheTTLDuration(), runtime.CMS.CacheCapacity)

	nodesSys := nodes.New(
		nodes.NewRepository(runtime.Database, runtime.Logger),
		cache,
		plugins.Default(),
		NodeOptions(&runtime.CMS),
		runtime.Logger,
	)

	return &Domain{
		Nodes: nodesSys,
		Auth:  auth.New(authCfg),
	}
}

// NodeOptions maps the CMS configuration onto node resolution options.
func NodeOptions(cfg *config.CMSConfig) nodes.Options {
	return nodes.Options{
		Defaults: uri.Defaults{
			Scheme:    cfg.DefaultScheme,
			Namespace: cfg.DefaultLanguage,
			Ext:       cfg.DefaultPlugin,
		},
		Fallbacks:      cfg.FallbackLanguages,
		MaxConcurrency: cfg.MaxConcurrency,
	}
}
