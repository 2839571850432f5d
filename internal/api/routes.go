package api

import (
	"github.com/gorilla/mux"

	"github.com/JaimeStill/djedi/internal/embed"
	"github.com/JaimeStill/djedi/internal/nodes"
	"github.com/JaimeStill/djedi/pkg/openapi"
	"github.com/JaimeStill/djedi/pkg/routes"
)

// registerRoutes mounts the REST routes under the configured namespace:
//
//	GET  embed/  <namespace>:rest.embed
//	POST nodes/  <namespace>:rest.nodes
func registerRoutes(router *mux.Router, spec *openapi.Spec, runtime *Runtime, domain *Domain) *routes.Table {
	embedHandler := embed.NewHandler(domain.Auth, embed.Options{
		AdminURL:   runtime.CMS.AdminURL,
		Theme:      runtime.CMS.Theme,
		TrustProxy: runtime.Server.TrustProxy,
	}, runtime.Logger)
	nodesHandler := nodes.NewHandler(domain.Nodes, runtime.Logger, runtime.API.MaxBodySizeBytes())

	spec.Components.AddSchemas(nodes.Spec.Schemas)

	return routes.Register(
		router,
		runtime.API.BasePath,
		spec,
		routes.Group{
			Namespace: runtime.API.Namespace,
			Children: []routes.Group{
				embedHandler.Routes(),
				nodesHandler.Routes(),
			},
		},
	)
}
