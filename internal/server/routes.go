package server

import (
	"net/http"

	"github.com/JaimeStill/djedi/internal/api"
	"github.com/JaimeStill/djedi/internal/infrastructure"
	"github.com/JaimeStill/djedi/pkg/lifecycle"
	"github.com/JaimeStill/djedi/pkg/metrics"
	"github.com/JaimeStill/djedi/pkg/module"
	"github.com/JaimeStill/djedi/pkg/openapi"
	"github.com/JaimeStill/djedi/web/scalar"
)

// buildRouter mounts the API module and the native service routes.
func buildRouter(infra *infrastructure.Infrastructure, apiModule *api.Module) *module.Router {
	metrics.Register()

	router := module.NewRouter()
	router.HandleNative("GET /healthz", handleHealthCheck)
	router.HandleNative("GET /readyz", handleReadinessCheck(infra))
	router.HandleNative("GET /metrics", metrics.Handler().ServeHTTP)
	router.HandleNative("GET /openapi.json", openapi.ServeSpec(apiModule.Spec()))
	router.HandleNative("GET /docs", scalar.Handler())
	router.Mount(apiModule.Module)

	return router
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReadinessCheck reports ready once startup has completed and the
// database answers a ping.
func handleReadinessCheck(infra *infrastructure.Infrastructure) http.HandlerFunc {
	var ready lifecycle.ReadinessChecker = infra.Lifecycle
	return func(w http.ResponseWriter, r *http.Request) {
		if !ready.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		if err := infra.Database.Ping(r.Context()); err != nil {
			infra.Logger.Warn("readiness ping failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
