package embed

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/djedi/pkg/handlers"
	"github.com/JaimeStill/djedi/pkg/routes"
)

// Authorizer decides whether a request may use the CMS.
type Authorizer interface {
	HasPermission(r *http.Request) bool
}

// Options configures the embed snippet.
type Options struct {
	AdminURL   string
	Theme      string
	TrustProxy bool
}

type Handler struct {
	auth   Authorizer
	opts   Options
	logger *slog.Logger
}

func NewHandler(auth Authorizer, opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		opts:   opts,
		logger: logger.With("handler", "embed"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Embed"},
		Description: "CMS toolbar embed",
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "embed/",
				Name:    "rest.embed",
				Handler: h.Embed,
				OpenAPI: Spec.Embed,
			},
		},
	}
}

// Embed returns the toolbar snippet to CMS users and 204 to everyone else.
func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	handlers.NoCache(w)

	if !h.auth.HasPermission(r) {
		handlers.RespondNoContent(w)
		return
	}

	var buf bytes.Buffer
	data := Data{
		Prefix:   Prefix(r, h.opts.TrustProxy),
		AdminURL: h.opts.AdminURL,
		Theme:    h.opts.Theme,
	}
	if err := Render(&buf, data); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("render embed: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
