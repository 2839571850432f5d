package nodes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/djedi/pkg/handlers"
	"github.com/JaimeStill/djedi/pkg/routes"
)

// Handler serves the node loading endpoint.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "nodes"),
		maxBodySize: maxBodySize,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Nodes"},
		Description: "Content node resolution",
		Routes: []routes.Route{
			{
				Method:  http.MethodPost,
				Pattern: "nodes/",
				Name:    "rest.nodes",
				Handler: h.Load,
				OpenAPI: Spec.Load,
			},
		},
	}
}

// Load resolves a JSON object of node URIs to defaults into a JSON object of
// response URIs to rendered content.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	handlers.NoCache(w)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req map[string]*string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.sys.Load(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
