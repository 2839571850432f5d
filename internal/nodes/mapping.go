package nodes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/djedi/pkg/plugins"
	"github.com/JaimeStill/djedi/pkg/uri"
)

// MapHTTPStatus maps node errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, uri.ErrInvalidURI),
		errors.Is(err, plugins.ErrUnknownPlugin),
		errors.Is(err, ErrVersionRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
