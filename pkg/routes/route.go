package routes

import (
	"net/http"

	"github.com/JaimeStill/djedi/pkg/openapi"
)

// Route binds an exact pattern and method to a handler. Name is the
// unqualified route name; the enclosing Group supplies its namespace.
type Route struct {
	Method  string
	Pattern string
	Name    string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
