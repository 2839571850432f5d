package nodes

import "github.com/JaimeStill/djedi/pkg/openapi"

type spec struct {
	Load    *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec holds the OpenAPI operations and schemas for the nodes endpoint.
var Spec = spec{
	Load: &openapi.Operation{
		OperationID: "loadNodes",
		Summary:     "Resolve content nodes",
		Description: "Resolves each node URI to its published or pinned content. " +
			"Unknown nodes fall back to the supplied default, rendered by the URI plugin.",
		RequestBody: openapi.RequestBodyJSON("NodesRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rendered content by response URI", "NodesResponse"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			500: openapi.ResponseRef("InternalServerError"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"NodesRequest": {
			Type:                 "object",
			Description:          "Node URI to default content, or null for no default",
			AdditionalProperties: openapi.Nullable("string"),
			Example:              map[string]any{"i18n://en-us@page/title.txt": "Welcome", "page/body.md": nil},
		},
		"NodesResponse": {
			Type:                 "object",
			Description:          "Resolved node URI to rendered content, or null when nothing was found",
			AdditionalProperties: openapi.Nullable("string"),
			Example:              map[string]any{"i18n://en-us@page/title.txt#1": "Welcome", "i18n://en-us@page/body.md": nil},
		},
	},
}
