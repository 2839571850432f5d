package embed

import "github.com/JaimeStill/djedi/pkg/openapi"

type spec struct {
	Embed *openapi.Operation
}

var Spec = spec{
	Embed: &openapi.Operation{
		OperationID: "embed",
		Summary:     "CMS toolbar embed",
		Description: "Returns the HTML snippet that loads the CMS toolbar when the caller has CMS permission, " +
			"otherwise an empty 204 response.",
		Parameters: []*openapi.Parameter{
			openapi.HeaderParam("Authorization", "Bearer token carrying CMS permission", false),
			openapi.CookieParam("djedi_session", "Session token carrying CMS permission"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseHTML("Embed snippet"),
			204: {Description: "Caller has no CMS permission"},
			500: openapi.ResponseRef("InternalServerError"),
		},
	},
}
