// Package embed serves the CMS toolbar snippet injected into pages for
// users with CMS permission.
package embed

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"
)

//go:embed templates/embed.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/embed.html"))

// Data fills the embed template. Nodes is optional; when set it is written
// as a JSON object the admin UI reads at startup.
type Data struct {
	Prefix   string
	AdminURL string
	Theme    string
	Nodes    map[string]*string
}

// Render writes the embed snippet for data to w.
func Render(w io.Writer, data Data) error {
	return tmpl.ExecuteTemplate(w, "embed.html", data)
}

// Prefix returns the scheme and host the request was addressed to. Forwarded
// headers are only consulted when trustProxy is set, since any client can
// send them.
func Prefix(r *http.Request, trustProxy bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if !trustProxy {
		return scheme + "://" + host
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}
