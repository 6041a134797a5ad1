package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed index.html
var webFS embed.FS

var homeTemplate = template.Must(template.ParseFS(webFS, "index.html"))

// Home handles GET / requests with the upload page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, nil); err != nil {
		h.logger.Error("failed to render home page",
			slog.String("error", err.Error()),
		)
	}
}
