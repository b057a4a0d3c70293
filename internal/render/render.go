// Package render is the HTML presentation boundary. Handlers hand it view
// models; it owns the embedded templates and never panics the process on a
// bad template execution.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	logger *slog.Logger
	tmpl   *template.Template
}

// New parses the embedded templates.
func New(logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{logger: logger, tmpl: tmpl}, nil
}

// HTML renders the named template into the response. Execution errors are
// logged and answered with a plain 500 so a broken view never takes the
// request down half-written.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.ErrorContext(r.Context(), "Failed to execute template",
			slog.String("template", name), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.ErrorContext(r.Context(), "Failed to write response body",
			slog.String("template", name), slog.Any("error", err))
	}
}
