package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"todo-list/internal/transfer"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"ago": humanize.Time,
	"iso": transfer.FormatTimestamp,
	"stamp": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return humanize.Comma(int64(n)) + " " + singular
		}
		return humanize.Comma(int64(n)) + " " + plural
	},
}

var templates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))

// render executes the named template into a buffer first, so a template
// error still produces a clean 500.
func render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
