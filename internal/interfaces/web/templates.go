package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ParseTemplates loads the dashboard and login pages. Shared markup lives in
// layout.html as the "header" and "footer" blocks.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}
