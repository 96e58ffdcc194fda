package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an embedded html template, without extension.
type Template string

const (
	TemplateVisitScheduled Template = "visit_scheduled"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named template with data.
func Render(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
