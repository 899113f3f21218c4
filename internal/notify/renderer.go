package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a notification into a subject and an HTML body. Every
// template file defines "<id>.subject" and "<id>.body".
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(organization string) (*Renderer, error) {
	tmpl, err := template.New("mail").
		Funcs(template.FuncMap{"org": func() string { return organization }}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(id domain.TemplateID, data any) (subject string, body string, err error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(id)+".subject", data); err != nil {
		return "", "", err
	}
	subject = strings.TrimSpace(html.UnescapeString(buf.String()))

	buf.Reset()
	if err := r.tmpl.ExecuteTemplate(&buf, string(id)+".body", data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
