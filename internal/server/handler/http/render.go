package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/atinyakov/GophTodo/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin    = "login.html"
	pageRegister = "register.html"
	pageIndex    = "index.html"
)

// Pages holds the parsed server-rendered pages, each combined with the shared layout.
type Pages struct {
	pages map[string]*template.Template
}

// pageData is the value every page template is executed with.
type pageData struct {
	Title    string
	Error    string
	Username string
	User     *models.User
	Tasks    []models.Task
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	p := &Pages{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLogin, pageRegister, pageIndex} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.pages[name] = t
	}
	return p, nil
}

// Render executes the named page into a buffer and writes it with the given status.
// Nothing is written to w if execution fails.
func (p *Pages) Render(w http.ResponseWriter, name string, status int, data pageData) error {
	t, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
