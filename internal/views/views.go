// Package views renders the storefront HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

// Pages lists every page template. Each is rendered inside layout.html.
var Pages = []string{
	"login", "home", "automaker", "contact", "product", "new", "about",
	"create-user", "admin", "users", "update-user",
	"motos", "create-moto", "update-moto", "mylibrary",
	"reset-password", "update-password",
}

// Renderer executes parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(Pages))
	for _, name := range Pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes page with status. The page is executed into a buffer first
// so a template error never leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"pageNumbers": func(total int) []int {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"list": func(items ...string) []string { return items },
}
