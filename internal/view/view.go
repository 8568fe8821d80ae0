// Package view renders the public HTML pages from embedded html/template
// files. Every page is parsed into its own clone of the layout so each can
// define its own "content" block.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/seo"
)

//go:embed templates
var embedded embed.FS

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageInput    = "input"
	PageType     = "type"
	PageResult   = "result"
	PageArea     = "area"
	PageBlog     = "blog"
	PagePost     = "post"
	PageContent  = "page"
	PageNotFound = "notfound"
)

// Page is the layout model shared by every template. Data carries the
// page-specific model.
type Page struct {
	Locale   i18n.Locale
	SiteName string
	Meta     seo.Meta
	JSONLD   []template.JS
	// Path is the request path without the locale prefix, used by the
	// language switcher.
	Path     string
	Locales  []i18n.Locale
	Blog     bool
	Glossary interpretation.Glossary
	Data     any
}

// Renderer executes parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(bundle *i18n.Bundle) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return Load(sub, bundle)
}

// Load parses layout.tmpl plus every pages/*.tmpl from fsys.
func Load(fsys fs.FS, bundle *i18n.Bundle) (*Renderer, error) {
	if bundle == nil {
		return nil, fmt.Errorf("view: bundle is required")
	}
	base, err := template.New("_root").Funcs(funcMap(bundle)).ParseFS(fsys, "layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}
	files, err := fs.Glob(fsys, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("view: no page templates found")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = t
	}
	return r, nil
}

// Has reports whether a page template named name was loaded.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes the named page into a buffer and writes it with status.
// Nothing is written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	if p.Locale == "" {
		p.Locale = i18n.DefaultLocale
	}
	if p.Locales == nil {
		p.Locales = i18n.Locales()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
