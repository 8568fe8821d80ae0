// Package content serves the markdown pages of the site: blog posts and the
// static about and privacy pages. Files are read once, rendered with goldmark
// and sanitised before they reach a template.
package content

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
)

// Kind groups pages by URL space.
type Kind string

const (
	KindBlog Kind = "blog"
	KindPage Kind = "pages"
)

// ErrNotFound is returned when no locale, including the fallback, has the page.
var ErrNotFound = errors.New("content: not found")

//go:embed files
var embedded embed.FS

// Heading is an anchored h2 used for the in-page table of contents.
type Heading struct {
	ID   string
	Text string
}

// Page is a rendered markdown document.
type Page struct {
	Kind        Kind
	Slug        string
	Locale      i18n.Locale
	Title       string
	Description string
	Keywords    []string
	Published   time.Time
	Updated     time.Time
	HTML        template.HTML
	Excerpt     string
	Headings    []Heading
	// Fallback is set when the page was served from the fallback locale.
	Fallback bool
}

// LastModified is Updated, or Published when the page was never revised.
func (p Page) LastModified() time.Time {
	if !p.Updated.IsZero() {
		return p.Updated
	}
	return p.Published
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Published   string   `yaml:"published"`
	Updated     string   `yaml:"updated"`
	Draft       bool     `yaml:"draft"`
}

type pageKey struct {
	locale i18n.Locale
	kind   Kind
	slug   string
}

// Library holds every rendered page.
type Library struct {
	pages    map[pageKey]Page
	fallback i18n.Locale
}

// Default loads the embedded content tree with the default locale as fallback.
func Default() (*Library, error) {
	return Embedded(i18n.DefaultLocale)
}

// Embedded loads the embedded content tree. Pages missing in a locale are
// served from fallback.
func Embedded(fallback i18n.Locale) (*Library, error) {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		return nil, err
	}
	return Load(sub, fallback)
}

// Load reads <locale>/<kind>/<slug>.md files from fsys. Directories that are
// not a supported locale or kind are rejected so typos surface at startup.
func Load(fsys fs.FS, fallback i18n.Locale) (*Library, error) {
	lib := &Library{pages: map[pageKey]Page{}, fallback: fallback}
	renderer := newRenderer()

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		parts := strings.Split(p, "/")
		if len(parts) != 3 {
			return fmt.Errorf("content: unexpected path %s", p)
		}
		locale, ok := i18n.ParseLocale(parts[0])
		if !ok {
			return fmt.Errorf("content: unsupported locale directory %s", parts[0])
		}
		kind := Kind(parts[1])
		if kind != KindBlog && kind != KindPage {
			return fmt.Errorf("content: unsupported kind directory %s", parts[1])
		}
		slug := strings.TrimSuffix(parts[2], ".md")

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		page, draft, err := parsePage(renderer, raw)
		if err != nil {
			return fmt.Errorf("content: parse %s: %w", p, err)
		}
		if draft {
			return nil
		}
		page.Kind, page.Slug, page.Locale = kind, slug, locale
		if page.Title == "" {
			page.Title = prettifySlug(slug)
		}
		lib.pages[pageKey{locale, kind, slug}] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Page returns a static page, falling back to the fallback locale.
func (l *Library) Page(locale i18n.Locale, slug string) (Page, error) {
	return l.lookup(locale, KindPage, slug, true)
}

// Post returns a blog post. Posts are written per locale and never fall back.
func (l *Library) Post(locale i18n.Locale, slug string) (Page, error) {
	return l.lookup(locale, KindBlog, slug, false)
}

func (l *Library) lookup(locale i18n.Locale, kind Kind, slug string, fallback bool) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	if page, ok := l.pages[pageKey{locale, kind, slug}]; ok {
		return clonePage(page), nil
	}
	if fallback && locale != l.fallback {
		if page, ok := l.pages[pageKey{l.fallback, kind, slug}]; ok {
			page = clonePage(page)
			page.Fallback = true
			return page, nil
		}
	}
	return Page{}, ErrNotFound
}

// Posts lists a locale's blog posts, newest first.
func (l *Library) Posts(locale i18n.Locale) []Page {
	var out []Page
	for key, page := range l.pages {
		if key.locale == locale && key.kind == KindBlog {
			out = append(out, clonePage(page))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Published.Equal(out[j].Published) {
			return out[i].Published.After(out[j].Published)
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// Slugs lists the slugs available for kind in any locale, sorted.
func (l *Library) Slugs(kind Kind) []string {
	seen := map[string]struct{}{}
	for key := range l.pages {
		if key.kind == kind {
			seen[key.slug] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for slug := range seen {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Locales lists the locales that carry their own copy of kind/slug.
func (l *Library) Locales(kind Kind, slug string) []i18n.Locale {
	var out []i18n.Locale
	for _, locale := range i18n.Locales() {
		if _, ok := l.pages[pageKey{locale, kind, slug}]; ok {
			out = append(out, locale)
		}
	}
	return out
}

func parsePage(r *renderer, raw []byte) (Page, bool, error) {
	fm, body := splitFrontMatter(string(raw))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, false, fmt.Errorf("front matter: %w", err)
		}
	}
	published, err := parseDate(front.Published)
	if err != nil {
		return Page{}, false, fmt.Errorf("published: %w", err)
	}
	updated, err := parseDate(front.Updated)
	if err != nil {
		return Page{}, false, fmt.Errorf("updated: %w", err)
	}

	rendered, err := r.render([]byte(body))
	if err != nil {
		return Page{}, false, err
	}

	page := Page{
		Title:       strings.TrimSpace(front.Title),
		Description: strings.TrimSpace(front.Description),
		Keywords:    front.Keywords,
		Published:   published,
		Updated:     updated,
		HTML:        template.HTML(rendered.html),
		Excerpt:     rendered.excerpt,
		Headings:    rendered.headings,
	}
	if page.Description == "" {
		page.Description = page.Excerpt
	}
	return page, front.Draft, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimPrefix(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func clonePage(p Page) Page {
	cp := p
	if p.Keywords != nil {
		cp.Keywords = append([]string(nil), p.Keywords...)
	}
	if p.Headings != nil {
		cp.Headings = append([]Heading(nil), p.Headings...)
	}
	return cp
}
