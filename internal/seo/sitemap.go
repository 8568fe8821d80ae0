package seo

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// Document is a localized path that exists in some set of locales.
type Document struct {
	Path         string
	Locales      []i18n.Locale
	LastModified time.Time
}

// SitemapInput is everything the sitemap is generated from.
type SitemapInput struct {
	BaseURL       string
	DefaultLocale i18n.Locale
	Locales       []i18n.Locale
	Types         []saju.Type
	Blog          bool
	Pages         []Document
	Posts         []Document
	LastModified  time.Time
}

// SitemapEntry is one <url> element.
type SitemapEntry struct {
	Loc          string
	LastModified time.Time
	Alternates   []Alternate
}

// BuildSitemap lists, per locale, the home page, the blog index, every
// static page and each type overview, followed by blog posts in the locales
// that carry them. Input pages for the locale form are left out.
func BuildSitemap(in SitemapInput) []SitemapEntry {
	base := strings.TrimRight(in.BaseURL, "/")
	everywhere := func(path string) Document {
		return Document{Path: path, Locales: in.Locales, LastModified: in.LastModified}
	}

	docs := []Document{everywhere("")}
	if in.Blog {
		docs = append(docs, everywhere("/blog"))
	}
	docs = append(docs, in.Pages...)
	for _, t := range in.Types {
		docs = append(docs, everywhere("/result/"+string(t)))
	}

	var entries []SitemapEntry
	for _, l := range in.Locales {
		for _, d := range docs {
			if !containsLocale(d.Locales, l) {
				continue
			}
			entries = append(entries, entryFor(base, l, d, in))
		}
	}
	if in.Blog {
		for _, p := range in.Posts {
			for _, l := range p.Locales {
				entries = append(entries, entryFor(base, l, p, in))
			}
		}
	}
	return entries
}

// ContentDocuments lists the static pages and blog posts of lib. Pages fall
// back to the default locale so they exist in every locale; posts exist only
// where they were written. Each document carries the newest modification
// time among its locales.
func ContentDocuments(lib *content.Library, locales []i18n.Locale) (pages, posts []Document) {
	if lib == nil {
		return nil, nil
	}
	for _, slug := range lib.Slugs(content.KindPage) {
		doc := Document{Path: "/" + slug, Locales: locales}
		for _, l := range lib.Locales(content.KindPage, slug) {
			if p, err := lib.Page(l, slug); err == nil && p.LastModified().After(doc.LastModified) {
				doc.LastModified = p.LastModified()
			}
		}
		pages = append(pages, doc)
	}
	for _, slug := range lib.Slugs(content.KindBlog) {
		doc := Document{Path: "/blog/" + slug, Locales: lib.Locales(content.KindBlog, slug)}
		for _, l := range doc.Locales {
			if p, err := lib.Post(l, slug); err == nil && p.LastModified().After(doc.LastModified) {
				doc.LastModified = p.LastModified()
			}
		}
		posts = append(posts, doc)
	}
	return pages, posts
}

func entryFor(base string, l i18n.Locale, d Document, in SitemapInput) SitemapEntry {
	mod := d.LastModified
	if mod.IsZero() {
		mod = in.LastModified
	}
	return SitemapEntry{
		Loc:          LocaleURL(base, l, d.Path),
		LastModified: mod,
		Alternates:   LanguageAlternates(base, d.Path, d.Locales, in.DefaultLocale),
	}
}

func containsLocale(list []i18n.Locale, l i18n.Locale) bool {
	for _, v := range list {
		if v == l {
			return true
		}
	}
	return false
}

type xmlURLSet struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsXHTML string   `xml:"xmlns:xhtml,attr"`
	URLs       []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc     string    `xml:"loc"`
	LastMod string    `xml:"lastmod,omitempty"`
	Links   []xmlLink `xml:"xhtml:link"`
}

type xmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// WriteSitemap encodes entries as a sitemaps.org urlset with xhtml:link
// alternates.
func WriteSitemap(w io.Writer, entries []SitemapEntry) error {
	set := xmlURLSet{
		Xmlns:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XmlnsXHTML: "http://www.w3.org/1999/xhtml",
		URLs:       make([]xmlURL, 0, len(entries)),
	}
	for _, e := range entries {
		u := xmlURL{Loc: e.Loc}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format("2006-01-02")
		}
		for _, a := range e.Alternates {
			u.Links = append(u.Links, xmlLink{Rel: "alternate", Hreflang: a.Hreflang, Href: a.Href})
		}
		set.URLs = append(set.URLs, u)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	return enc.Flush()
}
