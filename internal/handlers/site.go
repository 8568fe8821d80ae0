package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/platform/httpx"
	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
	"github.com/gamja-farmer/saju-frame/internal/saju"
	"github.com/gamja-farmer/saju-frame/internal/seo"
	"github.com/gamja-farmer/saju-frame/internal/services"
	"github.com/gamja-farmer/saju-frame/internal/view"
)

const (
	robotsNoIndex    = "noindex"
	pageCacheControl = "public, max-age=300"
)

// SiteConfig carries the site-wide settings pages need.
type SiteConfig struct {
	BaseURL       string
	Name          string
	DefaultLocale i18n.Locale
	Blog          bool
}

// SiteHandlers renders the localized HTML pages mounted under "/{locale}".
type SiteHandlers struct {
	charts   services.ChartService
	results  services.ResultService
	content  *content.Library
	renderer *view.Renderer
	bundle   *i18n.Bundle
	cfg      SiteConfig
}

// SiteOption customises construction of SiteHandlers.
type SiteOption func(*SiteHandlers)

// WithSiteChartService injects the chart service used by the birth form.
func WithSiteChartService(svc services.ChartService) SiteOption {
	return func(h *SiteHandlers) {
		h.charts = svc
	}
}

// WithSiteResultService injects the result service.
func WithSiteResultService(svc services.ResultService) SiteOption {
	return func(h *SiteHandlers) {
		h.results = svc
	}
}

// WithSiteContent injects the markdown library for blog, about and privacy.
func WithSiteContent(lib *content.Library) SiteOption {
	return func(h *SiteHandlers) {
		h.content = lib
	}
}

// WithSiteRenderer injects the template renderer.
func WithSiteRenderer(r *view.Renderer) SiteOption {
	return func(h *SiteHandlers) {
		h.renderer = r
	}
}

// WithSiteBundle injects the UI string bundle.
func WithSiteBundle(b *i18n.Bundle) SiteOption {
	return func(h *SiteHandlers) {
		h.bundle = b
	}
}

// WithSiteConfig sets base URL, site name, default locale and feature flags.
func WithSiteConfig(cfg SiteConfig) SiteOption {
	return func(h *SiteHandlers) {
		h.cfg = cfg
	}
}

// NewSiteHandlers validates the collaborators. The content library is
// optional; without it blog and static pages answer 404.
func NewSiteHandlers(opts ...SiteOption) (*SiteHandlers, error) {
	h := &SiteHandlers{}
	for _, opt := range opts {
		opt(h)
	}
	switch {
	case h.charts == nil:
		return nil, errors.New("site handlers: chart service is required")
	case h.results == nil:
		return nil, errors.New("site handlers: result service is required")
	case h.renderer == nil:
		return nil, errors.New("site handlers: renderer is required")
	case h.bundle == nil:
		return nil, errors.New("site handlers: bundle is required")
	}
	h.cfg.BaseURL = strings.TrimRight(h.cfg.BaseURL, "/")
	if _, ok := i18n.ParseLocale(string(h.cfg.DefaultLocale)); !ok {
		h.cfg.DefaultLocale = i18n.DefaultLocale
	}
	return h, nil
}

// Routes registers the page tree. The router has already validated the
// locale segment.
func (h *SiteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.home)
	r.Get("/input", h.inputForm)
	r.Post("/input", h.submitInput)
	r.Get("/result/{type}", h.typeOverview)
	r.Get("/result/{type}/{variant}", h.result)
	r.Get("/result/{type}/{variant}/{area}", h.area)
	if h.cfg.Blog {
		r.Get("/blog", h.blogIndex)
		r.Get("/blog/{slug}", h.blogPost)
	}
	r.Get("/about", h.staticPage("about"))
	r.Get("/privacy", h.staticPage("privacy"))
}

// NotFound renders the localized 404 page.
func (h *SiteHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	h.render(w, r, http.StatusNotFound, view.PageNotFound, view.Page{
		Meta: seo.Meta{Title: h.bundle.T(l, "notfound.title"), Robots: robotsNoIndex},
	})
}

func (h *SiteHandlers) home(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PageHome, view.Page{
		Meta:   h.meta(l, "", h.bundle.T(l, "home.title"), h.bundle.T(l, "home.lead")),
		JSONLD: []template.JS{seo.JSON(seo.WebSite(h.cfg.Name, seo.LocaleURL(h.cfg.BaseURL, l, ""), l.HTMLLang()))},
		Data:   view.HomeData{Types: h.results.Types(r.Context(), l)},
	})
}

func (h *SiteHandlers) typeOverview(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	slug := chi.URLParam(r, "type")
	t, ok := saju.ParseType(slug)
	if !ok || string(t) != slug {
		h.NotFound(w, r)
		return
	}
	overview, err := h.results.TypeOverview(r.Context(), l, t)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	path := "/result/" + slug
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PageType, view.Page{
		Meta: h.meta(l, path, overview.Metadata.Label, overview.Metadata.CoreTraitSummary),
		JSONLD: []template.JS{seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
			{Name: h.bundle.T(l, "nav.home"), Item: seo.LocaleURL(h.cfg.BaseURL, l, "")},
			{Name: overview.Metadata.Label, Item: seo.LocaleURL(h.cfg.BaseURL, l, path)},
		}))},
		Path: path,
		Data: overview,
	})
}

func (h *SiteHandlers) result(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	route, err := h.results.ParseRoute(string(l), chi.URLParam(r, "type"), chi.URLParam(r, "variant"), "")
	if err != nil {
		h.NotFound(w, r)
		return
	}
	res, err := h.results.Result(r.Context(), route)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := res.Metadata.Label + " · " + h.bundle.T(l, "result.variant.label") + " " + strconv.Itoa(route.Variant+1)
	path := localPath(route)
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PageResult, view.Page{
		Meta: h.meta(l, path, title, res.Content.Impression),
		Path: path,
		Data: res,
	})
}

func (h *SiteHandlers) area(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	route, err := h.results.ParseRoute(string(l), chi.URLParam(r, "type"), chi.URLParam(r, "variant"), chi.URLParam(r, "area"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	res, err := h.results.Area(r.Context(), route)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := h.bundle.T(l, "area."+string(route.Area)) + " · " + res.Metadata.Label
	path := localPath(route)
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PageArea, view.Page{
		Meta: h.meta(l, path, title, res.Area.Summary),
		Path: path,
		Data: res,
	})
}

func (h *SiteHandlers) blogIndex(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	var posts []content.Page
	if h.content != nil {
		posts = h.content.Posts(l)
	}
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PageBlog, view.Page{
		Meta: h.meta(l, "/blog", h.bundle.T(l, "blog.title"), h.bundle.T(l, "site.tagline")),
		Path: "/blog",
		Data: view.BlogData{Posts: posts},
	})
}

// blogPost serves a post only in the locales it was written in.
func (h *SiteHandlers) blogPost(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	if h.content == nil {
		h.NotFound(w, r)
		return
	}
	post, err := h.content.Post(l, chi.URLParam(r, "slug"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	path := "/blog/" + post.Slug
	meta := seo.NewMeta(post.Title, post.Description, h.cfg.BaseURL, l, path, h.content.Locales(content.KindBlog, post.Slug), h.cfg.DefaultLocale)
	meta.OG.Type = "article"
	w.Header().Set("Cache-Control", pageCacheControl)
	h.render(w, r, http.StatusOK, view.PagePost, view.Page{
		Meta:   meta,
		JSONLD: []template.JS{seo.JSON(seo.Article(post.Title, post.Description, meta.Canonical, l.HTMLLang(), post.Published, post.Updated))},
		Path:   "/blog",
		Data:   post,
	})
}

// staticPage serves about/privacy. A locale without its own copy gets the
// default locale's, canonicalised to it.
func (h *SiteHandlers) staticPage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := requestctx.Locale(r.Context())
		if h.content == nil {
			h.NotFound(w, r)
			return
		}
		page, err := h.content.Page(l, slug)
		if err != nil {
			h.NotFound(w, r)
			return
		}

		path := "/" + slug
		meta := h.meta(l, path, page.Title, page.Description)
		if page.Fallback {
			meta.Canonical = seo.LocaleURL(h.cfg.BaseURL, page.Locale, path)
		}
		w.Header().Set("Cache-Control", pageCacheControl)
		h.render(w, r, http.StatusOK, view.PageContent, view.Page{
			Meta: meta,
			Path: path,
			Data: page,
		})
	}
}

func (h *SiteHandlers) meta(l i18n.Locale, path, title, description string) seo.Meta {
	return seo.NewMeta(title, description, h.cfg.BaseURL, l, path, i18n.Locales(), h.cfg.DefaultLocale)
}

func (h *SiteHandlers) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	l := requestctx.Locale(r.Context())
	page.Locale = l
	page.SiteName = h.cfg.Name
	page.Locales = i18n.Locales()
	page.Blog = h.cfg.Blog
	page.Glossary = h.results.Glossary(l)
	if err := h.renderer.Render(w, status, name, page); err != nil {
		requestctx.Logger(r.Context()).Error("render page", zap.String("page", name), zap.Error(err))
		w.Header().Del("Cache-Control")
		httpx.WriteError(r.Context(), w, httpx.Internal())
	}
}

func (h *SiteHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestctx.Logger(r.Context()).Error("compose page", zap.String("path", r.URL.Path), zap.Error(err))
	httpx.WriteError(r.Context(), w, httpx.Internal())
}

// localPath strips the locale prefix from a result route.
func localPath(route services.ResultRoute) string {
	return strings.TrimPrefix(route.Path(), "/"+string(route.Locale))
}
