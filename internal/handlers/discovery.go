package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/platform/httpx"
	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
	"github.com/gamja-farmer/saju-frame/internal/saju"
	"github.com/gamja-farmer/saju-frame/internal/seo"
)

const discoveryCacheControl = "public, max-age=3600"

// DiscoveryHandlers serves sitemap.xml and robots.txt.
type DiscoveryHandlers struct {
	cfg          SiteConfig
	content      *content.Library
	lastModified time.Time
}

// NewDiscoveryHandlers builds the crawler endpoints. lastModified stamps
// pages that carry no date of their own, normally the process start time.
func NewDiscoveryHandlers(cfg SiteConfig, lib *content.Library, lastModified time.Time) *DiscoveryHandlers {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if _, ok := i18n.ParseLocale(string(cfg.DefaultLocale)); !ok {
		cfg.DefaultLocale = i18n.DefaultLocale
	}
	return &DiscoveryHandlers{cfg: cfg, content: lib, lastModified: lastModified}
}

// Routes registers the crawler endpoints at the root.
func (h *DiscoveryHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/sitemap.xml", h.sitemap)
	r.Get("/robots.txt", h.robots)
}

// Entries lists the sitemap entries.
func (h *DiscoveryHandlers) Entries() []seo.SitemapEntry {
	pages, posts := seo.ContentDocuments(h.content, i18n.Locales())
	return seo.BuildSitemap(seo.SitemapInput{
		BaseURL:       h.cfg.BaseURL,
		DefaultLocale: h.cfg.DefaultLocale,
		Locales:       i18n.Locales(),
		Types:         saju.Types(),
		Blog:          h.cfg.Blog,
		Pages:         pages,
		Posts:         posts,
		LastModified:  h.lastModified,
	})
}

func (h *DiscoveryHandlers) sitemap(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := seo.WriteSitemap(&buf, h.Entries()); err != nil {
		requestctx.Logger(r.Context()).Error("write sitemap", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.Internal())
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", discoveryCacheControl)
	_, _ = buf.WriteTo(w)
}

func (h *DiscoveryHandlers) robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", discoveryCacheControl)
	_, _ = w.Write([]byte(seo.Robots(h.cfg.BaseURL, i18n.Locales())))
}
