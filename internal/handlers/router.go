package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sitemw "github.com/gamja-farmer/saju-frame/internal/middleware"
	"github.com/gamja-farmer/saju-frame/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	root      http.Handler
	site      RouteRegistrar
	api       RouteRegistrar
	discovery RouteRegistrar
	notFound  http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix  = "/api/v1"
	defaultTimeout    = 30 * time.Second
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router. Static paths (health, sitemap, API)
// take precedence over the "/{locale}" page tree.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	notFound := func(w http.ResponseWriter, req *http.Request) {
		if cfg.notFound != nil && !isAPIPath(req.URL.Path) {
			cfg.notFound.ServeHTTP(w, req)
			return
		}
		httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	}
	r.NotFound(notFound)

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	if cfg.root != nil {
		r.Method(http.MethodGet, "/", cfg.root)
		r.Method(http.MethodHead, "/", cfg.root)
	}
	if cfg.discovery != nil {
		cfg.discovery(r)
	}
	if cfg.api != nil {
		r.Route(defaultAPIPrefix, func(api chi.Router) {
			cfg.api(api)
		})
	}
	if cfg.site != nil {
		r.Route("/{locale}", func(site chi.Router) {
			site.Use(sitemw.LocalePrefix(http.HandlerFunc(notFound)))
			cfg.site(site)
		})
	}

	return r
}

func isAPIPath(path string) bool {
	return path == defaultAPIPrefix || strings.HasPrefix(path, defaultAPIPrefix+"/")
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithRootHandler serves "/", normally the locale redirect.
func WithRootHandler(h http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.root = h
	}
}

// WithSiteRoutes configures the registrar for pages under "/{locale}".
func WithSiteRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.site = reg
	}
}

// WithAPIRoutes configures the registrar for the JSON API under /api/v1.
func WithAPIRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.api = reg
	}
}

// WithDiscoveryRoutes configures the registrar for sitemap.xml and robots.txt.
func WithDiscoveryRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.discovery = reg
	}
}

// WithNotFoundHandler renders unknown non-API paths. API paths always get the
// JSON envelope.
func WithNotFoundHandler(h http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.notFound = h
	}
}
