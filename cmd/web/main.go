package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/handlers"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	sitemw "github.com/gamja-farmer/saju-frame/internal/middleware"
	"github.com/gamja-farmer/saju-frame/internal/platform/config"
	"github.com/gamja-farmer/saju-frame/internal/platform/observability"
	"github.com/gamja-farmer/saju-frame/internal/services"
	"github.com/gamja-farmer/saju-frame/internal/view"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Observability.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web").With(zap.String("environment", cfg.Observability.Environment))

	bundle, err := i18n.Default()
	if err != nil {
		logger.Fatal("failed to load message bundle", zap.Error(err))
	}
	store, err := interpretation.Default()
	if err != nil {
		logger.Fatal("failed to load interpretation store", zap.Error(err))
	}
	library, err := content.Embedded(cfg.Site.DefaultLocale)
	if err != nil {
		logger.Fatal("failed to load content", zap.Error(err))
	}
	renderer, err := view.New(bundle)
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	meter := otel.GetMeterProvider().Meter("github.com/gamja-farmer/saju-frame")
	chartService, err := services.NewChartService(services.ChartServiceDeps{
		Calendar: cfg.Site.Calendar,
		Meter:    meter,
		Logger:   logger.Named("charts"),
	})
	if err != nil {
		logger.Fatal("failed to initialise chart service", zap.Error(err))
	}
	resultService, err := services.NewResultService(services.ResultServiceDeps{
		Composer: interpretation.NewComposer(store),
		Meter:    meter,
		Logger:   logger.Named("results"),
	})
	if err != nil {
		logger.Fatal("failed to initialise result service", zap.Error(err))
	}
	systemService := services.NewSystemService(services.SystemServiceDeps{
		Store:   store,
		Content: library,
		Build: services.BuildInfo{
			Version:     cfg.Build.Version,
			CommitSHA:   cfg.Build.CommitSHA,
			Environment: cfg.Observability.Environment,
			StartedAt:   startedAt,
		},
		Calendar: cfg.Site.Calendar,
	})

	siteCfg := handlers.SiteConfig{
		BaseURL:       cfg.Site.BaseURL,
		Name:          cfg.Site.Name,
		DefaultLocale: cfg.Site.DefaultLocale,
		Blog:          cfg.Features.EnableBlog,
	}
	siteHandlers, err := handlers.NewSiteHandlers(
		handlers.WithSiteChartService(chartService),
		handlers.WithSiteResultService(resultService),
		handlers.WithSiteContent(library),
		handlers.WithSiteRenderer(renderer),
		handlers.WithSiteBundle(bundle),
		handlers.WithSiteConfig(siteCfg),
	)
	if err != nil {
		logger.Fatal("failed to initialise site handlers", zap.Error(err))
	}
	apiHandlers := handlers.NewAPIHandlers(
		handlers.WithAPIChartService(chartService),
		handlers.WithAPIResultService(resultService),
		handlers.WithAPIDefaultLocale(cfg.Site.DefaultLocale),
	)
	discoveryHandlers := handlers.NewDiscoveryHandlers(siteCfg, library, startedAt)
	healthHandlers := handlers.NewHealthHandlers(handlers.WithHealthSystemService(systemService))

	projectID := cfg.Observability.TraceProjectID
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		middleware.Compress(5),
	}

	var opts []handlers.Option
	opts = append(opts, handlers.WithMiddlewares(middlewares...))
	opts = append(opts, handlers.WithHealthHandlers(healthHandlers))
	opts = append(opts, handlers.WithRootHandler(sitemw.RootRedirect(sitemw.RedirectConfig{
		CountryHeader: cfg.Site.CountryHeader,
		Default:       cfg.Site.DefaultLocale,
	})))
	opts = append(opts, handlers.WithSiteRoutes(siteHandlers.Routes))
	opts = append(opts, handlers.WithAPIRoutes(apiHandlers.Routes))
	opts = append(opts, handlers.WithDiscoveryRoutes(discoveryHandlers.Routes))
	opts = append(opts, handlers.WithNotFoundHandler(http.HandlerFunc(siteHandlers.NotFound)))

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("saju-frame web listening",
			zap.String("base_url", cfg.Site.BaseURL),
			zap.String("calendar", cfg.Site.Calendar),
			zap.Bool("blog", cfg.Features.EnableBlog),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
