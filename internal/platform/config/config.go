package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultBaseURL         = "https://example.com"
	defaultSiteName        = "Saju Frame"
	defaultCountryHeader   = "X-Client-Country"
	defaultLogLevel        = "info"
	defaultEnvironment     = "local"
	defaultBuildVersion    = "dev"
	defaultBuildCommit     = "unknown"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server        ServerConfig
	Site          SiteConfig
	Observability ObservabilityConfig
	Build         BuildConfig
	Features      FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SiteConfig holds what the public pages need to build absolute URLs and pick
// a locale.
type SiteConfig struct {
	BaseURL       string
	Name          string
	DefaultLocale i18n.Locale
	CountryHeader string
	Calendar      string
}

// ObservabilityConfig controls logging and trace correlation.
type ObservabilityConfig struct {
	LogLevel       string
	TraceProjectID string
	Environment    string
}

// BuildConfig is reported by the readiness endpoint.
type BuildConfig struct {
	Version   string
	CommitSHA string
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableBlog bool
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	// Cloud Run injects PORT; the prefixed key wins when both are set.
	port := stringWithDefault(lookup, "PORT", defaultPort)
	port = stringWithDefault(lookup, "SAJU_SERVER_PORT", port)

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     durationWithDefault(lookup, "SAJU_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "SAJU_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "SAJU_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "SAJU_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Site: SiteConfig{
			BaseURL:       strings.TrimRight(stringWithDefault(lookup, "SAJU_SITE_BASE_URL", defaultBaseURL), "/"),
			Name:          stringWithDefault(lookup, "SAJU_SITE_NAME", defaultSiteName),
			DefaultLocale: i18n.Locale(stringWithDefault(lookup, "SAJU_DEFAULT_LOCALE", string(i18n.DefaultLocale))),
			CountryHeader: stringWithDefault(lookup, "SAJU_COUNTRY_HEADER", defaultCountryHeader),
			Calendar:      strings.ToLower(stringWithDefault(lookup, "SAJU_CALENDAR", saju.CalendarIdentity)),
		},
		Observability: ObservabilityConfig{
			LogLevel:       strings.ToLower(stringWithDefault(lookup, "SAJU_LOG_LEVEL", defaultLogLevel)),
			TraceProjectID: stringWithDefault(lookup, "SAJU_TRACE_PROJECT_ID", ""),
			Environment:    stringWithDefault(lookup, "SAJU_ENVIRONMENT", defaultEnvironment),
		},
		Build: BuildConfig{
			Version:   stringWithDefault(lookup, "SAJU_BUILD_VERSION", defaultBuildVersion),
			CommitSHA: stringWithDefault(lookup, "SAJU_BUILD_COMMIT_SHA", defaultBuildCommit),
		},
		Features: FeatureFlags{
			EnableBlog: boolWithDefault(lookup, "SAJU_FEATURE_BLOG", true),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		invalid = append(invalid, "Server.ShutdownTimeout")
	}
	if u, err := url.Parse(cfg.Site.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		invalid = append(invalid, "Site.BaseURL")
	}
	if _, ok := i18n.ParseLocale(string(cfg.Site.DefaultLocale)); !ok {
		invalid = append(invalid, "Site.DefaultLocale")
	}
	if strings.TrimSpace(cfg.Site.CountryHeader) == "" {
		invalid = append(invalid, "Site.CountryHeader")
	}
	if _, err := saju.CalendarByName(cfg.Site.Calendar); err != nil {
		invalid = append(invalid, "Site.Calendar")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
