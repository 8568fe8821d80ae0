package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("unexpected shutdown timeout: %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Site.BaseURL != defaultBaseURL {
		t.Errorf("expected default base url, got %s", cfg.Site.BaseURL)
	}
	if cfg.Site.DefaultLocale != "zh-TW" {
		t.Errorf("expected default locale zh-TW, got %s", cfg.Site.DefaultLocale)
	}
	if cfg.Site.CountryHeader != defaultCountryHeader {
		t.Errorf("expected default country header, got %s", cfg.Site.CountryHeader)
	}
	if cfg.Site.Calendar != "identity" {
		t.Errorf("expected identity calendar, got %s", cfg.Site.Calendar)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected info log level, got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.Environment != "local" {
		t.Errorf("expected local environment, got %s", cfg.Observability.Environment)
	}
	if cfg.Build.Version != "dev" || cfg.Build.CommitSHA != "unknown" {
		t.Errorf("unexpected build info: %+v", cfg.Build)
	}
	if !cfg.Features.EnableBlog {
		t.Errorf("expected blog enabled by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                         "7000",
		"SAJU_SERVER_PORT":             "9090",
		"SAJU_SERVER_READ_TIMEOUT":     "20s",
		"SAJU_SERVER_WRITE_TIMEOUT":    "25s",
		"SAJU_SERVER_IDLE_TIMEOUT":     "2m",
		"SAJU_SERVER_SHUTDOWN_TIMEOUT": "3s",
		"SAJU_SITE_BASE_URL":           "https://saju.example.org/",
		"SAJU_SITE_NAME":               "Frame",
		"SAJU_DEFAULT_LOCALE":          "ko",
		"SAJU_COUNTRY_HEADER":          "CF-IPCountry",
		"SAJU_CALENDAR":                "Lunar",
		"SAJU_LOG_LEVEL":               "DEBUG",
		"SAJU_TRACE_PROJECT_ID":        "saju-prod",
		"SAJU_ENVIRONMENT":             "prod",
		"SAJU_BUILD_VERSION":           "1.4.0",
		"SAJU_BUILD_COMMIT_SHA":        "abc123",
		"SAJU_FEATURE_BLOG":            "off",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := Config{
		Server: ServerConfig{
			Port:            "9090",
			ReadTimeout:     20 * time.Second,
			WriteTimeout:    25 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 3 * time.Second,
		},
		Site: SiteConfig{
			BaseURL:       "https://saju.example.org",
			Name:          "Frame",
			DefaultLocale: "ko",
			CountryHeader: "CF-IPCountry",
			Calendar:      "lunar",
		},
		Observability: ObservabilityConfig{
			LogLevel:       "debug",
			TraceProjectID: "saju-prod",
			Environment:    "prod",
		},
		Build:    BuildConfig{Version: "1.4.0", CommitSHA: "abc123"},
		Features: FeatureFlags{EnableBlog: false},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("unexpected config:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestLoadUsesPlatformPort(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{"PORT": "7000"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Fatalf("expected PORT to be honoured, got %s", cfg.Server.Port)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nSAJU_SITE_NAME=\"From File\"\nexport SAJU_CALENDAR=lunar\nSAJU_LOG_LEVEL=warn\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"SAJU_LOG_LEVEL": "error"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site.Name != "From File" {
		t.Errorf("expected site name from .env, got %q", cfg.Site.Name)
	}
	if cfg.Site.Calendar != "lunar" {
		t.Errorf("expected calendar from .env, got %q", cfg.Site.Calendar)
	}
	if cfg.Observability.LogLevel != "error" {
		t.Errorf("expected env map to win over .env, got %q", cfg.Observability.LogLevel)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadValidationError(t *testing.T) {
	env := map[string]string{
		"SAJU_SERVER_PORT":    "http",
		"SAJU_SITE_BASE_URL":  "/relative",
		"SAJU_DEFAULT_LOCALE": "ja",
		"SAJU_CALENDAR":       "gregorian",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	want := []string{"Server.Port", "Site.BaseURL", "Site.DefaultLocale", "Site.Calendar"}
	if !reflect.DeepEqual(verr.Fields(), want) {
		t.Fatalf("unexpected fields: %v", verr.Fields())
	}
}

func TestInvalidDurationsFallBack(t *testing.T) {
	env := map[string]string{"SAJU_SERVER_READ_TIMEOUT": "soon"}
	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Fatalf("expected fallback read timeout, got %s", cfg.Server.ReadTimeout)
	}
}
