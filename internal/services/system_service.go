package services

import (
	"context"
	"time"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
)

// BuildInfo is runtime metadata exposed on /readyz.
type BuildInfo struct {
	Version     string
	CommitSHA   string
	Environment string
	StartedAt   time.Time
}

// LocaleReport summarises what one locale has loaded.
type LocaleReport struct {
	interpretation.StoreStats
	Posts int `json:"posts"`
}

// ReadinessReport is the /readyz payload.
type ReadinessReport struct {
	Status      string                       `json:"status"`
	Version     string                       `json:"version"`
	CommitSHA   string                       `json:"commitSha"`
	Environment string                       `json:"environment"`
	Calendar    string                       `json:"calendar"`
	Uptime      string                       `json:"uptime"`
	GeneratedAt time.Time                    `json:"generatedAt"`
	Locales     map[i18n.Locale]LocaleReport `json:"locales"`
}

// SystemServiceDeps bundles collaborators for NewSystemService.
type SystemServiceDeps struct {
	Store    *interpretation.Store
	Content  *content.Library
	Build    BuildInfo
	Calendar string
	Clock    func() time.Time
}

type systemService struct {
	store    *interpretation.Store
	content  *content.Library
	build    BuildInfo
	calendar string
	clock    func() time.Time
}

var _ SystemService = (*systemService)(nil)

func NewSystemService(deps SystemServiceDeps) SystemService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	build := deps.Build
	if build.StartedAt.IsZero() {
		build.StartedAt = clock()
	}
	return &systemService{
		store:    deps.Store,
		content:  deps.Content,
		build:    build,
		calendar: deps.Calendar,
		clock:    func() time.Time { return clock().UTC() },
	}
}

// Readiness reports "ok" once the template store has the fallback locale's
// metadata, and "degraded" otherwise.
func (s *systemService) Readiness(_ context.Context) ReadinessReport {
	now := s.clock()
	report := ReadinessReport{
		Status:      "ok",
		Version:     s.build.Version,
		CommitSHA:   s.build.CommitSHA,
		Environment: s.build.Environment,
		Calendar:    s.calendar,
		Uptime:      now.Sub(s.build.StartedAt).Truncate(time.Second).String(),
		GeneratedAt: now,
		Locales:     map[i18n.Locale]LocaleReport{},
	}
	if s.store == nil {
		report.Status = "degraded"
		return report
	}
	summary := s.store.Summary()
	for _, l := range i18n.Locales() {
		entry := LocaleReport{StoreStats: summary[l]}
		if s.content != nil {
			entry.Posts = len(s.content.Posts(l))
		}
		report.Locales[l] = entry
	}
	if summary[s.store.Fallback()].Metadata == 0 {
		report.Status = "degraded"
	}
	return report
}
