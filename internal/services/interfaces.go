package services

import (
	"context"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// ChartService turns a birth input into a chart and the result route that
// encodes it.
type ChartService interface {
	Compute(ctx context.Context, in saju.BirthInput) (Chart, error)
}

// ResultService validates result routes and composes their content.
type ResultService interface {
	ParseRoute(locale, typeSlug, variant, area string) (ResultRoute, error)
	Result(ctx context.Context, route ResultRoute) (Result, error)
	Area(ctx context.Context, route ResultRoute) (AreaResult, error)
	TypeOverview(ctx context.Context, l i18n.Locale, t saju.Type) (TypeOverview, error)
	Types(ctx context.Context, l i18n.Locale) []TypeOverview
	Glossary(l i18n.Locale) interpretation.Glossary
}

// SystemService reports build metadata and loaded content for health probes.
type SystemService interface {
	Readiness(ctx context.Context) ReadinessReport
}
