package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// ErrInvalidRoute is wrapped by every ParseRoute and TypeOverview failure.
// Handlers map it to 404.
var ErrInvalidRoute = errors.New("invalid result route")

// ResultRoute is the validated state carried by a result URL. Area is empty
// for the full result.
type ResultRoute struct {
	Locale  i18n.Locale
	Type    saju.Type
	Variant int
	Area    interpretation.AreaKey
}

// Path renders the canonical URL path of r.
func (r ResultRoute) Path() string {
	return ResultPath(r.Locale, r.Type, r.Variant, r.Area)
}

// Result is a full result page.
type Result struct {
	Route       ResultRoute                             `json:"-"`
	Metadata    interpretation.TypeMetadata             `json:"metadata"`
	Content     interpretation.FullInterpretationResult `json:"content"`
	Terminology string                                  `json:"terminology"`
}

// AreaResult is the detail page of one area. Structured is nil when the
// locale has no structured template for the area; Main then carries the text.
type AreaResult struct {
	Route      ResultRoute                            `json:"-"`
	Metadata   interpretation.TypeMetadata            `json:"metadata"`
	Area       interpretation.AreaInterpretation      `json:"area"`
	Structured *interpretation.StructuredAreaTemplate `json:"structured"`
	Disclaimer string                                 `json:"disclaimer"`
}

// TypeOverview is the landing record of a chart type.
type TypeOverview struct {
	Type         saju.Type                     `json:"type"`
	Metadata     interpretation.TypeMetadata   `json:"metadata"`
	Distribution []saju.ElementShare           `json:"distribution"`
	Steps        []interpretation.AnalysisStep `json:"steps"`
	VariantPaths []string                      `json:"variantPaths"`
}

// ResultServiceDeps bundles collaborators for NewResultService.
type ResultServiceDeps struct {
	Composer *interpretation.Composer
	Meter    metric.Meter
	Logger   *zap.Logger
}

type resultService struct {
	composer *interpretation.Composer
	composed metric.Int64Counter
}

var _ ResultService = (*resultService)(nil)

// NewResultService registers the saju.results.composed counter around a
// composer.
func NewResultService(deps ResultServiceDeps) (ResultService, error) {
	if deps.Composer == nil {
		return nil, errors.New("result service: composer is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	meter := deps.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	composed, err := meter.Int64Counter("saju.results.composed",
		metric.WithDescription("Result pages composed, by locale, type and area"),
	)
	if err != nil {
		logger.Warn("result service: unable to register counter", zap.Error(err))
	}
	return &resultService{composer: deps.Composer, composed: composed}, nil
}

// ParseRoute validates raw URL segments. The variant must be the canonical
// decimal form of 0..VariantCount-1; area may be empty.
func (s *resultService) ParseRoute(locale, typeSlug, variant, area string) (ResultRoute, error) {
	l, ok := i18n.ParseLocale(locale)
	if !ok {
		return ResultRoute{}, fmt.Errorf("%w: unsupported locale %q", ErrInvalidRoute, locale)
	}
	t, ok := saju.ParseType(typeSlug)
	if !ok || t != saju.Type(typeSlug) {
		return ResultRoute{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRoute, typeSlug)
	}
	v, err := strconv.Atoi(variant)
	if err != nil || !saju.ValidVariant(v) || strconv.Itoa(v) != variant {
		return ResultRoute{}, fmt.Errorf("%w: variant %q out of range", ErrInvalidRoute, variant)
	}
	route := ResultRoute{Locale: l, Type: t, Variant: v}
	if area != "" {
		a, ok := interpretation.ParseAreaKey(area)
		if !ok {
			return ResultRoute{}, fmt.Errorf("%w: unknown area %q", ErrInvalidRoute, area)
		}
		route.Area = a
	}
	return route, nil
}

func (s *resultService) Result(ctx context.Context, route ResultRoute) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("result service: context is required")
	}
	s.record(ctx, route)
	meta, _ := s.composer.Store().Metadata(route.Type, route.Locale)
	return Result{
		Route:       route,
		Metadata:    meta,
		Content:     s.composer.FullVariantContent(route.Type, route.Variant, route.Locale, nil),
		Terminology: s.composer.Terminology(route.Type, route.Variant, route.Locale),
	}, nil
}

func (s *resultService) Area(ctx context.Context, route ResultRoute) (AreaResult, error) {
	if ctx == nil {
		return AreaResult{}, errors.New("result service: context is required")
	}
	if route.Area == "" {
		return AreaResult{}, fmt.Errorf("%w: area is required", ErrInvalidRoute)
	}
	s.record(ctx, route)
	meta, _ := s.composer.Store().Metadata(route.Type, route.Locale)
	content := s.composer.VariantContent(route.Type, route.Variant, route.Locale)
	structured, _ := s.composer.StructuredArea(route.Type, route.Variant, route.Locale, route.Area)
	return AreaResult{
		Route:      route,
		Metadata:   meta,
		Area:       content.Areas[route.Area],
		Structured: structured,
		Disclaimer: s.composer.Store().Glossary(route.Locale).Disclaimer,
	}, nil
}

func (s *resultService) TypeOverview(ctx context.Context, l i18n.Locale, t saju.Type) (TypeOverview, error) {
	if ctx == nil {
		return TypeOverview{}, errors.New("result service: context is required")
	}
	if !saju.IsType(t) {
		return TypeOverview{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRoute, t)
	}
	return s.overview(l, t), nil
}

func (s *resultService) Types(_ context.Context, l i18n.Locale) []TypeOverview {
	types := saju.Types()
	out := make([]TypeOverview, 0, len(types))
	for _, t := range types {
		out = append(out, s.overview(l, t))
	}
	return out
}

func (s *resultService) Glossary(l i18n.Locale) interpretation.Glossary {
	return s.composer.Store().Glossary(l)
}

func (s *resultService) overview(l i18n.Locale, t saju.Type) TypeOverview {
	store := s.composer.Store()
	meta, _ := store.Metadata(t, l)
	paths := make([]string, saju.VariantCount)
	for v := range paths {
		paths[v] = ResultPath(l, t, v, "")
	}
	return TypeOverview{
		Type:         t,
		Metadata:     meta,
		Distribution: saju.DefaultDistribution(meta.DominantElement, meta.SubElement).Ordered(),
		Steps:        store.AnalysisSteps(t, l),
		VariantPaths: paths,
	}
}

func (s *resultService) record(ctx context.Context, route ResultRoute) {
	if s.composed == nil {
		return
	}
	area := string(route.Area)
	if area == "" {
		area = "all"
	}
	s.composed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("locale", string(route.Locale)),
		attribute.String("type", string(route.Type)),
		attribute.String("area", area),
	))
}
