package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

const meterName = "github.com/gamja-farmer/saju-frame/internal/services"

// Chart is everything derived from one birth input.
type Chart struct {
	Input        saju.BirthInput     `json:"input"`
	Calendar     string              `json:"calendar"`
	Lunar        saju.LunarDate      `json:"lunar"`
	Pillar       saju.Pillar         `json:"pillar"`
	Type         saju.Type           `json:"type"`
	Seed         int                 `json:"seed"`
	Variant      int                 `json:"variant"`
	Distribution []saju.ElementShare `json:"distribution"`
}

// ResultPath is the route that reproduces this chart's result in l.
func (c Chart) ResultPath(l i18n.Locale) string {
	return ResultPath(l, c.Type, c.Variant, "")
}

// ResultPath builds /{locale}/result/{type}/{variant}[/{area}].
func ResultPath(l i18n.Locale, t saju.Type, variant int, area interpretation.AreaKey) string {
	p := "/" + string(l) + "/result/" + string(t) + "/" + strconv.Itoa(variant)
	if area != "" {
		p += "/" + string(area)
	}
	return p
}

// ChartServiceDeps bundles collaborators for NewChartService.
type ChartServiceDeps struct {
	// Calendar is the name passed to saju.CalendarByName. Empty means identity.
	Calendar string
	Meter    metric.Meter
	Logger   *zap.Logger
}

type chartService struct {
	calendar     saju.Calendar
	calendarName string
	computed     metric.Int64Counter
}

var _ ChartService = (*chartService)(nil)

// NewChartService resolves the configured calendar and registers the
// saju.charts.computed counter.
func NewChartService(deps ChartServiceDeps) (ChartService, error) {
	cal, err := saju.CalendarByName(deps.Calendar)
	if err != nil {
		return nil, fmt.Errorf("chart service: %w", err)
	}
	name := strings.ToLower(strings.TrimSpace(deps.Calendar))
	if name == "" {
		name = saju.CalendarIdentity
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	meter := deps.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	computed, err := meter.Int64Counter("saju.charts.computed",
		metric.WithDescription("Charts computed from a birth input"),
	)
	if err != nil {
		logger.Warn("chart service: unable to register counter", zap.Error(err))
	}

	return &chartService{calendar: cal, calendarName: name, computed: computed}, nil
}

// Compute validates in, drops an out-of-range hour, and derives the pillar,
// type, variant and element distribution. Validation failures match
// saju.ErrInvalidBirthInput.
func (s *chartService) Compute(ctx context.Context, in saju.BirthInput) (Chart, error) {
	if ctx == nil {
		return Chart{}, errors.New("chart service: context is required")
	}
	if err := in.Validate(); err != nil {
		return Chart{}, err
	}
	in = in.Normalized()

	pillar := saju.CalculatePillar(s.calendar, in)
	t := saju.ClassifyType(pillar)
	seed := saju.SeedFromPillar(pillar)
	chart := Chart{
		Input:        in,
		Calendar:     s.calendarName,
		Lunar:        s.calendar.SolarToLunar(in.Year, in.Month, in.Day),
		Pillar:       pillar,
		Type:         t,
		Seed:         seed,
		Variant:      saju.VariantIndex(seed),
		Distribution: saju.ElementDistribution(pillar).Ordered(),
	}

	if s.computed != nil {
		s.computed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", string(t)),
			attribute.String("calendar", s.calendarName),
			attribute.Bool("hour", pillar.HasHour()),
		))
	}
	requestctx.Logger(ctx).Debug("chart computed",
		zap.String("type", string(t)),
		zap.Int("variant", chart.Variant),
		zap.Bool("hour", pillar.HasHour()),
	)
	return chart, nil
}
