package interpretation

import (
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// Slot offsets inside the overview and each area.
const (
	impressionOffset  = 0
	tendencyOffset    = 1
	flowOffset        = 2
	terminologyOffset = 3

	situationOffset        = 1
	misunderstandingOffset = 2
	timeContextOffset      = 3
)

// Composer assembles results from a Store. Every method is a pure function of
// its arguments and never fails: an unknown type or locale, or an empty
// template array, yields empty strings and nil structured areas.
type Composer struct {
	store *Store
}

// NewComposer returns a composer reading from store.
func NewComposer(store *Store) *Composer {
	return &Composer{store: store}
}

// Store returns the backing template store.
func (c *Composer) Store() *Store { return c.store }

// VariantContent selects the overview and area text of variant for t.
func (c *Composer) VariantContent(t saju.Type, variant int, l i18n.Locale) InterpretationResult {
	v := clampVariant(variant)
	lt := c.store.locale(l)
	ov := lt.overview[t]

	areas := make(map[AreaKey]AreaInterpretation, len(areaOrder))
	for _, area := range areaOrder {
		areas[area] = buildArea(lt.areas[t][area], v, areaOffsets[area])
	}
	return InterpretationResult{
		Impression: pickSafe(ov.Impression, v, impressionOffset),
		Tendency:   pickSafe(ov.Tendency, v, tendencyOffset),
		Flow:       pickSafe(ov.Flow, v, flowOffset),
		Areas:      areas,
	}
}

// Compose seeds the variant from p and delegates to VariantContent.
func (c *Composer) Compose(t saju.Type, p saju.Pillar, l i18n.Locale) InterpretationResult {
	return c.VariantContent(t, saju.VariantFromPillar(p), l)
}

// Terminology returns the terminology note shown alongside the overview.
func (c *Composer) Terminology(t saju.Type, variant int, l i18n.Locale) string {
	return pickSafe(c.store.locale(l).overview[t].Terminology, clampVariant(variant), terminologyOffset)
}

// FullVariantContent builds the full result. With a pillar the day master and
// element distribution come from the chart; without one they are derived from
// the type metadata.
func (c *Composer) FullVariantContent(t saju.Type, variant int, l i18n.Locale, p *saju.Pillar) FullInterpretationResult {
	base := c.VariantContent(t, variant, l)
	v := clampVariant(variant)
	meta, _ := c.store.Metadata(t, l)

	var (
		dayMasterValue string
		dayElement     saju.Element
		distribution   saju.Distribution
	)
	if p != nil {
		dayElement = saju.StemElement(p.Day.Stem)
		dayMasterValue = saju.StemGlyph(p.Day.Stem) + saju.ElementGlyph(dayElement)
		distribution = saju.ElementDistribution(*p)
	} else {
		dayElement = meta.DominantElement
		dayMasterValue = saju.ElementGlyph(dayElement)
		distribution = saju.DefaultDistribution(meta.DominantElement, meta.SubElement)
	}

	structured := make(map[AreaKey]*StructuredAreaTemplate, len(areaOrder))
	byArea := c.store.locale(l).structured[t]
	for _, area := range areaOrder {
		structured[area] = pickStructured(byArea[area], v)
	}

	return FullInterpretationResult{
		Summary: SummaryBlock{
			DayMaster: DayMaster{
				Value:   dayMasterValue,
				Element: saju.ElementGlyph(dayElement),
				Desc:    meta.CoreTraitSummary,
			},
			ElementDistribution: distribution,
			BodyStrength:        Labeled{Value: meta.BodyStrength, Desc: meta.BodyStrengthDesc},
			FavorableGod:        Labeled{Value: meta.FavorableGod, Desc: meta.FavorableGodDesc},
			TypeCode:            meta.Code,
			TypeLabel:           meta.Label,
		},
		AnalysisSteps:   c.store.AnalysisSteps(t, l),
		Impression:      base.Impression,
		Tendency:        base.Tendency,
		Flow:            base.Flow,
		Areas:           base.Areas,
		StructuredAreas: structured,
		Disclaimer:      c.store.Glossary(l).Disclaimer,
	}
}

// ComposeFull seeds the variant from p and delegates to FullVariantContent.
func (c *Composer) ComposeFull(t saju.Type, p saju.Pillar, l i18n.Locale) FullInterpretationResult {
	return c.FullVariantContent(t, saju.VariantFromPillar(p), l, &p)
}

// StructuredArea returns the structured template of one area, or false when
// the locale has none for it.
func (c *Composer) StructuredArea(t saju.Type, variant int, l i18n.Locale, area AreaKey) (*StructuredAreaTemplate, bool) {
	st := pickStructured(c.store.locale(l).structured[t][area], clampVariant(variant))
	return st, st != nil
}

// HasStructured reports whether l has structured templates for area.
func (c *Composer) HasStructured(l i18n.Locale, area AreaKey) bool {
	return c.store.HasStructured(l, area)
}

func clampVariant(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func buildArea(set AreaTemplateSet, v, offset int) AreaInterpretation {
	return AreaInterpretation{
		Main:    pickSafe(set.Main, v, offset),
		Summary: pickSafe(set.Summary, v, offset),
		Auxiliaries: AuxiliarySlots{
			SituationEmphasis:      pickSafe(set.Aux.SituationEmphasis, v, offset+situationOffset),
			MisunderstandingBuffer: pickSafe(set.Aux.MisunderstandingBuffer, v, offset+misunderstandingOffset),
			TimeContext:            pickSafe(set.Aux.TimeContext, v, offset+timeContextOffset),
		},
	}
}

// pickSafe returns arr[(v+offset) mod len(arr)]. Both terms are reduced
// before adding so a variant near math.MaxInt cannot wrap negative.
func pickSafe(arr []string, v, offset int) string {
	if len(arr) == 0 {
		return ""
	}
	return arr[slotIndex(len(arr), v, offset)]
}

func pickStructured(arr []StructuredAreaTemplate, v int) *StructuredAreaTemplate {
	if len(arr) == 0 {
		return nil
	}
	st := arr[slotIndex(len(arr), v, 0)]
	return &st
}

// slotIndex expects n > 0 and non-negative v and offset.
func slotIndex(n, v, offset int) int {
	return (v%n + offset%n) % n
}
