package interpretation

import (
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// AreaKey names one of the four life areas.
type AreaKey string

const (
	Wealth AreaKey = "wealth"
	Love   AreaKey = "love"
	Career AreaKey = "career"
	Health AreaKey = "health"
)

var areaOrder = [4]AreaKey{Wealth, Love, Career, Health}

// areaOffsets spaces the areas apart when indexing template arrays.
var areaOffsets = map[AreaKey]int{
	Wealth: 0,
	Love:   3,
	Career: 6,
	Health: 9,
}

// AreaKeys returns the areas in display order.
func AreaKeys() []AreaKey {
	out := make([]AreaKey, len(areaOrder))
	copy(out, areaOrder[:])
	return out
}

// ParseAreaKey matches a URL segment exactly.
func ParseAreaKey(value string) (AreaKey, bool) {
	for _, a := range areaOrder {
		if string(a) == value {
			return a, true
		}
	}
	return "", false
}

// AuxiliarySlots are the short supporting sentences shown under an area.
type AuxiliarySlots struct {
	SituationEmphasis      string `json:"situationEmphasis"`
	MisunderstandingBuffer string `json:"misunderstandingBuffer"`
	TimeContext            string `json:"timeContext"`
}

// AreaInterpretation is the composed text for one area.
type AreaInterpretation struct {
	Main        string         `json:"main"`
	Summary     string         `json:"summary"`
	Auxiliaries AuxiliarySlots `json:"auxiliaries"`
}

// InterpretationResult is the overview plus the four areas. Areas always holds
// all four keys.
type InterpretationResult struct {
	Impression string                        `json:"impression"`
	Tendency   string                        `json:"tendency"`
	Flow       string                        `json:"flow"`
	Areas      map[AreaKey]AreaInterpretation `json:"areas"`
}

// StructuredAreaTemplate is a five-section breakdown of one area, headed by a
// basis label.
type StructuredAreaTemplate struct {
	BasisLabel      string `yaml:"basis_label" json:"basisLabel"`
	StructureBasis  string `yaml:"structure_basis" json:"structureBasis"`
	TendencyDesc    string `yaml:"tendency_desc" json:"tendencyDesc"`
	StrengthInterp  string `yaml:"strength_interp" json:"strengthInterp"`
	RiskInterp      string `yaml:"risk_interp" json:"riskInterp"`
	PracticalAdvice string `yaml:"practical_advice" json:"practicalAdvice"`
}

// AnalysisStep is one step of the fixed reasoning sequence shown for a type.
type AnalysisStep struct {
	Title         string `yaml:"title" json:"title"`
	BasisLabel    string `yaml:"basis_label" json:"basisLabel"`
	LogicSentence string `yaml:"logic_sentence" json:"logicSentence"`
}

// TypeMetadata is the per-locale display record of a chart type.
type TypeMetadata struct {
	Code             string       `yaml:"code" json:"code"`
	Label            string       `yaml:"label" json:"label"`
	DominantElement  saju.Element `yaml:"dominant_element" json:"dominantElement"`
	SubElement       saju.Element `yaml:"sub_element" json:"subElement"`
	BodyStrength     string       `yaml:"body_strength" json:"bodyStrength"`
	BodyStrengthDesc string       `yaml:"body_strength_desc" json:"bodyStrengthDesc"`
	FavorableGod     string       `yaml:"favorable_god" json:"favorableGod"`
	FavorableGodDesc string       `yaml:"favorable_god_desc" json:"favorableGodDesc"`
	CoreTraitSummary string       `yaml:"core_trait_summary" json:"coreTraitSummary"`
}

// GlossaryTerm explains one chart term.
type GlossaryTerm struct {
	Term        string `yaml:"term" json:"term"`
	Description string `yaml:"description" json:"description"`
}

// Glossary is the per-locale disclaimer and term list.
type Glossary struct {
	Disclaimer string         `yaml:"disclaimer" json:"disclaimer"`
	Terms      []GlossaryTerm `yaml:"terms" json:"terms"`
}

// DayMaster describes the day stem of a chart.
type DayMaster struct {
	Value   string `json:"value"`
	Element string `json:"element"`
	Desc    string `json:"desc"`
}

// Labeled is a short value with a one-line explanation.
type Labeled struct {
	Value string `json:"value"`
	Desc  string `json:"desc"`
}

// SummaryBlock is the headline block of a full result.
type SummaryBlock struct {
	DayMaster           DayMaster         `json:"dayMaster"`
	ElementDistribution saju.Distribution `json:"elementDistribution"`
	BodyStrength        Labeled           `json:"bodyStrength"`
	FavorableGod        Labeled           `json:"favorableGod"`
	TypeCode            string            `json:"typeCode"`
	TypeLabel           string            `json:"typeLabel"`
}

// FullInterpretationResult extends InterpretationResult with the summary
// block, analysis steps, structured areas and the disclaimer. A nil
// structured area means the locale has no structured template for it and the
// plain main text should be shown instead.
type FullInterpretationResult struct {
	Summary         SummaryBlock                        `json:"summary"`
	AnalysisSteps   []AnalysisStep                      `json:"analysisSteps"`
	Impression      string                              `json:"impression"`
	Tendency        string                              `json:"tendency"`
	Flow            string                              `json:"flow"`
	Areas           map[AreaKey]AreaInterpretation      `json:"areas"`
	StructuredAreas map[AreaKey]*StructuredAreaTemplate `json:"structuredAreas"`
	Disclaimer      string                              `json:"disclaimer"`
}
