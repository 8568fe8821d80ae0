package interpretation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

//go:embed data
var embedded embed.FS

// Data files read per locale directory. All of them are optional except
// metadata.yaml for the fallback locale.
const (
	overviewFile   = "overview.yaml"
	areasFile      = "areas.yaml"
	structuredFile = "structured.yaml"
	metadataFile   = "metadata.yaml"
	stepsFile      = "steps.yaml"
	glossaryFile   = "glossary.yaml"
)

// AreaTemplateSet holds the candidate sentences of one area for one type.
type AreaTemplateSet struct {
	Main    []string     `yaml:"main"`
	Summary []string     `yaml:"summary"`
	Aux     AuxTemplates `yaml:"aux"`
}

// AuxTemplates holds the candidates of the three auxiliary slots.
type AuxTemplates struct {
	SituationEmphasis      []string `yaml:"situation_emphasis"`
	MisunderstandingBuffer []string `yaml:"misunderstanding_buffer"`
	TimeContext            []string `yaml:"time_context"`
}

type overviewSet struct {
	Impression  []string `yaml:"impression"`
	Tendency    []string `yaml:"tendency"`
	Flow        []string `yaml:"flow"`
	Terminology []string `yaml:"terminology"`
}

type overviewDoc struct {
	Default overviewSet            `yaml:"default"`
	Types   map[string]overviewSet `yaml:"types"`
}

type areasDoc struct {
	Default map[string]AreaTemplateSet            `yaml:"default"`
	Types   map[string]map[string]AreaTemplateSet `yaml:"types"`
}

type structuredDoc struct {
	Default map[string][]StructuredAreaTemplate            `yaml:"default"`
	Types   map[string]map[string][]StructuredAreaTemplate `yaml:"types"`
}

type metadataDoc struct {
	Types map[string]TypeMetadata `yaml:"types"`
}

type stepsDoc struct {
	Closing *AnalysisStep             `yaml:"closing"`
	Types   map[string][]AnalysisStep `yaml:"types"`
}

type localeTemplates struct {
	overview   map[saju.Type]overviewSet
	areas      map[saju.Type]map[AreaKey]AreaTemplateSet
	structured map[saju.Type]map[AreaKey][]StructuredAreaTemplate
	metadata   map[saju.Type]TypeMetadata
	steps      map[saju.Type][]AnalysisStep
	glossary   Glossary
}

// Store is the read-only template data of every locale. It is built once and
// shared by any number of goroutines.
type Store struct {
	locales  map[i18n.Locale]*localeTemplates
	fallback i18n.Locale
}

// Default loads the templates compiled into the binary.
func Default() (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub, i18n.DefaultLocale)
}

// Load reads <locale>/*.yaml for every supported locale from fsys. Default
// sections are expanded to every type at load so lookups never consult them
// again.
func Load(fsys fs.FS, fallback i18n.Locale) (*Store, error) {
	s := &Store{
		locales:  make(map[i18n.Locale]*localeTemplates),
		fallback: fallback,
	}
	for _, l := range i18n.Locales() {
		lt, err := loadLocale(fsys, l)
		if err != nil {
			return nil, fmt.Errorf("interpretation: load %s: %w", l, err)
		}
		s.locales[l] = lt
	}
	if len(s.locales[fallback].metadata) == 0 {
		return nil, fmt.Errorf("interpretation: fallback locale %s has no type metadata", fallback)
	}
	return s, nil
}

func loadLocale(fsys fs.FS, l i18n.Locale) (*localeTemplates, error) {
	lt := &localeTemplates{
		overview:   make(map[saju.Type]overviewSet),
		areas:      make(map[saju.Type]map[AreaKey]AreaTemplateSet),
		structured: make(map[saju.Type]map[AreaKey][]StructuredAreaTemplate),
		metadata:   make(map[saju.Type]TypeMetadata),
	}

	var ov overviewDoc
	if err := readYAML(fsys, l, overviewFile, &ov); err != nil {
		return nil, err
	}
	if err := lt.expandOverview(ov); err != nil {
		return nil, err
	}

	var ar areasDoc
	if err := readYAML(fsys, l, areasFile, &ar); err != nil {
		return nil, err
	}
	if err := lt.expandAreas(ar); err != nil {
		return nil, err
	}

	var st structuredDoc
	if err := readYAML(fsys, l, structuredFile, &st); err != nil {
		return nil, err
	}
	if err := lt.expandStructured(st); err != nil {
		return nil, err
	}

	var md metadataDoc
	if err := readYAML(fsys, l, metadataFile, &md); err != nil {
		return nil, err
	}
	for slug, meta := range md.Types {
		t, ok := saju.ParseType(slug)
		if !ok {
			return nil, fmt.Errorf("%s: unknown type %q", metadataFile, slug)
		}
		if _, ok := saju.ParseElement(string(meta.DominantElement)); !ok {
			return nil, fmt.Errorf("%s: %s: unknown dominant element %q", metadataFile, slug, meta.DominantElement)
		}
		if _, ok := saju.ParseElement(string(meta.SubElement)); !ok {
			return nil, fmt.Errorf("%s: %s: unknown sub element %q", metadataFile, slug, meta.SubElement)
		}
		lt.metadata[t] = meta
	}

	var sd stepsDoc
	if err := readYAML(fsys, l, stepsFile, &sd); err != nil {
		return nil, err
	}
	if len(sd.Types) > 0 {
		lt.steps = make(map[saju.Type][]AnalysisStep, len(sd.Types))
		for slug, steps := range sd.Types {
			t, ok := saju.ParseType(slug)
			if !ok {
				return nil, fmt.Errorf("%s: unknown type %q", stepsFile, slug)
			}
			seq := append([]AnalysisStep(nil), steps...)
			if sd.Closing != nil {
				seq = append(seq, *sd.Closing)
			}
			lt.steps[t] = seq
		}
	}

	if err := readYAML(fsys, l, glossaryFile, &lt.glossary); err != nil {
		return nil, err
	}
	return lt, nil
}

func (lt *localeTemplates) expandOverview(doc overviewDoc) error {
	for _, t := range saju.Types() {
		lt.overview[t] = doc.Default
	}
	for slug, set := range doc.Types {
		t, ok := saju.ParseType(slug)
		if !ok {
			return fmt.Errorf("%s: unknown type %q", overviewFile, slug)
		}
		merged := lt.overview[t]
		if set.Impression != nil {
			merged.Impression = set.Impression
		}
		if set.Tendency != nil {
			merged.Tendency = set.Tendency
		}
		if set.Flow != nil {
			merged.Flow = set.Flow
		}
		if set.Terminology != nil {
			merged.Terminology = set.Terminology
		}
		lt.overview[t] = merged
	}
	return nil
}

func (lt *localeTemplates) expandAreas(doc areasDoc) error {
	defaults := make(map[AreaKey]AreaTemplateSet, len(doc.Default))
	for key, set := range doc.Default {
		area, ok := ParseAreaKey(key)
		if !ok {
			return fmt.Errorf("%s: unknown area %q", areasFile, key)
		}
		defaults[area] = set
	}
	for _, t := range saju.Types() {
		sets := make(map[AreaKey]AreaTemplateSet, len(areaOrder))
		for area, set := range defaults {
			sets[area] = set
		}
		lt.areas[t] = sets
	}
	for slug, byArea := range doc.Types {
		t, ok := saju.ParseType(slug)
		if !ok {
			return fmt.Errorf("%s: unknown type %q", areasFile, slug)
		}
		for key, set := range byArea {
			area, ok := ParseAreaKey(key)
			if !ok {
				return fmt.Errorf("%s: %s: unknown area %q", areasFile, slug, key)
			}
			lt.areas[t][area] = set
		}
	}
	return nil
}

func (lt *localeTemplates) expandStructured(doc structuredDoc) error {
	defaults := make(map[AreaKey][]StructuredAreaTemplate, len(doc.Default))
	for key, list := range doc.Default {
		area, ok := ParseAreaKey(key)
		if !ok {
			return fmt.Errorf("%s: unknown area %q", structuredFile, key)
		}
		defaults[area] = list
	}
	for _, t := range saju.Types() {
		byArea := make(map[AreaKey][]StructuredAreaTemplate, len(areaOrder))
		for area, list := range defaults {
			byArea[area] = list
		}
		lt.structured[t] = byArea
	}
	for slug, byKey := range doc.Types {
		t, ok := saju.ParseType(slug)
		if !ok {
			return fmt.Errorf("%s: unknown type %q", structuredFile, slug)
		}
		for key, list := range byKey {
			area, ok := ParseAreaKey(key)
			if !ok {
				return fmt.Errorf("%s: %s: unknown area %q", structuredFile, slug, key)
			}
			lt.structured[t][area] = list
		}
	}
	return nil
}

func readYAML(fsys fs.FS, l i18n.Locale, name string, out any) error {
	raw, err := fs.ReadFile(fsys, path.Join(string(l), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) locale(l i18n.Locale) *localeTemplates {
	if lt, ok := s.locales[l]; ok {
		return lt
	}
	return &localeTemplates{}
}

// Fallback returns the locale used when a locale lacks metadata, steps or a
// disclaimer.
func (s *Store) Fallback() i18n.Locale { return s.fallback }

// Metadata returns the type record for t in l, falling back to the default
// locale.
func (s *Store) Metadata(t saju.Type, l i18n.Locale) (TypeMetadata, bool) {
	if meta, ok := s.locale(l).metadata[t]; ok {
		return meta, true
	}
	meta, ok := s.locale(s.fallback).metadata[t]
	return meta, ok
}

// AnalysisSteps returns a copy of the step sequence of t. A locale without
// authored steps uses the default locale's.
func (s *Store) AnalysisSteps(t saju.Type, l i18n.Locale) []AnalysisStep {
	steps := s.locale(l).steps
	if steps == nil {
		steps = s.locale(s.fallback).steps
	}
	return append([]AnalysisStep{}, steps[t]...)
}

// Glossary returns the glossary of l. The disclaimer falls back to the
// default locale when l has none.
func (s *Store) Glossary(l i18n.Locale) Glossary {
	g := s.locale(l).glossary
	out := Glossary{
		Disclaimer: g.Disclaimer,
		Terms:      append([]GlossaryTerm{}, g.Terms...),
	}
	if out.Disclaimer == "" {
		out.Disclaimer = s.locale(s.fallback).glossary.Disclaimer
	}
	return out
}

// HasStructured reports whether l carries at least one structured template
// for area.
func (s *Store) HasStructured(l i18n.Locale, area AreaKey) bool {
	for _, byArea := range s.locale(l).structured {
		if len(byArea[area]) > 0 {
			return true
		}
	}
	return false
}

// Summary counts the loaded entries per locale for readiness reporting.
func (s *Store) Summary() map[i18n.Locale]StoreStats {
	out := make(map[i18n.Locale]StoreStats, len(s.locales))
	for l, lt := range s.locales {
		stats := StoreStats{Metadata: len(lt.metadata), Glossary: len(lt.glossary.Terms)}
		for _, t := range saju.Types() {
			if len(lt.overview[t].Impression) > 0 {
				stats.Overview++
			}
			if len(lt.steps[t]) > 0 {
				stats.Steps++
			}
		}
		for _, area := range areaOrder {
			if s.HasStructured(l, area) {
				stats.StructuredAreas++
			}
		}
		out[l] = stats
	}
	return out
}

// StoreStats summarises one locale of a Store.
type StoreStats struct {
	Overview        int `json:"overview"`
	Metadata        int `json:"metadata"`
	Steps           int `json:"steps"`
	StructuredAreas int `json:"structuredAreas"`
	Glossary        int `json:"glossary"`
}
