package saju

import (
	"errors"
	"fmt"
	"strings"
)

// Stem is one of the ten heavenly stems, identified by its pinyin label.
type Stem string

const (
	StemJia  Stem = "jia"
	StemYi   Stem = "yi"
	StemBing Stem = "bing"
	StemDing Stem = "ding"
	StemWu   Stem = "wu"
	StemJi   Stem = "ji"
	StemGeng Stem = "geng"
	StemXin  Stem = "xin"
	StemRen  Stem = "ren"
	StemGui  Stem = "gui"
)

// Branch is one of the twelve earthly branches, identified by its pinyin label.
type Branch string

const (
	BranchZi   Branch = "zi"
	BranchChou Branch = "chou"
	BranchYin  Branch = "yin"
	BranchMao  Branch = "mao"
	BranchChen Branch = "chen"
	BranchSi   Branch = "si"
	BranchWu   Branch = "wu"
	BranchWei  Branch = "wei"
	BranchShen Branch = "shen"
	BranchYou  Branch = "you"
	BranchXu   Branch = "xu"
	BranchHai  Branch = "hai"
)

// Element is one of the five elements.
type Element string

const (
	Wood  Element = "wood"
	Fire  Element = "fire"
	Earth Element = "earth"
	Metal Element = "metal"
	Water Element = "water"
)

// elementOrder is the canonical element order. Distribution drift correction
// breaks ties by this order.
var elementOrder = [5]Element{Wood, Fire, Earth, Metal, Water}

// Elements returns the five elements in canonical order.
func Elements() []Element {
	out := make([]Element, len(elementOrder))
	copy(out, elementOrder[:])
	return out
}

// ParseElement resolves an element label.
func ParseElement(value string) (Element, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, el := range elementOrder {
		if string(el) == value {
			return el, true
		}
	}
	return "", false
}

// Type is a chart-type category assigned by ClassifyType. The string value is
// the URL slug used by result routes.
type Type string

const (
	TypeWoodFire   Type = "mu-huo-zhi-ren"
	TypeMetalWater Type = "jin-shui-zhi-ren"
	TypeEarthMetal Type = "tu-jin-zhi-ren"
	TypeWaterWood  Type = "shui-mu-zhi-ren"
	TypeFireEarth  Type = "huo-tu-zhi-ren"
	TypeWoodMetal  Type = "mu-jin-zhi-ren"
	TypeMetalWood  Type = "jin-mu-zhi-ren"
	TypeWaterFire  Type = "shui-huo-zhi-ren"
	TypeFireMetal  Type = "huo-jin-zhi-ren"
	TypeEarthWater Type = "tu-shui-zhi-ren"
)

// typeOrder is positional: ClassifyType indexes into it.
var typeOrder = [10]Type{
	TypeWoodFire,
	TypeMetalWater,
	TypeEarthMetal,
	TypeWaterWood,
	TypeFireEarth,
	TypeWoodMetal,
	TypeMetalWood,
	TypeWaterFire,
	TypeFireMetal,
	TypeEarthWater,
}

// Types returns every chart type in classification order.
func Types() []Type {
	out := make([]Type, len(typeOrder))
	copy(out, typeOrder[:])
	return out
}

// ParseType resolves a type slug.
func ParseType(value string) (Type, bool) {
	value = strings.TrimSpace(value)
	for _, t := range typeOrder {
		if string(t) == value {
			return t, true
		}
	}
	return "", false
}

// IsType reports whether t is one of the ten registered types.
func IsType(t Type) bool {
	_, ok := ParseType(string(t))
	return ok
}

// Gender is an optional binary tag carried on BirthInput. It does not
// influence any calculation.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
)

// ParseGender accepts "M" or "F"; anything else yields GenderUnspecified.
func ParseGender(value string) Gender {
	switch Gender(strings.ToUpper(strings.TrimSpace(value))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

const (
	MinYear = 1900
	MaxYear = 2100
)

// BirthInput is a solar birth date with optional hour and gender.
type BirthInput struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Hour   *int   `json:"hour,omitempty"`
	Gender Gender `json:"gender,omitempty"`
}

// ErrInvalidBirthInput is matched by every *ValidationError.
var ErrInvalidBirthInput = errors.New("saju: invalid birth input")

// ValidationError lists the BirthInput fields that are missing or out of range.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("saju: invalid birth input fields [%s]", strings.Join(e.Fields, ", "))
}

// Is lets errors.Is match ErrInvalidBirthInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidBirthInput
}

// Validate checks the documented ranges. Day is not checked against the
// actual month length.
func (in BirthInput) Validate() error {
	var fields []string
	if in.Year < MinYear || in.Year > MaxYear {
		fields = append(fields, "year")
	}
	if in.Month < 1 || in.Month > 12 {
		fields = append(fields, "month")
	}
	if in.Day < 1 || in.Day > 31 {
		fields = append(fields, "day")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalized drops an out-of-range hour and an unknown gender tag.
func (in BirthInput) Normalized() BirthInput {
	out := in
	if in.Hour != nil {
		if h := *in.Hour; h >= 0 && h <= 23 {
			out.Hour = &h
		} else {
			out.Hour = nil
		}
	}
	out.Gender = ParseGender(string(in.Gender))
	return out
}

// Pair is one pillar: a stem over a branch.
type Pair struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

// Pillar holds the four pillars of a chart. Hour is nil when no birth hour
// was supplied; its stem and branch are always set together.
type Pillar struct {
	Year  Pair  `json:"year"`
	Month Pair  `json:"month"`
	Day   Pair  `json:"day"`
	Hour  *Pair `json:"hour,omitempty"`
}

// HasHour reports whether the hour pillar is present.
func (p Pillar) HasHour() bool { return p.Hour != nil }

// Stems returns the stems of every present pillar, year first.
func (p Pillar) Stems() []Stem {
	out := []Stem{p.Year.Stem, p.Month.Stem, p.Day.Stem}
	if p.Hour != nil {
		out = append(out, p.Hour.Stem)
	}
	return out
}

// Branches returns the branches of every present pillar, year first.
func (p Pillar) Branches() []Branch {
	out := []Branch{p.Year.Branch, p.Month.Branch, p.Day.Branch}
	if p.Hour != nil {
		out = append(out, p.Hour.Branch)
	}
	return out
}

// LunarDate is the output of a Calendar.
type LunarDate struct {
	Year      int  `json:"year"`
	Month     int  `json:"month"`
	Day       int  `json:"day"`
	LeapMonth bool `json:"leapMonth,omitempty"`
}
