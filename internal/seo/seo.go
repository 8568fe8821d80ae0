package seo

import (
	"github.com/gamja-farmer/saju-frame/internal/i18n"
)

const XDefault = "x-default"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	Locale      string
}

type Twitter struct {
	Card  string
	Image string
}

// Alternate is one hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
}

// LanguageAlternates lists baseURL/{locale}{path} for every locale, followed
// by x-default pointing at the default locale's copy.
func LanguageAlternates(baseURL, path string, locales []i18n.Locale, def i18n.Locale) []Alternate {
	out := make([]Alternate, 0, len(locales)+1)
	hasDefault := false
	for _, l := range locales {
		out = append(out, Alternate{Hreflang: string(l), Href: LocaleURL(baseURL, l, path)})
		if l == def {
			hasDefault = true
		}
	}
	if hasDefault {
		out = append(out, Alternate{Hreflang: XDefault, Href: LocaleURL(baseURL, def, path)})
	}
	return out
}

// LocaleURL joins baseURL, the locale prefix and path. path is "" or starts
// with "/".
func LocaleURL(baseURL string, l i18n.Locale, path string) string {
	return baseURL + "/" + string(l) + path
}

// NewMeta fills the common fields for a localized page.
func NewMeta(title, description, baseURL string, l i18n.Locale, path string, alternates []i18n.Locale, def i18n.Locale) Meta {
	canonical := LocaleURL(baseURL, l, path)
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Type:        "website",
			Locale:      ogLocale(l),
		},
		Twitter:    Twitter{Card: "summary"},
		Alternates: LanguageAlternates(baseURL, path, alternates, def),
	}
}

func ogLocale(l i18n.Locale) string {
	switch l {
	case i18n.TraditionalChinese:
		return "zh_TW"
	case i18n.Korean:
		return "ko_KR"
	default:
		return "en_US"
	}
}
