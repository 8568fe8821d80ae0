package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported content locale. The string value is the URL prefix.
type Locale string

const (
	TraditionalChinese Locale = "zh-TW"
	Korean             Locale = "ko"
	English            Locale = "en"

	DefaultLocale = TraditionalChinese
)

var locales = []Locale{TraditionalChinese, Korean, English}

// Locales returns the supported locales, default first.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	copy(out, locales)
	return out
}

// ParseLocale matches a URL segment exactly.
func ParseLocale(value string) (Locale, bool) {
	for _, l := range locales {
		if string(l) == value {
			return l, true
		}
	}
	return "", false
}

// Tag returns the BCP 47 tag of l.
func (l Locale) Tag() language.Tag {
	return language.Make(string(l))
}

// HTMLLang is the value for the html lang attribute.
func (l Locale) HTMLLang() string {
	if l == TraditionalChinese {
		return "zh-Hant-TW"
	}
	return string(l)
}

// countryLocales maps ISO 3166-1 alpha-2 codes onto a locale.
var countryLocales = map[string]Locale{
	"TW": TraditionalChinese,
	"HK": TraditionalChinese,
	"CN": TraditionalChinese,
	"MO": TraditionalChinese,
	"KR": Korean,
	"KP": Korean,
}

// FromCountry resolves a country code such as "KR".
func FromCountry(code string) (Locale, bool) {
	l, ok := countryLocales[strings.ToUpper(strings.TrimSpace(code))]
	return l, ok
}

// acceptTags are matched against Accept-Language. Simplified and bare Chinese
// are listed so every Chinese variant lands on zh-TW, the only Chinese locale
// served.
var (
	acceptTags = []language.Tag{
		language.MustParse("zh-TW"),
		language.Korean,
		language.English,
		language.SimplifiedChinese,
		language.Chinese,
	}
	acceptLocales = []Locale{TraditionalChinese, Korean, English, TraditionalChinese, TraditionalChinese}
	acceptMatcher = language.NewMatcher(acceptTags)
)

// FromAcceptLanguage picks the supported locale that best matches an
// Accept-Language header, honouring q-values.
func FromAcceptLanguage(header string) (Locale, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := acceptMatcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(acceptLocales) {
		return "", false
	}
	return acceptLocales[idx], true
}
