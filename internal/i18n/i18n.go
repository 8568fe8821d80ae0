package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed locales/*.json
var embedded embed.FS

// Bundle holds the UI strings of every supported locale.
type Bundle struct {
	dict     map[Locale]map[string]string
	fallback Locale
}

// Default loads the embedded UI strings.
func Default() (*Bundle, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, DefaultLocale)
}

// Load reads <locale>.json for every supported locale from fsys. Only the
// fallback locale is required.
func Load(fsys fs.FS, fallback Locale) (*Bundle, error) {
	b := &Bundle{
		dict:     map[Locale]map[string]string{},
		fallback: fallback,
	}
	for _, l := range locales {
		raw, err := fs.ReadFile(fsys, string(l)+".json")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}
	return b, nil
}

// Fallback returns the configured fallback locale.
func (b *Bundle) Fallback() Locale { return b.fallback }

// T returns the translation for key in lang, falling back to the default
// locale and finally the key itself.
func (b *Bundle) T(lang Locale, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Has reports whether lang defines key itself.
func (b *Bundle) Has(lang Locale, key string) bool {
	_, ok := b.dict[lang][key]
	return ok
}

// Resolve chooses the best locale from an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) Locale {
	if l, ok := FromAcceptLanguage(acceptLang); ok {
		return l
	}
	return b.fallback
}
