package view

import (
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

// Placeholder is shown for empty content slots.
const Placeholder = "—"

var localeNames = map[i18n.Locale]string{
	i18n.TraditionalChinese: "繁體中文",
	i18n.Korean:             "한국어",
	i18n.English:            "English",
}

func funcMap(bundle *i18n.Bundle) template.FuncMap {
	elementLabel := func(l i18n.Locale, e saju.Element) string {
		return bundle.T(l, "element."+string(e))
	}
	areaLabel := func(l i18n.Locale, a interpretation.AreaKey) string {
		return bundle.T(l, "area."+string(a))
	}
	return template.FuncMap{
		"t":            bundle.T,
		"dash":         Dash,
		"annotate":     Annotate,
		"elementLabel": elementLabel,
		"elementGlyph": saju.ElementGlyph,
		"areaLabel":    areaLabel,
		"areas":        interpretation.AreaKeys,
		"localeName":   localeName,
		"date":         formatDate,
		"seq":          seq,
		"itoa":         strconv.Itoa,
		"add":          add,
	}
}

func localeName(l i18n.Locale) string { return localeNames[l] }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func add(a, b int) int { return a + b }

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Dash returns Placeholder for blank text.
func Dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Annotate escapes text and wraps every glossary keyword in an abbr element
// whose title is the term's description. A term such as "Day master (日主)"
// matches the whole term, "Day master" and "日主". Longer keywords win.
func Annotate(text string, terms []interpretation.GlossaryTerm) template.HTML {
	type keyword struct {
		text string
		desc string
	}
	seen := map[string]bool{}
	var keys []keyword
	for _, term := range terms {
		if term.Description == "" {
			continue
		}
		for _, k := range termKeywords(term.Term) {
			if seen[k] {
				continue
			}
			seen[k] = true
			keys = append(keys, keyword{text: k, desc: term.Description})
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i].text) > len(keys[j].text) })

	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		matched := false
		for _, k := range keys {
			if strings.HasPrefix(text[i:], k.text) {
				b.WriteString(template.HTMLEscapeString(text[last:i]))
				b.WriteString(`<abbr class="term" title="`)
				b.WriteString(template.HTMLEscapeString(k.desc))
				b.WriteString(`">`)
				b.WriteString(template.HTMLEscapeString(k.text))
				b.WriteString(`</abbr>`)
				i += len(k.text)
				last = i
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
		}
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}

func termKeywords(term string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	out := []string{term}
	for _, p := range [][2]string{{"(", ")"}, {"（", "）"}} {
		open := strings.Index(term, p[0])
		if open < 0 {
			continue
		}
		end := strings.Index(term[open:], p[1])
		if end < 0 {
			continue
		}
		if before := strings.TrimSpace(term[:open]); before != "" {
			out = append(out, before)
		}
		if inner := strings.TrimSpace(term[open+len(p[0]) : open+end]); inner != "" {
			out = append(out, inner)
		}
	}
	return out
}
