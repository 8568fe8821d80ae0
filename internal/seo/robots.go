package seo

import (
	"strings"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
)

// Robots renders robots.txt. The birth-date form is excluded for every
// locale; everything else is crawlable.
func Robots(baseURL string, locales []i18n.Locale) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, l := range locales {
		b.WriteString("Disallow: /" + string(l) + "/input\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n")
	return b.String()
}
