package seo

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

const base = "https://saju.example.org"

func TestLanguageAlternates(t *testing.T) {
	t.Parallel()

	got := LanguageAlternates(base, "/blog", i18n.Locales(), i18n.TraditionalChinese)
	want := []Alternate{
		{Hreflang: "zh-TW", Href: base + "/zh-TW/blog"},
		{Hreflang: "ko", Href: base + "/ko/blog"},
		{Hreflang: "en", Href: base + "/en/blog"},
		{Hreflang: "x-default", Href: base + "/zh-TW/blog"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("alternates mismatch (-want +got):\n%s", diff)
	}

	onlyKo := LanguageAlternates(base, "/blog/x", []i18n.Locale{i18n.Korean}, i18n.TraditionalChinese)
	require.Len(t, onlyKo, 1, "x-default is omitted when the default locale has no copy")
}

func TestBuildSitemap(t *testing.T) {
	t.Parallel()

	mod := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	postMod := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	entries := BuildSitemap(SitemapInput{
		BaseURL:       base + "/",
		DefaultLocale: i18n.TraditionalChinese,
		Locales:       i18n.Locales(),
		Types:         saju.Types(),
		Blog:          true,
		Pages: []Document{
			{Path: "/about", Locales: i18n.Locales()},
			{Path: "/privacy", Locales: i18n.Locales()},
		},
		Posts: []Document{
			{Path: "/blog/day-master", Locales: []i18n.Locale{i18n.TraditionalChinese, i18n.Korean}, LastModified: postMod},
		},
		LastModified: mod,
	})

	// 3 locales x (home, blog, about, privacy, 10 types) + 2 post copies.
	require.Len(t, entries, 3*14+2)
	require.Equal(t, base+"/zh-TW", entries[0].Loc)
	require.Equal(t, mod, entries[0].LastModified)

	locs := map[string]bool{}
	for _, e := range entries {
		locs[e.Loc] = true
		require.NotContains(t, e.Loc, "/input")
	}
	require.True(t, locs[base+"/ko/result/"+string(saju.TypeWaterFire)])
	require.True(t, locs[base+"/en/privacy"])
	require.False(t, locs[base+"/en/blog/day-master"])

	last := entries[len(entries)-1]
	require.Equal(t, base+"/ko/blog/day-master", last.Loc)
	require.Equal(t, postMod, last.LastModified)
	require.Len(t, last.Alternates, 3)
}

func TestBuildSitemapWithoutBlog(t *testing.T) {
	t.Parallel()

	entries := BuildSitemap(SitemapInput{
		BaseURL:       base,
		DefaultLocale: i18n.TraditionalChinese,
		Locales:       []i18n.Locale{i18n.English},
		Types:         saju.Types(),
		Posts:         []Document{{Path: "/blog/x", Locales: []i18n.Locale{i18n.English}}},
	})
	require.Len(t, entries, 11)
	for _, e := range entries {
		require.NotContains(t, e.Loc, "/blog")
	}
}

func TestContentDocuments(t *testing.T) {
	t.Parallel()

	lib, err := content.Default()
	require.NoError(t, err)

	pages, posts := ContentDocuments(lib, i18n.Locales())
	require.Len(t, pages, 2)
	require.Equal(t, "/about", pages[0].Path)
	require.Equal(t, i18n.Locales(), pages[1].Locales)
	require.False(t, pages[1].LastModified.IsZero())

	require.Len(t, posts, 3)
	require.Equal(t, "/blog/wei-shen-me-zong-shi-xiang-tai-duo", posts[1].Path)
	require.Equal(t, []i18n.Locale{i18n.TraditionalChinese}, posts[1].Locales)
	require.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), posts[1].LastModified)
	require.Equal(t, []i18n.Locale{i18n.TraditionalChinese, i18n.Korean}, posts[0].Locales)

	pages, posts = ContentDocuments(nil, i18n.Locales())
	require.Nil(t, pages)
	require.Nil(t, posts)
}

func TestWriteSitemap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteSitemap(&buf, []SitemapEntry{{
		Loc:          base + "/ko",
		LastModified: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		Alternates:   LanguageAlternates(base, "", i18n.Locales(), i18n.TraditionalChinese),
	}})
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">`)
	require.Contains(t, out, "<loc>"+base+"/ko</loc>")
	require.Contains(t, out, "<lastmod>2026-01-05</lastmod>")
	require.Contains(t, out, `<xhtml:link rel="alternate" hreflang="x-default" href="`+base+`/zh-TW"></xhtml:link>`)

	var parsed struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.URLs, 1)
}

func TestRobots(t *testing.T) {
	t.Parallel()

	got := Robots(base+"/", i18n.Locales())
	want := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /zh-TW/input\n" +
		"Disallow: /ko/input\n" +
		"Disallow: /en/input\n" +
		"\n" +
		"Sitemap: " + base + "/sitemap.xml\n"
	require.Equal(t, want, got)
}

func TestJSONEscapesScriptBreakout(t *testing.T) {
	t.Parallel()

	out := string(JSON(Article("</script><b>", "", base+"/zh-TW/blog/x", "zh-TW",
		time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), time.Time{})))
	require.NotContains(t, out, "</script>")
	require.Contains(t, out, `"datePublished":"2025-11-03"`)
	require.NotContains(t, out, "dateModified")
	require.Equal(t, "", string(JSON(func() {})))
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta("Title", "Desc", base, i18n.Korean, "/about", i18n.Locales(), i18n.TraditionalChinese)
	require.Equal(t, base+"/ko/about", m.Canonical)
	require.Equal(t, "ko_KR", m.OG.Locale)
	require.Len(t, m.Alternates, 4)

	crumbs := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: base + "/ko"}, {Name: "About", Item: m.Canonical}})
	items := crumbs["itemListElement"].([]map[string]any)
	require.Equal(t, 2, items[1]["position"])
}
