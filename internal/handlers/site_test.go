package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

func postForm(t *testing.T, app testApp, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(t, req)
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	rec := app.get(t, "/zh-TW")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "zh-TW", rec.Header().Get("Content-Language"))

	doc := document(t, rec)
	require.Equal(t, 10, doc.Find("li.type-card").Length())
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, testBaseURL+"/zh-TW", canonical)
	xdefault, _ := doc.Find(`link[hreflang="x-default"]`).Attr("href")
	require.Equal(t, testBaseURL+"/zh-TW", xdefault)
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"@type":"WebSite"`)
	require.Equal(t, 1, doc.Find(`header a[href="/zh-TW/blog"]`).Length())
}

func TestInputPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	rec := app.get(t, "/en/input")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	doc := document(t, rec)
	action, _ := doc.Find("form.birth-form").Attr("action")
	require.Equal(t, "/en/input", action)
	robots, _ := doc.Find(`meta[name="robots"]`).Attr("content")
	require.Equal(t, "noindex", robots)
	require.Equal(t, 0, doc.Find(".form-errors").Length())
}

func TestSubmitInputRedirectsToResult(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	cases := []struct {
		name     string
		path     string
		values   url.Values
		location string
	}{
		{
			name:     "date only",
			path:     "/zh-TW/input",
			values:   url.Values{"year": {"1990"}, "month": {"1"}, "day": {"15"}},
			location: "/zh-TW/result/shui-huo-zhi-ren/2",
		},
		{
			name:     "out of range hour is dropped",
			path:     "/ko/input",
			values:   url.Values{"year": {"1990"}, "month": {"01"}, "day": {" 15 "}, "hour": {"24"}, "gender": {"f"}},
			location: "/ko/result/shui-huo-zhi-ren/2",
		},
		{
			name:     "unparseable hour is dropped",
			path:     "/en/input",
			values:   url.Values{"year": {"1990"}, "month": {"1"}, "day": {"15"}, "hour": {"noon"}},
			location: "/en/result/shui-huo-zhi-ren/2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, app, tc.path, tc.values)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, tc.location, rec.Header().Get("Location"))
		})
	}
}

func TestSubmitInputValidationErrors(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	rec := postForm(t, app, "/en/input", url.Values{"year": {"1890"}, "month": {"13"}, "day": {"15"}, "hour": {"9"}, "gender": {"M"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := document(t, rec)
	errs := doc.Find(".form-errors li")
	require.Equal(t, 2, errs.Length())
	require.Equal(t, app.bundle.T(i18n.English, "input.error.year"), errs.Eq(0).Text())
	require.Equal(t, app.bundle.T(i18n.English, "input.error.month"), errs.Eq(1).Text())
	year, _ := doc.Find(`input[name="year"]`).Attr("value")
	require.Equal(t, "1890", year)
	hour, _ := doc.Find(`select[name="hour"] option[selected]`).Attr("value")
	require.Equal(t, "9", hour)

	rec = postForm(t, app, "/en/input", url.Values{"year": {"abc"}, "month": {"1"}, "day": {"1"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, 1, document(t, rec).Find(".form-errors li").Length())
}

func TestTypeOverviewPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	rec := app.get(t, "/ko/result/"+string(saju.TypeWoodFire))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	links := doc.Find("section.variants a")
	require.Equal(t, saju.VariantCount, links.Length())
	first, _ := links.First().Attr("href")
	require.Equal(t, "/ko/result/mu-huo-zhi-ren/0", first)
	require.Equal(t, 5, doc.Find("section.distribution li").Length())
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), "BreadcrumbList")

	require.Equal(t, http.StatusNotFound, app.get(t, "/ko/result/not-a-type").Code)
}

func TestResultPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	rec := app.get(t, "/zh-TW/result/shui-huo-zhi-ren/2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, pageCacheControl, rec.Header().Get("Cache-Control"))

	doc := document(t, rec)
	variant, _ := doc.Find("article.result").Attr("data-variant")
	require.Equal(t, "2", variant)
	require.Equal(t, 4, doc.Find("section.area").Length())
	require.Positive(t, doc.Find("abbr.term").Length())
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, testBaseURL+"/zh-TW/result/shui-huo-zhi-ren/2", canonical)
	switcher, _ := doc.Find(`nav.languages a[hreflang="en"]`).Attr("href")
	require.Equal(t, "/en/result/shui-huo-zhi-ren/2", switcher)

	for _, path := range []string{
		"/zh-TW/result/shui-huo-zhi-ren/5",
		"/zh-TW/result/shui-huo-zhi-ren/02",
		"/zh-TW/result/shui-huo-zhi-ren/-1",
		"/zh-TW/result/Shui-Huo-Zhi-Ren/2",
	} {
		require.Equal(t, http.StatusNotFound, app.get(t, path).Code, path)
	}
}

func TestAreaPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)

	rec := app.get(t, "/zh-TW/result/shui-huo-zhi-ren/2/wealth")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	require.Equal(t, 1, doc.Find("section.structured").Length())
	require.Equal(t, 3, doc.Find("section.auxiliaries dd").Length())

	rec = app.get(t, "/en/result/shui-huo-zhi-ren/2/wealth")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = document(t, rec)
	require.Equal(t, 0, doc.Find("section.structured").Length())
	require.NotEmpty(t, strings.TrimSpace(doc.Find("section.plain p.area-main").Text()))

	require.Equal(t, http.StatusNotFound, app.get(t, "/en/result/shui-huo-zhi-ren/2/fortune").Code)
}

func TestBlogPages(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)

	doc := document(t, app.get(t, "/zh-TW/blog"))
	cards := doc.Find("li.post-card")
	require.Equal(t, 3, cards.Length())
	first, _ := cards.First().Find("a").Attr("href")
	require.Equal(t, "/zh-TW/blog/wei-shen-me-zong-shi-xiang-tai-duo", first)

	doc = document(t, app.get(t, "/en/blog"))
	require.Equal(t, 1, doc.Find("p.empty").Length())

	rec := app.get(t, "/ko/blog/ba-zi-kan-xing-ge-ri-zhu")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = document(t, rec)
	require.Contains(t, doc.Find("article.post .prose").Text(), "일간")
	require.Equal(t, 3, doc.Find(`link[rel="alternate"]`).Length())
	ogType, _ := doc.Find(`meta[property="og:type"]`).Attr("content")
	require.Equal(t, "article", ogType)
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"@type":"Article"`)

	require.Equal(t, http.StatusNotFound, app.get(t, "/en/blog/ba-zi-kan-xing-ge-ri-zhu").Code)
	require.Equal(t, http.StatusNotFound, app.get(t, "/ko/blog/wei-shen-me-zong-shi-xiang-tai-duo").Code)
}

func TestBlogDisabled(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, false)
	require.Equal(t, http.StatusNotFound, app.get(t, "/zh-TW/blog").Code)
	require.Equal(t, http.StatusNotFound, app.get(t, "/zh-TW/blog/ba-zi-kan-xing-ge-ri-zhu").Code)

	doc := document(t, app.get(t, "/zh-TW"))
	require.Equal(t, 0, doc.Find(`a[href="/zh-TW/blog"]`).Length())
}

func TestStaticPages(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	for _, l := range i18n.Locales() {
		for _, slug := range []string{"about", "privacy"} {
			rec := app.get(t, "/"+string(l)+"/"+slug)
			require.Equal(t, http.StatusOK, rec.Code, "%s/%s", l, slug)
			doc := document(t, rec)
			require.NotEmpty(t, doc.Find("article.page h1").Text())
			canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
			require.Equal(t, testBaseURL+"/"+string(l)+"/"+slug, canonical)
		}
	}
}
