package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, app testApp, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return app.do(t, req)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestAPICreateChart(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)

	rec := postJSON(t, app, "/api/v1/charts", `{"year":1990,"month":1,"day":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var chart struct {
		Type       string `json:"type"`
		Seed       int    `json:"seed"`
		Variant    int    `json:"variant"`
		Locale     string `json:"locale"`
		ResultPath string `json:"resultPath"`
		Pillar     struct {
			Day struct {
				Stem   string `json:"stem"`
				Branch string `json:"branch"`
			} `json:"day"`
			Hour *struct{} `json:"hour"`
		} `json:"pillar"`
		Distribution []struct {
			Element string `json:"element"`
			Percent int    `json:"percent"`
		} `json:"distribution"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	require.Equal(t, "shui-huo-zhi-ren", chart.Type)
	require.Equal(t, 7, chart.Seed)
	require.Equal(t, 2, chart.Variant)
	require.Equal(t, "zh-TW", chart.Locale)
	require.Equal(t, "/zh-TW/result/shui-huo-zhi-ren/2", chart.ResultPath)
	require.Equal(t, "yi", chart.Pillar.Day.Stem)
	require.Equal(t, "si", chart.Pillar.Day.Branch)
	require.Nil(t, chart.Pillar.Hour)
	require.Len(t, chart.Distribution, 5)

	rec = postJSON(t, app, "/api/v1/charts", `{"year":1990,"month":1,"day":15,"hour":9,"locale":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	require.Equal(t, "en", payload["locale"])
	require.Equal(t, "/en/result/shui-huo-zhi-ren/2", payload["resultPath"])
}

func TestAPICreateChartErrors(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "out of range", body: `{"year":1890,"month":1,"day":15}`, status: http.StatusUnprocessableEntity, code: "invalid_birth_input"},
		{name: "unknown field", body: `{"year":1990,"month":1,"day":15,"minute":3}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "malformed", body: `{"year":`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "empty", body: ``, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "unsupported locale", body: `{"year":1990,"month":1,"day":15,"locale":"ja"}`, status: http.StatusBadRequest, code: "invalid_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, app, "/api/v1/charts", tc.body)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.code, decodeBody(t, rec)["error"])
		})
	}

	rec := postJSON(t, app, "/api/v1/charts", `{"year":1890,"month":13,"day":15}`)
	require.Equal(t, []any{"year", "month"}, decodeBody(t, rec)["fields"])
}

func TestAPIResults(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)

	rec := app.get(t, "/api/v1/results/ko/mu-huo-zhi-ren/3")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, apiCacheControl, rec.Header().Get("Cache-Control"))
	var res struct {
		Metadata struct {
			Label string `json:"label"`
		} `json:"metadata"`
		Content struct {
			Impression string                    `json:"impression"`
			Areas      map[string]map[string]any `json:"areas"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Metadata.Label)
	require.NotEmpty(t, res.Content.Impression)
	require.Len(t, res.Content.Areas, 4)

	rec = app.get(t, "/api/v1/results/zh-TW/shui-huo-zhi-ren/2/wealth")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	require.NotNil(t, payload["structured"])
	require.Contains(t, payload, "area")

	for _, path := range []string{
		"/api/v1/results/ko/mu-huo-zhi-ren/9",
		"/api/v1/results/ja/mu-huo-zhi-ren/3",
		"/api/v1/results/ko/unknown/3",
		"/api/v1/results/ko/mu-huo-zhi-ren/3/fortune",
	} {
		rec := app.get(t, path)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		require.Equal(t, "not_found", decodeBody(t, rec)["error"], path)
	}
}

func TestAPITypes(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)

	rec := app.get(t, "/api/v1/types?locale=en")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Locale string `json:"locale"`
		Types  []struct {
			Type         string   `json:"type"`
			VariantPaths []string `json:"variantPaths"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, "en", list.Locale)
	require.Len(t, list.Types, 10)
	require.Equal(t, "mu-huo-zhi-ren", list.Types[0].Type)
	require.Equal(t, "/en/result/mu-huo-zhi-ren/4", list.Types[0].VariantPaths[4])

	require.Equal(t, "zh-TW", decodeBody(t, app.get(t, "/api/v1/types"))["locale"])
	require.Equal(t, http.StatusBadRequest, app.get(t, "/api/v1/types?locale=xx").Code)
}

func TestAPIWithoutServices(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	NewAPIHandlers().Routes(r)

	cases := []struct {
		method, path, code string
	}{
		{http.MethodPost, "/charts", "chart_unavailable"},
		{http.MethodGet, "/results/ko/mu-huo-zhi-ren/0", "result_unavailable"},
		{http.MethodGet, "/types", "result_unavailable"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, tc.path)
		require.Contains(t, rec.Body.String(), tc.code)
	}
}
