package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/platform/httpx"
	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
	"github.com/gamja-farmer/saju-frame/internal/saju"
	"github.com/gamja-farmer/saju-frame/internal/services"
)

const apiCacheControl = "public, max-age=300"

// APIHandlers exposes the chart pipeline as JSON.
type APIHandlers struct {
	charts        services.ChartService
	results       services.ResultService
	defaultLocale i18n.Locale
}

// APIOption customises construction of APIHandlers.
type APIOption func(*APIHandlers)

// WithAPIChartService injects the chart service.
func WithAPIChartService(svc services.ChartService) APIOption {
	return func(h *APIHandlers) {
		h.charts = svc
	}
}

// WithAPIResultService injects the result service.
func WithAPIResultService(svc services.ResultService) APIOption {
	return func(h *APIHandlers) {
		h.results = svc
	}
}

// WithAPIDefaultLocale sets the locale used when a request names none.
func WithAPIDefaultLocale(l i18n.Locale) APIOption {
	return func(h *APIHandlers) {
		h.defaultLocale = l
	}
}

// NewAPIHandlers builds the JSON handlers. Missing services answer 503.
func NewAPIHandlers(opts ...APIOption) *APIHandlers {
	h := &APIHandlers{defaultLocale: i18n.DefaultLocale}
	for _, opt := range opts {
		opt(h)
	}
	if _, ok := i18n.ParseLocale(string(h.defaultLocale)); !ok {
		h.defaultLocale = i18n.DefaultLocale
	}
	return h
}

// Routes registers the API under the router's /api/v1 group.
func (h *APIHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/charts", h.createChart)
	r.Get("/results/{locale}/{type}/{variant}", h.getResult)
	r.Get("/results/{locale}/{type}/{variant}/{area}", h.getArea)
	r.Get("/types", h.listTypes)
}

type chartRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Hour   *int   `json:"hour,omitempty"`
	Gender string `json:"gender,omitempty"`
	Locale string `json:"locale,omitempty"`
}

type chartResponse struct {
	services.Chart
	Locale     i18n.Locale `json:"locale"`
	ResultPath string      `json:"resultPath"`
}

type typesResponse struct {
	Locale i18n.Locale             `json:"locale"`
	Types  []services.TypeOverview `json:"types"`
}

func (h *APIHandlers) createChart(w http.ResponseWriter, r *http.Request) {
	if h.charts == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("chart_unavailable", "chart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req chartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.BadRequest(err.Error()))
		return
	}
	l, err := h.locale(req.Locale)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.BadRequest(err.Error()))
		return
	}

	chart, err := h.charts.Compute(r.Context(), saju.BirthInput{
		Year:   req.Year,
		Month:  req.Month,
		Day:    req.Day,
		Hour:   req.Hour,
		Gender: saju.Gender(req.Gender),
	})
	if err != nil {
		var verr *saju.ValidationError
		if errors.As(err, &verr) {
			httpx.WriteError(r.Context(), w, httpx.NewError("invalid_birth_input", verr.Error(), http.StatusUnprocessableEntity).
				WithDetails(map[string]any{"fields": verr.Fields}))
			return
		}
		requestctx.Logger(r.Context()).Error("compute chart", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.Internal())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chartResponse{
		Chart:      chart,
		Locale:     l,
		ResultPath: chart.ResultPath(l),
	})
}

func (h *APIHandlers) getResult(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(w, r, "")
	if !ok {
		return
	}
	res, err := h.results.Result(r.Context(), route)
	if err != nil {
		h.composeFailed(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *APIHandlers) getArea(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(w, r, chi.URLParam(r, "area"))
	if !ok {
		return
	}
	res, err := h.results.Area(r.Context(), route)
	if err != nil {
		h.composeFailed(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *APIHandlers) listTypes(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("result_unavailable", "result service is unavailable", http.StatusServiceUnavailable))
		return
	}
	l, err := h.locale(r.URL.Query().Get("locale"))
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.BadRequest(err.Error()))
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, typesResponse{Locale: l, Types: h.results.Types(r.Context(), l)})
}

// route validates the path segments of a result request and writes the
// error response when they do not form a result route.
func (h *APIHandlers) route(w http.ResponseWriter, r *http.Request, area string) (services.ResultRoute, bool) {
	if h.results == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("result_unavailable", "result service is unavailable", http.StatusServiceUnavailable))
		return services.ResultRoute{}, false
	}
	route, err := h.results.ParseRoute(chi.URLParam(r, "locale"), chi.URLParam(r, "type"), chi.URLParam(r, "variant"), area)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NotFound(err.Error()))
		return services.ResultRoute{}, false
	}
	return route, true
}

func (h *APIHandlers) composeFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrInvalidRoute) {
		httpx.WriteError(r.Context(), w, httpx.NotFound(err.Error()))
		return
	}
	requestctx.Logger(r.Context()).Error("compose result", zap.Error(err))
	httpx.WriteError(r.Context(), w, httpx.Internal())
}

func (h *APIHandlers) locale(value string) (i18n.Locale, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return h.defaultLocale, nil
	}
	l, ok := i18n.ParseLocale(value)
	if !ok {
		return "", errors.New("unsupported locale " + value)
	}
	return l, nil
}
