package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
	"github.com/gamja-farmer/saju-frame/internal/saju"
	"github.com/gamja-farmer/saju-frame/internal/view"
)

const maxFormBytes = 8 << 10

func (h *SiteHandlers) inputForm(w http.ResponseWriter, r *http.Request) {
	h.renderInput(w, r, http.StatusOK, view.InputForm{})
}

// submitInput computes the chart and redirects to the result route, which is
// the only place the outcome is kept.
func (h *SiteHandlers) submitInput(w http.ResponseWriter, r *http.Request) {
	l := requestctx.Locale(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderInput(w, r, http.StatusBadRequest, view.InputForm{Errors: []string{"input.error"}})
		return
	}

	in, form := parseBirthForm(r.PostForm)
	chart, err := h.charts.Compute(r.Context(), in)
	if err != nil {
		var verr *saju.ValidationError
		if !errors.As(err, &verr) {
			h.fail(w, r, err)
			return
		}
		requestctx.Logger(r.Context()).Info("birth input rejected", zap.Strings("fields", verr.Fields))
		for _, field := range verr.Fields {
			form.Errors = append(form.Errors, "input.error."+field)
		}
		h.renderInput(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	http.Redirect(w, r, chart.ResultPath(l), http.StatusSeeOther)
}

func (h *SiteHandlers) renderInput(w http.ResponseWriter, r *http.Request, status int, form view.InputForm) {
	l := requestctx.Locale(r.Context())
	meta := h.meta(l, "/input", h.bundle.T(l, "input.title"), h.bundle.T(l, "input.lead"))
	meta.Robots = robotsNoIndex
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, status, view.PageInput, view.Page{
		Meta: meta,
		Path: "/input",
		Data: form,
	})
}

// parseBirthForm reads the birth form. Unparseable dates become zero and fail
// validation; an unparseable or out-of-range hour is treated as absent.
func parseBirthForm(values url.Values) (saju.BirthInput, view.InputForm) {
	form := view.InputForm{
		Year:   strings.TrimSpace(values.Get("year")),
		Month:  strings.TrimSpace(values.Get("month")),
		Day:    strings.TrimSpace(values.Get("day")),
		Hour:   strings.TrimSpace(values.Get("hour")),
		Gender: string(saju.ParseGender(values.Get("gender"))),
	}
	in := saju.BirthInput{
		Year:   atoiOrZero(form.Year),
		Month:  atoiOrZero(form.Month),
		Day:    atoiOrZero(form.Day),
		Gender: saju.Gender(form.Gender),
	}
	if form.Hour != "" {
		if hour, err := strconv.Atoi(form.Hour); err == nil {
			in.Hour = &hour
		}
	}
	return in.Normalized(), form
}

func atoiOrZero(value string) int {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return v
}
