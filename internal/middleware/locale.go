package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/platform/requestctx"
)

// LocaleCookie remembers the last locale the visitor browsed.
const LocaleCookie = "hl"

const localeCookieMaxAge = 365 * 24 * time.Hour

// RedirectConfig drives RootRedirect.
type RedirectConfig struct {
	// CountryHeader carries an ISO 3166 country code set by the edge proxy.
	CountryHeader string
	Default       i18n.Locale
}

// ResolveRootLocale picks the locale for a request to "/": a valid hl
// cookie, then the country header, then Accept-Language, then the default.
func ResolveRootLocale(r *http.Request, cfg RedirectConfig) i18n.Locale {
	if c, err := r.Cookie(LocaleCookie); err == nil {
		if l, ok := i18n.ParseLocale(c.Value); ok {
			return l
		}
	}
	if cfg.CountryHeader != "" {
		if l, ok := i18n.FromCountry(r.Header.Get(cfg.CountryHeader)); ok {
			return l
		}
	}
	if l, ok := i18n.FromAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l
	}
	if _, ok := i18n.ParseLocale(string(cfg.Default)); ok {
		return cfg.Default
	}
	return i18n.DefaultLocale
}

// RootRedirect answers "/" with a 302 to the resolved locale's home page.
func RootRedirect(cfg RedirectConfig) http.Handler {
	vary := []string{"Accept-Language", "Cookie"}
	if cfg.CountryHeader != "" {
		vary = append(vary, cfg.CountryHeader)
	}
	varyValue := strings.Join(vary, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := ResolveRootLocale(r, cfg)
		w.Header().Add("Vary", varyValue)
		w.Header().Set("Cache-Control", "private, no-store")
		http.Redirect(w, r, "/"+string(l), http.StatusFound)
	})
}

// LocalePrefix guards routes mounted under "/{locale}". A supported locale
// is stored on the request context, echoed as Content-Language and
// remembered in the hl cookie. A locale that only differs in case is
// redirected permanently to its canonical spelling; anything else goes to
// notFound.
func LocalePrefix(notFound http.Handler) func(http.Handler) http.Handler {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "locale")
			l, ok := i18n.ParseLocale(raw)
			if !ok {
				if canonical, found := canonicalLocale(raw); found {
					target := "/" + string(canonical) + strings.TrimPrefix(r.URL.Path, "/"+raw)
					if r.URL.RawQuery != "" {
						target += "?" + r.URL.RawQuery
					}
					http.Redirect(w, r, target, http.StatusMovedPermanently)
					return
				}
				notFound.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Language", string(l))
			if c, err := r.Cookie(LocaleCookie); err != nil || c.Value != string(l) {
				http.SetCookie(w, &http.Cookie{
					Name:     LocaleCookie,
					Value:    string(l),
					Path:     "/",
					MaxAge:   int(localeCookieMaxAge.Seconds()),
					SameSite: http.SameSiteLaxMode,
					HttpOnly: true,
				})
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithLocale(r.Context(), l)))
		})
	}
}

func canonicalLocale(raw string) (i18n.Locale, bool) {
	for _, l := range i18n.Locales() {
		if strings.EqualFold(raw, string(l)) {
			return l, true
		}
	}
	return "", false
}
