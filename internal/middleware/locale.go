package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey is the context key under which the resolved locale is stored.
var LocaleKey = localeContextKey{}

var supportedLocales = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Spanish,
})

var localeNames = []string{"en", "es"}

// spanishSpeaking lists countries where the app defaults to Spanish when the
// request carries no explicit locale signal.
var spanishSpeaking = map[string]struct{}{
	"AR": {}, "BO": {}, "CL": {}, "CO": {}, "CR": {}, "CU": {}, "DO": {},
	"EC": {}, "ES": {}, "GT": {}, "HN": {}, "MX": {}, "NI": {}, "PA": {},
	"PE": {}, "PY": {}, "SV": {}, "UY": {}, "VE": {},
}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Locale resolves the request locale with a fixed precedence: the X-Locale
// header, then Accept-Language, then the GeoIP country of the client address,
// then the configured default.
func Locale(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if locale, ok := matchLocale(r.Header.Get("X-Locale")); ok {
		return locale
	}
	if locale, ok := matchLocale(r.Header.Get("Accept-Language")); ok {
		return locale
	}
	if lookup != nil {
		if country, err := lookup(ClientIP(r)); err == nil {
			if _, ok := spanishSpeaking[strings.ToUpper(country)]; ok {
				return "es"
			}
			if country != "" {
				return "en"
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

// matchLocale maps an Accept-Language style value onto a supported locale.
func matchLocale(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := supportedLocales.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return localeNames[idx], true
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the locale resolved for the request, or "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
