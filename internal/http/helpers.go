package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"fairdash/internal/core"
)

const (
	themeParam      = "theme"
	themeCookieName = "fairdash_theme"
	themeCookieAge  = 365 * 24 * 60 * 60
)

var templateFuncs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.0f", f) },
	"two": func(n int64) string { return fmt.Sprintf("%02d", n) },
}

// resolveTheme picks the theme from the query, then the cookie, then the default.
func (s *Server) resolveTheme(r *http.Request) core.Theme {
	if t, ok := core.ParseTheme(r.URL.Query().Get(themeParam)); ok {
		return t
	}
	if c, err := r.Cookie(themeCookieName); err == nil {
		if t, ok := core.ParseTheme(c.Value); ok {
			return t
		}
	}
	return s.opts.DefaultTheme
}

func themeCookie(t core.Theme, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     themeCookieName,
		Value:    t.String(),
		Path:     "/",
		MaxAge:   themeCookieAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// refreshSeconds is the htmx polling period, never below one second.
func refreshSeconds(d time.Duration) int {
	return max(int(d/time.Second), 1)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
