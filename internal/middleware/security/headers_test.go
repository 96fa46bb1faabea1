package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name     string
		tls      bool
		wantHSTS bool
	}{
		{name: "plain http", tls: false, wantHSTS: false},
		{name: "https", tls: true, wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q", got)
			}
			if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://unpkg.com") {
				t.Errorf("CSP does not allow htmx origin: %q", csp)
			}
			if got := rec.Header().Get("Cross-Origin-Embedder-Policy"); got != "" {
				t.Errorf("Cross-Origin-Embedder-Policy = %q, want unset", got)
			}
			if hsts := rec.Header().Get("Strict-Transport-Security"); (hsts != "") != tt.wantHSTS {
				t.Errorf("Strict-Transport-Security = %q, wantHSTS %v", hsts, tt.wantHSTS)
			}
		})
	}
}

func TestNoStore(t *testing.T) {
	rec := httptest.NewRecorder()
	NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}
