package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	"fairdash/internal/log"
)

// DetectionMetrics tracks probe detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector resolves client addresses behind trusted proxies and flags
// requests that look like scanner probes. A public dashboard attracts those
// constantly, so they are logged and counted, never blocked.
type Detector struct {
	suspicious     atomic.Int64
	trustedProxies []*net.IPNet
}

var probePatterns = []string{
	"../", "..\\", ".env", ".git", "wp-admin", "wp-login", "phpmyadmin",
	".php", "etc/passwd", "cmd.exe", "<script", "union select",
}

// NewDetector trusts loopback and private networks to set forwarding headers.
func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),
			parseCIDR("10.0.0.0/8"),
			parseCIDR("172.16.0.0/12"),
			parseCIDR("192.168.0.0/16"),
			parseCIDR("::1/128"),
		},
	}
}

// parseCIDR is a helper to parse CIDR during initialization
func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// IsSuspicious reports whether the request path or query matches a known probe pattern.
func (d *Detector) IsSuspicious(r *http.Request) bool {
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, p := range probePatterns {
		if strings.Contains(target, p) {
			d.suspicious.Add(1)
			return true
		}
	}
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", http.MethodConnect:
		d.suspicious.Add(1)
		return true
	}
	return false
}

// Middleware logs probe requests at warn level and passes every request on.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.IsSuspicious(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, d.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// ExtractClientIP returns the first forwarded address when the direct peer
// is a trusted proxy, otherwise the peer address itself.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil || !d.isTrustedProxy(parsedDirectIP) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); net.ParseIP(clientIP) != nil {
			return clientIP
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns current detection metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{SuspiciousRequests: d.suspicious.Load()}
}

// AddTrustedProxy adds a trusted proxy network. It must be called before serving.
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}
