package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fairdash/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports whether templates parsed and the source answers.
// A failing source does not make the page unusable, it only shows zeros,
// so it is reported as degraded rather than not ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.pinger == nil:
		checks["source"] = "not_checked"
	default:
		if err := s.pinger.Ping(ctx); err != nil {
			checks["source"] = fmt.Sprintf("degraded: %v", err)
			if status == "ready" {
				status = "degraded"
			}
		} else {
			checks["source"] = "ok"
		}
	}

	_ = writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP dashboard_ticks_total Total dashboard refreshes served\n")
	fmt.Fprintf(w, "# TYPE dashboard_ticks_total counter\n")
	fmt.Fprintf(w, "dashboard_ticks_total %d\n\n", traceMetrics.Ticks)

	fmt.Fprintf(w, "# HELP rate_limit_rejected_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_rejected_total counter\n")
	fmt.Fprintf(w, "rate_limit_rejected_total %d\n\n", rateLimitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.startedAt).Seconds())
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many refreshes. Please wait a moment.").Write(w)
}
