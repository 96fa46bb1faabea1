package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"fairdash/internal/log"
)

// ContextKey type for context keys
type ContextKey string

// RequestIDKey is the context key for request ID
const RequestIDKey ContextKey = "request_id"

// RequestIDHeader is echoed on every response so operators can match a tick to its log lines.
const RequestIDHeader = "X-Request-ID"

// Middleware assigns request ids, enriches the context logger and logs request completion.
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *log.StructuredLogger
	total     atomic.Int64
	ticks     atomic.Int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string) *Middleware {
	return &Middleware{
		extractIP: extractIP,
		logger:    log.NewStructuredLogger(logger),
	}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = context.WithValue(ctx, log.LoggerContextKey, log.FromContext(ctx).With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		m.total.Add(1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// CountTick records one dashboard refresh. Handlers call it after a tick completes.
func (m *Middleware) CountTick() {
	m.ticks.Add(1)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Metrics is a snapshot of request counters.
type Metrics struct {
	TotalRequests int64 `json:"total_requests"`
	Ticks         int64 `json:"ticks"`
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: m.total.Load(),
		Ticks:         m.ticks.Load(),
	}
}
