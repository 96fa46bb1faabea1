package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fairdash/internal/core"
	"fairdash/internal/log"
	"fairdash/internal/middleware/ratelimit"
	"fairdash/internal/middleware/security"
	"fairdash/internal/middleware/trace"
	"fairdash/internal/services"
	"fairdash/internal/source"
	appweb "fairdash/web"
)

// Ticker runs one dashboard refresh.
type Ticker interface {
	Tick(ctx context.Context, theme core.Theme) services.Render
}

// Options configures the page chrome and request limits.
type Options struct {
	Addr               string
	FairName           string
	FairTitle          string
	LogoURL            string
	EventStart         time.Time
	EventEnd           time.Time
	DefaultTheme       core.Theme
	RefreshInterval    time.Duration
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard Ticker
	pinger    source.Pinger
	opts      Options
	logger    *log.Logger

	detector    *security.Detector
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	now          func() time.Time
	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates. pinger may be nil
// when the configured source has no connection to check.
func NewServer(opts Options, dashboard Ticker, pinger source.Pinger, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		dashboard: dashboard,
		pinger:    pinger,
		opts:      opts,
		logger:    httpLogger,
		detector:  security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		now:       time.Now,
		startedAt: time.Now(),
	}
	s.tracer = trace.NewMiddleware(httpLogger, s.detector.ExtractClientIP)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		httpLogger.Error("Failed parsing templates", log.FieldComponent, log.ComponentTemplate, log.FieldError, err)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		httpLogger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /ui/dashboard", limited(security.NoStore(http.HandlerFunc(s.handleDashboardPartial))))
	mux.Handle("GET /api/dashboard", limited(security.NoStore(http.HandlerFunc(s.handleDashboardJSON))))
	mux.Handle("GET /api/countdown", security.NoStore(http.HandlerFunc(s.handleCountdown)))
	mux.HandleFunc("POST /ui/theme", s.handleTheme)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(httpLogger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
