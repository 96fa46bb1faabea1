package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter counts requests per client in fixed one-minute windows.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*window
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time

	requestsPerMinute int
	cleanupInterval   time.Duration
	rejected          int64
}

type window struct {
	start    time.Time
	requests int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig allows a browser tab plenty of headroom over the refresh interval
// while still capping scripted polling.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter and starts its cleanup goroutine.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	rl := &Limiter{
		clients:           make(map[string]*window),
		stopCleanup:       make(chan struct{}),
		now:               time.Now,
		requestsPerMinute: config.RequestsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow reports whether a request from clientIP fits in its current window.
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[clientIP]
	if !ok || now.Sub(w.start) >= time.Minute {
		rl.clients[clientIP] = &window{start: now, requests: 1}
		return true
	}

	if w.requests >= rl.requestsPerMinute {
		rl.rejected++
		return false
	}
	w.requests++
	return true
}

// retryAfter returns the seconds left in the client's window.
func (rl *Limiter) retryAfter(clientIP string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[clientIP]
	if !ok {
		return 0
	}
	left := time.Minute - rl.now().Sub(w.start)
	if left < time.Second {
		return 1
	}
	return int(left / time.Second)
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries drops clients whose window closed more than ten minutes ago.
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, w := range rl.clients {
		if w.start.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Metrics for monitoring rate limit behaviour
type Metrics struct {
	Rejected    int64 `json:"rejected"`
	ClientCount int64 `json:"client_count"`
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return Metrics{
		Rejected:    rl.rejected,
		ClientCount: int64(len(rl.clients)),
	}
}

// Middleware rejects over-limit clients with 429 and a Retry-After header.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractIP(r)

			if !rl.Allow(clientIP) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter(clientIP)))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
