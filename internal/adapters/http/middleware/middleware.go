package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter provides a per-IP token bucket rate limiter.
type RateLimiter struct {
	mu       sync.Mutex
	visitors *gocache.Cache // ip -> *visitor, evicted after 5 idle minutes
	rate     int            // tokens per interval
	interval time.Duration  // refill interval
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing `rate` requests per `interval`.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	if rate <= 0 {
		rate = 10
	}
	return &RateLimiter{
		visitors: gocache.New(5*time.Minute, time.Minute),
		rate:     rate,
		interval: interval,
	}
}

// Allow checks if a request from the given IP is allowed.
// PRE: ip is non-empty
// POST: Returns true if within rate limit, false if exceeded
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cached, exists := rl.visitors.Get(ip)
	if !exists {
		rl.visitors.SetDefault(ip, &visitor{tokens: rl.rate - 1, lastSeen: now})
		return true
	}
	v := cached.(*visitor)

	// Refill tokens based on elapsed time
	elapsed := now.Sub(v.lastSeen)
	refill := int(elapsed/rl.interval) * rl.rate
	v.tokens += refill
	if v.tokens > rl.rate {
		v.tokens = rl.rate
	}
	v.lastSeen = now
	rl.visitors.SetDefault(ip, v)

	if v.tokens <= 0 {
		slog.Warn("rate_limit_exceeded", "ip", ip)
		return false
	}
	v.tokens--
	return true
}

// RateLimit returns middleware that limits requests per IP.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientIP(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the remote host without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders adds OWASP recommended headers.
// Map links open on external hosts, so no frame or image allowances are needed.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self' data:; connect-src 'self'; form-action 'self'; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CSRFOptions configures CSRF protection.
type CSRFOptions struct {
	Secure         bool
	TrustedOrigins []string
}

// CSRF returns a handler that protects form posts against CSRF attacks.
// PRE: authKey is 32 bytes
// JSON API requests (Content-Type: application/json) are exempted; browsers cannot
// send that content type cross-origin without a preflight.
func CSRF(authKey []byte, opts CSRFOptions) func(http.Handler) http.Handler {
	origins := opts.TrustedOrigins
	if len(origins) == 0 {
		origins = []string{"localhost:8080", "127.0.0.1:8080"}
	}
	csrfProtect := csrf.Protect(
		authKey,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(origins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if !opts.Secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("csrf_rejected", "method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid or missing form token. Reload the page and try again.", http.StatusForbidden)
}

// Chain applies middlewares in order (outer to inner).
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
