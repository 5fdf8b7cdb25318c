package api

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mastsam10/platform-sub000/internal/http/response"
	"github.com/Mastsam10/platform-sub000/internal/ratelimit"
)

// RateLimiter is the per-IP limiter guarding webhook and preview routes.
type RateLimiter = ratelimit.KeyedRateLimiter

// Rate limited route prefixes. Everything else is unlimited.
var limitedPrefixes = []string{
	"/api/v1/webhooks/",
	"/api/v1/chapters/preview",
}

// NewRateLimiter allows perInterval requests per interval for each client.
func NewRateLimiter(perInterval int, interval time.Duration, burst int) *RateLimiter {
	return ratelimit.New(float64(perInterval)/interval.Seconds(), burst)
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client
// IP runs out of tokens.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			ok, wait := limiter.Check(ip)
			if !ok {
				if wait > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				}
				logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "retry_after", wait)
				response.Error(w, http.StatusTooManyRequests, "too many requests, retry later", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitRoutes applies the rate limiter to webhook and preview routes only.
func (s *Server) limitRoutes(next http.Handler) http.Handler {
	limited := RateLimitMiddleware(s.rateLimiter, s.logger)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range limitedPrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				limited.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// First entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Strip the port.
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
