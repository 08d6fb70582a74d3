// Package middleware applies a floodgate limiter to inbound HTTP
// requests, translating admission results into status codes and the
// standard rate limit headers.
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/floodgate/core"
	"github.com/yourusername/floodgate/pkg/floodgate"
)

// KeyFunc extracts the user identifier from the request
type KeyFunc func(*http.Request) string

// OperationFunc maps a request to the operation being metered
type OperationFunc func(*http.Request) string

// RateLimiter wraps a Limiter as HTTP middleware
type RateLimiter struct {
	limiter   *floodgate.Limiter
	keyFunc   KeyFunc
	operation OperationFunc
}

// Config for creating the middleware
type Config struct {
	Limiter   *floodgate.Limiter // Required: the admission controller
	KeyFunc   KeyFunc            // Optional: custom user identification
	Operation OperationFunc      // Optional: custom operation mapping
}

// New creates rate limiting middleware around an existing limiter.
func New(config Config) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = DefaultKeyFunc
	}
	if config.Operation == nil {
		config.Operation = func(*http.Request) string { return floodgate.DefaultOperation }
	}
	return &RateLimiter{
		limiter:   config.Limiter,
		keyFunc:   config.KeyFunc,
		operation: config.Operation,
	}
}

// DefaultKeyFunc identifies the user by, in order: the X-User-ID
// header, a bearer token, the first X-Forwarded-For hop, the remote
// address.
func DefaultKeyFunc(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if token := strings.TrimSpace(auth[len("Bearer "):]); token != "" {
			return token
		}
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	ip := r.RemoteAddr
	// Strip the port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// OperationFromPath meters each URL path as its own operation, with the
// leading slash trimmed so "/buy" resolves the "buy" override.
func OperationFromPath(r *http.Request) string {
	op := strings.Trim(r.URL.Path, "/")
	if op == "" {
		return floodgate.DefaultOperation
	}
	return op
}

// Middleware wraps an http.Handler with admission control.
//
// Headers set on every response:
//   - X-RateLimit-Limit: effective limit for the checked operation
//   - X-RateLimit-Remaining: remaining quota
//
// On denial additionally:
//   - X-RateLimit-Reset: Unix timestamp when the denial lapses
//   - Retry-After: seconds to wait
//
// Throttles and cooldowns answer 429; bans answer 403 so clients can
// tell the two remediations apart.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := rl.keyFunc(r)
		info := rl.limiter.Check(userID, rl.operation(r))

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))

		if !info.Allowed {
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetAt.Unix()))
			w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
			w.Header().Set("Content-Type", "application/json")

			status := http.StatusTooManyRequests
			if info.Classification == core.ClassBanned {
				status = http.StatusForbidden
			}
			w.WriteHeader(status)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":          "rate_limit_exceeded",
				"classification": info.Classification,
				"message":        info.Message,
				"retry_after":    info.RetryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
