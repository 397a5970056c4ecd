package ratelimit

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware returns a per-IP throttle for a whole router. The login
// endpoint additionally consults its own, stricter limiter inside the
// auth service; this outer layer just keeps one source from flooding
// the auth surface as a whole.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if ip != "" && !limiter.Admit(ip) {
				slog.Warn("Rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests, please try again later","code":"RATE_LIMITED"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address from proxy headers, falling back
// to the connection's remote address.
func ClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "IP:port"; strip the port.
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
