package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// getClientIP extracts the client IP. chi's RealIP has already copied
// X-Forwarded-For or X-Real-IP into RemoteAddr when present.
func (mw *Middleware) getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// generateRateLimitKey groups requests by route pattern, so /products/3/photo
// and /products/4/photo share a bucket.
func (mw *Middleware) generateRateLimitKey(r *http.Request) string {
	endpoint := strings.TrimSuffix(r.URL.Path, "/")
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			endpoint = pattern
		}
	}
	return fmt.Sprintf("%s:%s", mw.getClientIP(r), endpoint)
}

// CameraRateLimit limits how often a client may start a camera operation.
// A cache outage lets the request through.
func (mw *Middleware) CameraRateLimit() func(http.Handler) http.Handler {
	limit := mw.cfg.RateLimit.CameraLimit
	window := mw.cfg.RateLimit.Window

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || !mw.cacheService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			key := mw.generateRateLimitKey(r)

			count, err := mw.cacheService.IncrementRateLimit(r.Context(), key, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("key", key),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Kameraet bruges for ofte. Prøv igen om lidt."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))
			next.ServeHTTP(w, r)
		})
	}
}
