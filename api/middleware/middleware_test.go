package middleware

import (
	"lager_server/config"
	"lager_server/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()
	cfg := config.Load()
	logger := gecho.NewDefaultLogger()
	cfg.Cache.Enabled = false
	return NewMiddleware(cfg, logger, services.NewCacheService(logger, cfg.Cache))
}

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestCameraRateLimitWithoutCache(t *testing.T) {
	mw := newTestMiddleware(t)
	mw.cfg.RateLimit.Enabled = true
	mw.cfg.RateLimit.CameraLimit = 1

	h := mw.CameraRateLimit()(http.HandlerFunc(ok))
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/new/scan", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimitKeyUsesRoutePattern(t *testing.T) {
	mw := newTestMiddleware(t)

	var keys []string
	r := chi.NewRouter()
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keys = append(keys, mw.generateRateLimitKey(r))
			next.ServeHTTP(w, r)
		})
	}).Get("/products/{id:[0-9]+}/photo", ok)

	for _, target := range []string{"/products/3/photo", "/products/4/photo"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "10.0.0.7:51234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []string{
		"10.0.0.7:/products/{id:[0-9]+}/photo",
		"10.0.0.7:/products/{id:[0-9]+}/photo",
	}, keys)
}

func TestSecurityHeaders(t *testing.T) {
	mw := newTestMiddleware(t)
	rec := httptest.NewRecorder()
	mw.SecurityHeaders()(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRoutePatternUnmatched(t *testing.T) {
	assert.Equal(t, "unmatched", routePattern(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}
