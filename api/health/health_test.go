package health

import (
	"encoding/json"
	"lager_server/services"
	"lager_server/structs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := gecho.NewDefaultLogger()
	cache := services.NewCacheService(logger, &structs.CacheConfig{})

	r := chi.NewRouter()
	NewHealthRoutesManager(services.NewHealthService(logger, nil, cache, true)).RegisterRoutes(r)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerHealth(t *testing.T) {
	rec := get(newTestRouter(t), "/health/server")
	require.Equal(t, http.StatusOK, rec.Code)

	var v any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	out, _ := json.Marshal(v)
	assert.Contains(t, string(out), `"camera_enabled":true`)
	assert.Contains(t, string(out), `"service_alive":true`)
}

func TestCacheHealthDisabled(t *testing.T) {
	rec := get(newTestRouter(t), "/health/cache")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled"`)
}

func TestMetricsEndpointRegistersOnce(t *testing.T) {
	// A second router must not panic on duplicate registration.
	newTestRouter(t)
	rec := get(newTestRouter(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
