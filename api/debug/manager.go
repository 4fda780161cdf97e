package debug

import (
	"lager_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	enabled      bool
}

// NewDebugRoutesManager registers nothing unless enabled, which main sets
// outside production.
func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, enabled bool) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		enabled:      enabled,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	if !drm.enabled {
		return
	}
	r.Route("/debug", func(r chi.Router) {
		r.Post("/cache/clear", drm.ClearCache)
	})
}
