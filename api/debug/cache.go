package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ClearCache drops every cached product and EAN mapping.
func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	removed, err := drm.cacheService.InvalidateAllProducts(r.Context())
	if err != nil {
		drm.logger.Error("Failed to clear product cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Kunne ikke tømme cachen."),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cachen er tømt."),
		gecho.WithData(map[string]int{"removed": removed}),
		gecho.Send(),
	)
}
