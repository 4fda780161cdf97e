package products

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Welcome handles GET /
func (prm *ProductRoutesManager) Welcome(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithMessage("Velkommen til lageret"),
		gecho.WithData(map[string]any{
			"camera_enabled": prm.camera.Enabled(),
		}),
		gecho.Send(),
	)
}
