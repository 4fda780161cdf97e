package api

import (
	"lager_server/api/debug"
	"lager_server/api/health"
	"lager_server/api/middleware"
	"lager_server/api/products"
	"lager_server/camera"
	"lager_server/config"
	"lager_server/services"
	"lager_server/storage"
	"lager_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App wires the routes onto the already connected services.
func App(
	cfg *structs.Config,
	logger *gecho.Logger,
	mwLogger *gecho.Logger,
	sm *services.ServiceManager,
	disk storage.Disk,
	cam camera.Camera,
) chi.Router {
	r := chi.NewRouter()

	mw := middleware.NewMiddleware(cfg, mwLogger, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	r.Use(mw.SetupCORS().Handler)

	productRoutes := products.NewProductRoutesManager(
		logger,
		sm.ProductService,
		sm.BarcodeService,
		disk,
		cam,
		mw.CameraRateLimit(),
	)

	NewRouterManager(
		productRoutes,
		health.NewHealthRoutesManager(sm.HealthService),
		debug.NewDebugRoutesManager(logger, sm.CacheService, !config.IsProduction(cfg)),
	).RegisterRoutes(r)

	r.Get("/", productRoutes.Welcome)

	// Generated barcodes and photos are served from the local disk; S3 files
	// are linked directly.
	if local, ok := disk.(*storage.LocalDisk); ok && strings.HasPrefix(cfg.Storage.URL, "/") {
		prefix := strings.TrimSuffix(cfg.Storage.URL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
