package products

import (
	"lager_server/camera"
	"lager_server/services"
	"lager_server/storage"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService services.ProductRepository
	barcodeService *services.BarcodeService
	disk           storage.Disk
	camera         camera.Camera
	cameraLimit    func(http.Handler) http.Handler
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService services.ProductRepository,
	barcodeService *services.BarcodeService,
	disk storage.Disk,
	cam camera.Camera,
	cameraLimit func(http.Handler) http.Handler,
) *ProductRoutesManager {
	if cameraLimit == nil {
		cameraLimit = func(next http.Handler) http.Handler { return next }
	}
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
		barcodeService: barcodeService,
		disk:           disk,
		camera:         cam,
		cameraLimit:    cameraLimit,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/search", prm.SearchForm)
	r.Post("/search", prm.Search)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", prm.ListProducts)
		r.Get("/new", prm.NewProductForm)
		r.Post("/new", prm.CreateProduct)

		r.Get("/{id:[0-9]+}", prm.ProductDetail)
		r.Get("/{id:[0-9]+}/edit", prm.EditProductForm)
		r.Post("/{id:[0-9]+}/edit", prm.UpdateProduct)
		r.Post("/{id:[0-9]+}/delete", prm.DeleteProduct)
		r.Post("/{id:[0-9]+}/qty/add", prm.AddQuantity)
		r.Post("/{id:[0-9]+}/qty/set", prm.SetQuantity)

		// Camera routes hold the device for as long as a scan runs.
		r.Group(func(r chi.Router) {
			r.Use(prm.cameraLimit)
			r.Get("/new/scan", prm.ScanNewProduct)
			r.Get("/new/photo", prm.PhotoNewProduct)
			r.Get("/scan-increment", prm.ScanIncrement)
			r.Get("/{id:[0-9]+}/photo", prm.PhotoProduct)
		})
	})
}

func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func detailPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
