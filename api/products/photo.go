package products

import (
	"lager_server/handling"
	"lager_server/lib"
	"lager_server/structs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MonkyMars/gecho"
)

// PhotoNewProduct handles GET /products/new/photo?ean=
func (prm *ProductRoutesManager) PhotoNewProduct(w http.ResponseWriter, r *http.Request) {
	ean := lib.CleanDigits(strings.TrimSpace(r.URL.Query().Get("ean")))
	if ean == "" {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgPhotoMissingEAN), gecho.Send())
		return
	}

	rel, ok, err := prm.camera.CapturePhoto(r.Context(), "product_"+ean)
	if err != nil {
		prm.logger.Error("Photo capture failed", gecho.Field("error", err), gecho.Field("ean", ean))
	}
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage(handling.MsgPhotoFailed),
			gecho.WithData(structs.ProductForm{EAN: ean}),
			gecho.Send(),
		)
		return
	}

	seeOther(w, r, newProductPath(url.Values{"ean": {ean}, "img": {rel}}))
}

// PhotoProduct handles GET /products/{id}/photo and stores the new image path.
func (prm *ProductRoutesManager) PhotoProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := handling.ParseProductID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgInvalidProductID), gecho.Send())
		return
	}

	product, err := prm.productService.FindByID(ctx, id)
	if err != nil {
		handling.HandleDBError(err, map[string]any{"product_id": id}, prm.logger, w)
		return
	}

	basename := "product_id_" + strconv.FormatInt(id, 10)
	if product != nil {
		if ean := lib.CleanDigits(product.EAN); ean != "" {
			basename = "product_" + ean
		}
	}

	rel, ok, err := prm.camera.CapturePhoto(ctx, basename)
	if err != nil {
		prm.logger.Error("Photo capture failed", gecho.Field("error", err), gecho.Field("id", id))
	}
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage(handling.MsgPhotoFailed),
			gecho.WithData(map[string]any{"product_id": id}),
			gecho.Send(),
		)
		return
	}

	if err := prm.productService.UpdateImage(ctx, id, rel); err != nil {
		handling.HandleDBError(err, map[string]any{"product_id": id}, prm.logger, w)
		return
	}

	seeOther(w, r, detailPath(id))
}
