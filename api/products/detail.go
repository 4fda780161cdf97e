package products

import (
	"context"
	"lager_server/handling"
	"lager_server/structs"
	"lager_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ProductDetail handles GET /products/{id}
func (prm *ProductRoutesManager) ProductDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := handling.ParseProductID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgInvalidProductID), gecho.Send())
		return
	}

	product, err := prm.productService.FindByID(ctx, id)
	if err != nil {
		handling.HandleDBError(err, nil, prm.logger, w)
		return
	}
	if product == nil {
		gecho.NotFound(w, gecho.WithMessage(handling.MsgProductNotFound), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(prm.productPage(ctx, product)), gecho.Send())
}

// productPage attaches the public URLs of the barcode and photo, when present.
func (prm *ProductRoutesManager) productPage(ctx context.Context, product *tables.Product) *structs.ProductPage {
	page := &structs.ProductPage{Product: product}

	if rel, ok, err := prm.barcodeService.Lookup(ctx, product.EAN); err != nil {
		prm.logger.Warn("Barcode lookup failed", gecho.Field("error", err), gecho.Field("ean", product.EAN))
	} else if ok {
		page.BarcodeURL = prm.barcodeService.URL(rel)
	}

	if product.Image != nil && *product.Image != "" {
		page.ImageURL = prm.disk.URL(*product.Image)
	}
	return page
}
