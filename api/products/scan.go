package products

import (
	"context"
	"lager_server/handling"
	"lager_server/lib"
	"lager_server/services"
	"lager_server/structs"
	"net/http"
	"net/url"

	"github.com/MonkyMars/gecho"
)

// scan asks the camera for a code and reduces it to digits. ok is false when
// nothing was read.
func (prm *ProductRoutesManager) scan(ctx context.Context) (string, bool) {
	code, ok, err := prm.camera.ScanBarcode(ctx)
	if err != nil {
		prm.logger.Error("Camera scan failed", gecho.Field("error", err))
		services.ScansTotal.WithLabelValues("error").Inc()
		return "", false
	}
	if !ok {
		services.ScansTotal.WithLabelValues("none").Inc()
		return "", false
	}
	return lib.CleanDigits(code), true
}

// renderBarcode stores the artifact for clean, logging instead of failing.
func (prm *ProductRoutesManager) renderBarcode(ctx context.Context, clean string) {
	if _, _, err := prm.barcodeService.Resolve(ctx, clean); err != nil {
		prm.logger.Warn("Failed to render barcode", gecho.Field("error", err), gecho.Field("ean", clean))
	}
}

func newProductPath(values url.Values) string {
	return "/products/new?" + values.Encode()
}

// ScanNewProduct handles GET /products/new/scan
func (prm *ProductRoutesManager) ScanNewProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !prm.camera.Enabled() {
		seeOther(w, r, "/products")
		return
	}

	clean, ok := prm.scan(ctx)
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgNoBarcodeFound), gecho.Send())
		return
	}
	if !lib.IsRenderableEAN(clean) {
		services.ScansTotal.WithLabelValues("short").Inc()
		gecho.BadRequest(w,
			gecho.WithMessage(handling.MsgEANTooShort),
			gecho.WithData(structs.ProductForm{EAN: clean}),
			gecho.Send(),
		)
		return
	}
	services.ScansTotal.WithLabelValues("new").Inc()

	prm.renderBarcode(ctx, clean)
	seeOther(w, r, newProductPath(url.Values{"ean": {clean}}))
}

// ScanIncrement handles GET /products/scan-increment: a known EAN gets delta
// added to its stock, an unknown one is sent to the create form.
func (prm *ProductRoutesManager) ScanIncrement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !prm.camera.Enabled() {
		seeOther(w, r, "/products")
		return
	}

	delta := handling.ParseDelta(r.URL.Query(), 1)

	clean, ok := prm.scan(ctx)
	if !ok {
		seeOther(w, r, "/products")
		return
	}
	if !lib.IsRenderableEAN(clean) {
		services.ScansTotal.WithLabelValues("short").Inc()
		seeOther(w, r, "/products")
		return
	}

	prm.renderBarcode(ctx, clean)

	product, err := prm.productService.FindByEAN(ctx, clean)
	if err != nil {
		prm.logger.Error("Failed to look up scanned product", gecho.Field("error", err), gecho.Field("ean", clean))
		seeOther(w, r, "/products")
		return
	}
	if product == nil {
		services.ScansTotal.WithLabelValues("unknown").Inc()
		seeOther(w, r, newProductPath(url.Values{"ean": {clean}}))
		return
	}

	if err := prm.productService.UpdateQuantityDelta(ctx, product.ID, delta); err != nil {
		prm.logger.Error("Failed to adjust scanned product", gecho.Field("error", err), gecho.Field("id", product.ID))
		seeOther(w, r, "/products")
		return
	}
	services.ScansTotal.WithLabelValues("incremented").Inc()
	services.StockAdjustments.WithLabelValues("scan").Inc()

	prm.logger.Info("Stock adjusted from scan",
		gecho.Field("id", product.ID),
		gecho.Field("ean", clean),
		gecho.Field("delta", delta),
	)
	seeOther(w, r, detailPath(product.ID))
}
