package products

import (
	"lager_server/handling"
	"lager_server/lib"
	"lager_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// AddQuantity handles POST /products/{id}/qty/add. The stock may go negative.
func (prm *ProductRoutesManager) AddQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgInvalidProductID), gecho.Send())
		return
	}
	if err := lib.ParseRequestForm(r); err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	delta := handling.ParseDelta(r.Form, 0)
	if err := prm.productService.UpdateQuantityDelta(r.Context(), id, delta); err != nil {
		handling.HandleDBError(err, map[string]any{"product_id": id}, prm.logger, w)
		return
	}
	services.StockAdjustments.WithLabelValues("add").Inc()

	seeOther(w, r, detailPath(id))
}

// SetQuantity handles POST /products/{id}/qty/set
func (prm *ProductRoutesManager) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgInvalidProductID), gecho.Send())
		return
	}
	if err := lib.ParseRequestForm(r); err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	qty := handling.ParseAbsoluteQty(r.Form)
	if err := prm.productService.UpdateQuantityAbsolute(r.Context(), id, qty); err != nil {
		handling.HandleDBError(err, map[string]any{"product_id": id}, prm.logger, w)
		return
	}
	services.StockAdjustments.WithLabelValues("set").Inc()

	seeOther(w, r, detailPath(id))
}
