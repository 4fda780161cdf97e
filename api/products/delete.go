package products

import (
	"lager_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// DeleteProduct handles POST /products/{id}/delete
func (prm *ProductRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgInvalidProductID), gecho.Send())
		return
	}

	if err := prm.productService.Delete(r.Context(), id); err != nil {
		handling.HandleDBError(err, map[string]any{"product_id": id}, prm.logger, w)
		return
	}

	seeOther(w, r, "/products")
}
