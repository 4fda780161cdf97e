package products

import (
	"lager_server/handling"
	"lager_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// EditProductForm handles GET /products/{id}/edit
func (prm *ProductRoutesManager) EditProductForm(w http.ResponseWriter, r *http.Request) {
	prm.ProductDetail(w, r)
}

// UpdateProduct handles POST /products/{id}/edit. A submission without a tags
// field keeps the tags, a blank tags field clears them.
func (prm *ProductRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
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

	in, err := lib.ParseProductForm(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgEANAndNameNeeded), gecho.Send())
		return
	}
	if err := lib.ValidateStruct(in.Form); err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage(handling.MsgEANAndNameNeeded),
			gecho.WithData(in.Form),
			gecho.Send(),
		)
		return
	}

	tags := lib.NormalizeTags(in.RawTags)
	if err := prm.productService.UpdateFields(ctx, id, in.Form.EAN, in.Form.Name, in.Form.Description, tags); err != nil {
		handling.HandleDBError(err, in.Form, prm.logger, w)
		return
	}

	seeOther(w, r, detailPath(id))
}
