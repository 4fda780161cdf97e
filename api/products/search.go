package products

import (
	"lager_server/handling"
	"lager_server/lib"
	"lager_server/structs"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
)

// SearchForm handles GET /search
func (prm *ProductRoutesManager) SearchForm(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]any{"product": nil}),
		gecho.Send(),
	)
}

// Search handles POST /search: an all-digit product_id is looked up exactly,
// otherwise the tags are matched against any product tag.
func (prm *ProductRoutesManager) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := lib.ParseRequestForm(r); err != nil {
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgNoSearchInput), gecho.Send())
		return
	}
	in := handling.ParseSearchInput(r.Form)

	switch {
	case lib.IsDigits(in.ProductID):
		id, err := strconv.ParseInt(in.ProductID, 10, 64)
		if err != nil {
			gecho.NotFound(w, gecho.WithMessage(handling.MsgProductNotFound), gecho.Send())
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

	case in.Tags != "":
		terms := lib.NormalizeTags(&in.Tags)
		if len(terms) == 0 {
			gecho.BadRequest(w, gecho.WithMessage(handling.MsgNoTagTerms), gecho.Send())
			return
		}

		products, err := prm.productService.FindByTagsAny(ctx, terms)
		if err != nil {
			handling.HandleDBError(err, nil, prm.logger, w)
			return
		}

		gecho.Success(w,
			gecho.WithData(structs.ProductList{Products: products, Count: len(products), Tags: terms}),
			gecho.Send(),
		)

	default:
		gecho.BadRequest(w, gecho.WithMessage(handling.MsgNoSearchInput), gecho.Send())
	}
}
