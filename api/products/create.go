package products

import (
	"lager_server/handling"
	"lager_server/lib"
	"lager_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// NewProductForm handles GET /products/new, prefilled from ?ean=&img=
func (prm *ProductRoutesManager) NewProductForm(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gecho.Success(w,
		gecho.WithData(structs.ProductForm{
			EAN:   strings.TrimSpace(query.Get("ean")),
			Image: strings.TrimSpace(query.Get("img")),
		}),
		gecho.Send(),
	)
}

// CreateProduct handles POST /products/new. Saving an EAN that already exists
// updates that product instead.
func (prm *ProductRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
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

	var image *string
	if in.Form.Image != "" {
		image = &in.Form.Image
	}

	// Blank tags leave the stored tags alone on upsert.
	tags := lib.NormalizeTags(in.RawTags)
	if tags == nil {
		tags = []string{}
	}

	id, err := prm.productService.UpsertByEAN(r.Context(), in.Form.EAN, in.Form.Name, in.Form.Description, image, tags)
	if err != nil {
		handling.HandleDBError(err, in.Form, prm.logger, w)
		return
	}

	seeOther(w, r, detailPath(id))
}
