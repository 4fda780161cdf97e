package products

import (
	"lager_server/handling"
	"lager_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListProducts handles GET /products
func (prm *ProductRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := prm.productService.ListAll(r.Context())
	if err != nil {
		handling.HandleDBError(err, nil, prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(structs.ProductList{Products: products, Count: len(products)}),
		gecho.Send(),
	)
}
