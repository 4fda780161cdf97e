package handling

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var ErrInvalidProductID = errors.New("invalid product id")

// ParseProductID reads the {id} route parameter.
func ParseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidProductID
	}
	return id, nil
}

// ParseDelta reads a stock delta. An absent field means 1, an unparsable one
// yields invalid.
func ParseDelta(values url.Values, invalid int64) int64 {
	if _, ok := values["delta"]; !ok {
		return 1
	}
	delta, err := parseInt(values.Get("delta"))
	if err != nil {
		return invalid
	}
	return delta
}

// ParseAbsoluteQty reads the qty field. Absent, unparsable and negative values
// all mean 0.
func ParseAbsoluteQty(values url.Values) int64 {
	qty, err := parseInt(values.Get("qty"))
	if err != nil || qty < 0 {
		return 0
	}
	return qty
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// SearchInput is the search form: an exact product id or comma separated tags.
type SearchInput struct {
	ProductID string
	Tags      string
}

func ParseSearchInput(values url.Values) SearchInput {
	return SearchInput{
		ProductID: strings.TrimSpace(values.Get("product_id")),
		Tags:      strings.TrimSpace(values.Get("tags")),
	}
}
