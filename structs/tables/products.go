package tables

import "github.com/uptrace/bun"

// Product is a row in produkter. EAN is the natural key used for upserts and scans.
type Product struct {
	bun.BaseModel `bun:"table:produkter,alias:p"`

	ID          int64    `bun:"product_id,pk,autoincrement" json:"product_id"`
	EAN         string   `bun:"product_ean,notnull,unique" json:"product_ean"`
	Name        string   `bun:"product_name,notnull" json:"product_name"`
	Description string   `bun:"product_desc" json:"product_desc"`
	Image       *string  `bun:"product_image" json:"product_image,omitempty"` // relative to the storage root
	StockQty    int64    `bun:"stock_qty,notnull,default:0" json:"stock_qty"`
	Tags        []string `bun:"tags,array,default:'{}'" json:"tags"`
}
