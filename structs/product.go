package structs

import "lager_server/structs/tables"

// ProductForm is the create/edit form as submitted, echoed back on validation errors.
type ProductForm struct {
	EAN         string `json:"product_ean" validate:"required,numeric"`
	Name        string `json:"product_name" validate:"required"`
	Description string `json:"product_desc"`
	Image       string `json:"product_image"`
	Tags        string `json:"tags"`
}

// ProductPage is the detail view of a product with resolved media URLs.
type ProductPage struct {
	Product    *tables.Product `json:"product"`
	BarcodeURL string          `json:"barcode_url,omitempty"`
	ImageURL   string          `json:"image_url,omitempty"`
}

// ProductList is the list view, also used for tag search results.
type ProductList struct {
	Products []tables.Product `json:"products"`
	Count    int              `json:"count"`
	Tags     []string         `json:"tags,omitempty"`
}
