package domain

// Product is a row of the Products sheet. Stock only changes by re-import.
type Product struct {
	ID    string `json:"id_product" validate:"required,product_id"`
	Name  string `json:"name_product"`
	Stock int64  `json:"stock" validate:"min=0"`
}
