package domain

import "time"

// Sale is a row of the Sales sheet. Sales are immutable facts; every report
// is an aggregation over them.
type Sale struct {
	ID        string    `json:"id_sale" validate:"required,sale_id"`
	ClientID  string    `json:"id_client" validate:"required"`
	ProductID string    `json:"id_product" validate:"required"`
	Date      time.Time `json:"sale_date" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"gt=0"`
	Cost      Money     `json:"cost" validate:"nonneg_money"`
}

// Tables groups the three source tables as loaded from the workbook.
type Tables struct {
	Clients  []Client  `json:"clients" validate:"dive"`
	Products []Product `json:"products" validate:"dive"`
	Sales    []Sale    `json:"sales" validate:"dive"`
}
