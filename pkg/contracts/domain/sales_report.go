package domain

import "time"

// LedgerEntry is one (client, day) row of the income history. Every client
// gets a row for every day in the requested range, zero days included.
type LedgerEntry struct {
	ClientID          string    `json:"id_client"`
	FullName          string    `json:"full_name"`
	Date              time.Time `json:"date"`
	DailyIncome       Money     `json:"daily_income"`
	AccumulatedIncome Money     `json:"accumulated_income"`
}

// ClientIncome is a ranking row: a client's summed sale cost for a period.
type ClientIncome struct {
	ClientID string `json:"id_client"`
	Income   Money  `json:"income"`
}

// ProductQuantity is a product's summed sold quantity.
type ProductQuantity struct {
	ProductID string `json:"id_product"`
	Quantity  int64  `json:"quantity"`
}

// ProductStock is a low-stock listing row.
type ProductStock struct {
	ProductID string `json:"id_product"`
	Stock     int64  `json:"stock"`
}

// NamedSale is a sale enriched with its product's display name.
type NamedSale struct {
	SaleID      string    `json:"id_sale"`
	ClientID    string    `json:"id_client"`
	ProductID   string    `json:"id_product"`
	Date        time.Time `json:"sale_date"`
	Quantity    int64     `json:"quantity"`
	Cost        Money     `json:"cost"`
	ProductName string    `json:"name_product"`
}

// StateSales is the per-region rollup of quantity and cost.
type StateSales struct {
	State    string `json:"state"`
	Quantity int64  `json:"quantity"`
	Cost     Money  `json:"cost"`
}

// ReportFormat is the file format of an exported report.
type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatCSV  ReportFormat = "csv"
)

// Extension returns the file extension including the leading dot.
func (f ReportFormat) Extension() string {
	return "." + string(f)
}

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatXLSX || f == ReportFormatCSV
}

// ReportFile describes one artifact written by a run.
type ReportFile struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	SheetName string       `json:"sheet_name"`
	Format    ReportFormat `json:"format"`
	Rows      int          `json:"rows"`
}
