package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salesetl/internal/config"
	"salesetl/pkg/contracts/domain"
)

// Table is one report sheet. Cells hold string, int64, domain.Money or
// time.Time values.
type Table struct {
	Name      string
	SheetName string
	Headers   []string
	Rows      [][]any
}

// TableWriter serializes a Table to a file.
type TableWriter interface {
	WriteTable(ctx context.Context, path string, table Table) error
	Format() domain.ReportFormat
}

// NewTableWriter returns the writer for format.
func NewTableWriter(format domain.ReportFormat, paths *config.Paths, logger *slog.Logger) (TableWriter, error) {
	switch format {
	case domain.ReportFormatXLSX, "":
		return NewXLSXWriter(logger), nil
	case domain.ReportFormatCSV:
		return NewCSVWriter(paths, logger), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Report sheet names.
const (
	SheetIncomes      = "Incomes"
	SheetBestSales    = "Best Sales"
	SheetSalesByState = "Sales by State"
	SheetRanking      = "Clients Ranking"
	SheetRunningLow   = "Running Low"
)

// LedgerTable lays out the income history.
func LedgerTable(entries []domain.LedgerEntry) Table {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.ClientID, e.FullName, e.Date, e.DailyIncome, e.AccumulatedIncome}
	}
	return Table{
		Name:      "history_income",
		SheetName: SheetIncomes,
		Headers:   []string{"id_client", "full_name", "date", "daily_income", "accumulated_income"},
		Rows:      rows,
	}
}

// HighValueSalesTable lays out the high value sales of a period.
func HighValueSalesTable(sales []domain.NamedSale) Table {
	rows := make([][]any, len(sales))
	for i, s := range sales {
		rows[i] = []any{s.SaleID, s.Date, s.ProductID, s.Cost, s.ProductName}
	}
	return Table{
		Name:      "best_sales",
		SheetName: SheetBestSales,
		Headers:   []string{"id_sale", "sale_date", "id_product", "cost", "name_product"},
		Rows:      rows,
	}
}

// StateSalesTable lays out the per-state rollup.
func StateSalesTable(states []domain.StateSales) Table {
	rows := make([][]any, len(states))
	for i, s := range states {
		rows[i] = []any{s.State, s.Quantity, s.Cost}
	}
	return Table{
		Name:      "sales_by_state",
		SheetName: SheetSalesByState,
		Headers:   []string{"state", "quantity", "cost"},
		Rows:      rows,
	}
}

// ClientRankingTable lists the top clients followed by the bottom clients.
func ClientRankingTable(top, bottom []domain.ClientIncome) Table {
	rows := make([][]any, 0, len(top)+len(bottom))
	for i, c := range top {
		rows = append(rows, []any{"top", int64(i + 1), c.ClientID, c.Income})
	}
	for i, c := range bottom {
		rows = append(rows, []any{"bottom", int64(i + 1), c.ClientID, c.Income})
	}
	return Table{
		Name:      "clients_ranking",
		SheetName: SheetRanking,
		Headers:   []string{"ranking", "position", "id_client", "income"},
		Rows:      rows,
	}
}

// LowStockTable lists products running low.
func LowStockTable(products []domain.ProductStock) Table {
	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{p.ProductID, p.Stock}
	}
	return Table{
		Name:      "products_running_low",
		SheetName: SheetRunningLow,
		Headers:   []string{"id_product", "stock"},
		Rows:      rows,
	}
}

// FileName returns the report file name for a run date, e.g.
// history_income_2025-03-01.xlsx.
func FileName(table Table, runDate time.Time, format domain.ReportFormat) string {
	return fmt.Sprintf("%s_%s%s", table.Name, runDate.Format(domain.ISODateLayout), format.Extension())
}
