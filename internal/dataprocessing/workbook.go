package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "salesetl/internal/errors"
	"salesetl/internal/validation"
	"salesetl/pkg/contracts/domain"
)

// Column headers of the source workbook, matched case-insensitively.
const (
	colClientID    = "id_client"
	colName        = "name"
	colSurname     = "surname"
	colState       = "state"
	colProductID   = "id_product"
	colProductName = "name_product"
	colStock       = "stock"
	colSaleID      = "id_sale"
	colSaleDate    = "sale_date"
	colQuantity    = "quantity"
	colCost        = "cost"
)

// LoadOptions names the sheets to read and controls row validation.
type LoadOptions struct {
	ClientsSheet  string
	ProductsSheet string
	SalesSheet    string
	// Strict makes any malformed row a fatal error. Otherwise the row is
	// logged and skipped.
	Strict bool
}

// DefaultLoadOptions returns the sheet names used by the sales relatory.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		ClientsSheet:  "Clients",
		ProductsSheet: "Products",
		SalesSheet:    "Sales",
		Strict:        true,
	}
}

// WorkbookLoader reads the three source tables from an Excel workbook.
type WorkbookLoader struct {
	opts      LoadOptions
	validator *validation.RecordValidator
	logger    *slog.Logger
}

// NewWorkbookLoader creates a loader. Empty sheet names fall back to the
// defaults.
func NewWorkbookLoader(logger *slog.Logger, opts LoadOptions) *WorkbookLoader {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultLoadOptions()
	if opts.ClientsSheet == "" {
		opts.ClientsSheet = defaults.ClientsSheet
	}
	if opts.ProductsSheet == "" {
		opts.ProductsSheet = defaults.ProductsSheet
	}
	if opts.SalesSheet == "" {
		opts.SalesSheet = defaults.SalesSheet
	}

	return &WorkbookLoader{
		opts:      opts,
		validator: validation.NewRecordValidator(logger),
		logger:    logger.With(slog.String("component", "workbook_loader")),
	}
}

// LoadWorkbook is a convenience wrapper around NewWorkbookLoader(nil, opts).Load.
func LoadWorkbook(ctx context.Context, path string, opts LoadOptions) (*domain.Tables, error) {
	return NewWorkbookLoader(nil, opts).Load(ctx, path)
}

// Load opens the workbook once and reads clients, products and sales.
func (l *WorkbookLoader) Load(ctx context.Context, path string) (*domain.Tables, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	tables := &domain.Tables{}

	clientRows, err := l.sheet(f, l.opts.ClientsSheet, colClientID, colName, colSurname, colState)
	if err != nil {
		return nil, err
	}
	for _, row := range clientRows {
		client := domain.Client{
			ID:      row.get(colClientID),
			Name:    row.get(colName),
			Surname: row.get(colSurname),
			State:   row.get(colState),
		}
		if err := l.accept(ctx, row, client, nil); err != nil {
			return nil, err
		} else if row.skipped {
			continue
		}
		tables.Clients = append(tables.Clients, client)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	productRows, err := l.sheet(f, l.opts.ProductsSheet, colProductID, colProductName, colStock)
	if err != nil {
		return nil, err
	}
	for _, row := range productRows {
		stock, parseErr := parseWholeNumber(row.get(colStock))
		product := domain.Product{
			ID:    row.get(colProductID),
			Name:  row.get(colProductName),
			Stock: stock,
		}
		if err := l.accept(ctx, row, product, wrapColumn(colStock, parseErr)); err != nil {
			return nil, err
		} else if row.skipped {
			continue
		}
		tables.Products = append(tables.Products, product)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saleRows, err := l.sheet(f, l.opts.SalesSheet, colSaleID, colClientID, colProductID, colSaleDate, colQuantity, colCost)
	if err != nil {
		return nil, err
	}
	for _, row := range saleRows {
		sale, parseErr := parseSale(row)
		if err := l.accept(ctx, row, sale, parseErr); err != nil {
			return nil, err
		} else if row.skipped {
			continue
		}
		tables.Sales = append(tables.Sales, sale)
	}

	l.logger.InfoContext(ctx, "Workbook loaded",
		slog.String("path", path),
		slog.Int("clients", len(tables.Clients)),
		slog.Int("products", len(tables.Products)),
		slog.Int("sales", len(tables.Sales)))

	return tables, nil
}

// sheetRow is one data row with its header mapping.
type sheetRow struct {
	file    *excelize.File
	sheet   string
	actual  string // sheet name as stored in the workbook
	number  int    // 1-based row number as shown by Excel
	cells   []string
	columns map[string]int
	skipped bool
}

// numeric reports whether the cell under column is stored as a number
// rather than text. Cells without a type attribute are numbers.
func (r *sheetRow) numeric(column string) bool {
	idx, ok := r.columns[column]
	if !ok || r.file == nil {
		return false
	}
	cell, err := excelize.CoordinatesToCellName(idx+1, r.number)
	if err != nil {
		return false
	}
	cellType, err := r.file.GetCellType(r.actual, cell)
	if err != nil {
		return false
	}
	return cellType == excelize.CellTypeNumber || cellType == excelize.CellTypeUnset
}

func (r *sheetRow) get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// sheet reads a sheet and maps the header row. Rows whose cells are all
// blank are dropped.
func (l *WorkbookLoader) sheet(f *excelize.File, name string, required ...string) ([]*sheetRow, error) {
	actual, ok := findSheet(f, name)
	if !ok {
		return nil, apperrors.NewParsingError("failed to read workbook",
			fmt.Errorf("%s: %w", name, apperrors.ErrSheetNotFound)).WithContext("sheet", name)
	}

	rows, err := f.GetRows(actual, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet "+name, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("sheet has no header row",
			fmt.Errorf("%s: %w", name, apperrors.ErrColumnNotFound)).WithContext("sheet", name)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if _, dup := columns[key]; !dup && key != "" {
			columns[key] = i
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, apperrors.NewParsingError("sheet is missing a required column",
				fmt.Errorf("%s.%s: %w", name, col, apperrors.ErrColumnNotFound)).
				WithContext("sheet", name).
				WithContext("column", col)
		}
	}

	out := make([]*sheetRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		out = append(out, &sheetRow{file: f, sheet: name, actual: actual, number: i + 2, cells: cells, columns: columns})
	}

	l.logger.Debug("Sheet read", slog.String("sheet", actual), slog.Int("rows", len(out)))
	return out, nil
}

// accept validates a parsed record. In strict mode any problem is returned as
// a parsing error; otherwise the row is marked skipped.
func (l *WorkbookLoader) accept(ctx context.Context, row *sheetRow, record interface{}, parseErr error) error {
	problem := parseErr
	if problem == nil {
		problem = l.validator.Validate(record)
	}
	if problem == nil {
		return nil
	}

	if l.opts.Strict {
		return apperrors.NewParsingError("malformed row", problem).
			WithContext("sheet", row.sheet).
			WithContext("row", row.number)
	}

	l.logger.WarnContext(ctx, "Skipping malformed row",
		slog.String("sheet", row.sheet),
		slog.Int("row", row.number),
		slog.String("error", problem.Error()))
	row.skipped = true
	return nil
}

func parseSale(row *sheetRow) (domain.Sale, error) {
	sale := domain.Sale{
		ID:        row.get(colSaleID),
		ClientID:  row.get(colClientID),
		ProductID: row.get(colProductID),
	}

	date, err := parseDateCell(row.get(colSaleDate))
	if err != nil {
		return sale, wrapColumn(colSaleDate, err)
	}
	sale.Date = date

	quantity, err := parseWholeNumber(row.get(colQuantity))
	if err != nil {
		return sale, wrapColumn(colQuantity, err)
	}
	sale.Quantity = quantity

	cost, err := domain.ParseMoneyCell(row.get(colCost), row.numeric(colCost))
	if err != nil {
		return sale, wrapColumn(colCost, err)
	}
	sale.Cost = cost

	return sale, nil
}

// parseDateCell accepts dd/mm/yyyy text and Excel date serials.
func parseDateCell(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return domain.Day(t), nil
	}
	return domain.ParseDay(raw)
}

// parseWholeNumber parses an integer cell. Numeric cells may come back as
// "12" or "12.0"; fractional values are rejected.
func parseWholeNumber(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, fmt.Errorf("empty number")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parse %q: not a whole number", raw)
	}
	return int64(f), nil
}

func wrapColumn(column string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("column %s: %w", column, err)
}

func findSheet(f *excelize.File, name string) (string, bool) {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s, true
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return "", false
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
