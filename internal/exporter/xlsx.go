package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "salesetl/internal/errors"
	"salesetl/pkg/contracts/domain"
)

// dateNumFmt is the display format of date cells.
const dateNumFmt = "yyyy-mm-dd"

// XLSXWriter writes each table as a single-sheet workbook.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates an xlsx writer.
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// Format implements TableWriter.
func (w *XLSXWriter) Format() domain.ReportFormat {
	return domain.ReportFormatXLSX
}

// WriteTable writes table to path, replacing any existing file.
func (w *XLSXWriter) WriteTable(ctx context.Context, path string, table Table) error {
	if table.SheetName == "" {
		return apperrors.NewValidationError("table has no sheet name", nil).WithContext("report", table.Name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err).WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), table.SheetName)

	numFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return apperrors.NewStorageError("failed to create date style", err)
	}

	sw, err := f.NewStreamWriter(table.SheetName)
	if err != nil {
		return apperrors.NewStorageError("failed to open sheet stream", err).WithContext("sheet", table.SheetName)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return apperrors.NewStorageError("failed to write header", err).WithContext("path", path)
	}

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = xlsxCell(v, dateStyle)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err)
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", i+2), err).WithContext("path", path)
		}
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush sheet", err).WithContext("path", path)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save report", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "XLSX report written",
		slog.String("report", table.Name),
		slog.String("sheet", table.SheetName),
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))
	return nil
}

// xlsxCell converts a table value to what the stream writer expects. Money
// becomes a float here and nowhere else.
func xlsxCell(v any, dateStyle int) interface{} {
	switch val := v.(type) {
	case domain.Money:
		return val.Float64()
	case time.Time:
		return excelize.Cell{StyleID: dateStyle, Value: val}
	default:
		return val
	}
}
