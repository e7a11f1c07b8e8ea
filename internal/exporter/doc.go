// Package exporter writes report tables to disk.
//
// A Table is a named sheet with a header row and typed cells. Two writers
// implement TableWriter:
//
// XLSXWriter: the default. Streams the table into a single-sheet workbook
// with excelize. Money cells become numbers, dates become date cells.
//
// CSVWriter: UTF-8 CSV with a BOM for Excel. Money cells keep their exact
// decimal text.
//
// Both overwrite an existing file and create the destination directory.
// A failure part way through is returned as is; nothing is retried.
//
// Example usage:
//
//	writer, err := exporter.NewTableWriter(domain.ReportFormatXLSX, paths, logger)
//	if err != nil {
//	    return err
//	}
//	table := exporter.LedgerTable(ledger)
//	err = writer.WriteTable(ctx, paths.GetReportPath("history_income_2025-03-01.xlsx"), table)
package exporter
