// Package dataprocessing loads the sales relatory workbook and answers the
// reporting queries over it.
//
// # Components
//
//  1. WorkbookLoader: reads the Clients, Products and Sales sheets with
//     excelize, maps columns by header and validates every row
//  2. Store: the three tables, indexed once and read-only afterwards
//  3. Queries: methods on *Store (income per day, client rankings, best
//     sellers, low stock, high value sales, state rollup)
//  4. HistoryBuilder: the per-client, per-day accumulated income ledger
//
// # Usage
//
//	tables, err := dataprocessing.LoadWorkbook(ctx, path, dataprocessing.DefaultLoadOptions())
//	if err != nil {
//	    return err
//	}
//	store := dataprocessing.NewStore(*tables, logger)
//	ledger, err := dataprocessing.NewHistoryBuilder(store, logger).Build(ctx, begin, end)
//
// # Money and dates
//
// Every amount is a domain.Money and every date a domain.Day. Sums, rankings
// and threshold checks never touch float64.
//
// # Joins
//
// Joins against the product and client tables are inner joins. Sales that
// reference an unknown product or client are dropped from the joined result
// and the number dropped is logged at warn level.
package dataprocessing
