// Package shared holds helpers used across the sales reporting packages.
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured logs
//	- fixture tables (clients, products, sales) built in memory
//	- fixture workbooks written with excelize for loader and service tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteWorkbook(t, t.TempDir(), testutil.SampleTables())
//	    ...
//	}
//
// Nothing here carries business logic.
package shared
