// Package services sequences the report jobs of a run.
//
// LoadStore validates and reads the source workbook into a Store.
// ReportService then runs, in fixed order:
//
//	1. income history          history_income_<date>   sheet "Incomes"
//	2. high value sales        best_sales_<date>       sheet "Best Sales"
//	3. sales by state          sales_by_state_<date>   sheet "Sales by State"
//
// and, when extras are enabled, the client ranking and the running low
// product listing. The first failing job aborts the run; files written by
// earlier jobs are left in place.
//
// Every job runs inside its own span and records row count and duration
// metrics through infrastructure.Telemetry.
package services
