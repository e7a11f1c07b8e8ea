// Package config provides configuration loading and path resolution for the
// sales reporting tools.
//
// # Configuration Sources
//
// Configuration is resolved in order of increasing precedence:
//
//	1. Default values (struct tags)
//	2. A YAML file named by SALESETL_CONFIG, or ./salesetl.yaml if present
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SALESETL_<SECTION>_<FIELD>:
//
//	SALESETL_LOGGING_LEVEL=debug
//	SALESETL_PATHS_BASE_DIR=/srv/sales
//	SALESETL_REPORT_PERIOD_BEGIN=01/01/2025
//	SALESETL_REPORT_FORMAT=csv
//	SALESETL_TELEMETRY_ENABLED=true
//
// # Path Management
//
// GetPaths turns the configured, possibly relative, locations into absolute
// paths. Relative entries are taken from the base directory, which defaults
// to the working directory:
//
//	<base>/
//	  ├── data/
//	  │   ├── raw/sales_relatory.xlsx   (source workbook)
//	  │   └── processed/                (generated reports)
//	  └── logs/
package config
