package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"salesetl/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SALESETL"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/salesetl.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir        string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir        string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	SourceWorkbook string `yaml:"source_workbook" envconfig:"SOURCE_WORKBOOK" default:"raw/sales_relatory.xlsx"`
	ProcessedDir   string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"processed"`
	LogsDir        string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ReportConfig holds the defaults baked into every report query.
type ReportConfig struct {
	PeriodBegin        string `yaml:"period_begin" envconfig:"PERIOD_BEGIN" default:"01/01/2025"`
	PeriodEnd          string `yaml:"period_end" envconfig:"PERIOD_END"`
	HighValueThreshold string `yaml:"high_value_threshold" envconfig:"HIGH_VALUE_THRESHOLD" default:"4500.00"`
	LowStockThreshold  int64  `yaml:"low_stock_threshold" envconfig:"LOW_STOCK_THRESHOLD" default:"50"`
	RankingSize        int    `yaml:"ranking_size" envconfig:"RANKING_SIZE" default:"5"`
	HistoryWorkers     int    `yaml:"history_workers" envconfig:"HISTORY_WORKERS" default:"1"`
	Format             string `yaml:"format" envconfig:"FORMAT" default:"xlsx"`
	Extras             bool   `yaml:"extras" envconfig:"EXTRAS" default:"false"`
	StrictValidation   bool   `yaml:"strict_validation" envconfig:"STRICT_VALIDATION" default:"true"`
	ClientsSheet       string `yaml:"clients_sheet" envconfig:"CLIENTS_SHEET" default:"Clients"`
	ProductsSheet      string `yaml:"products_sheet" envconfig:"PRODUCTS_SHEET" default:"Products"`
	SalesSheet         string `yaml:"sales_sheet" envconfig:"SALES_SHEET" default:"Sales"`
}

// TelemetryConfig controls OpenTelemetry tracing and the metrics textfile.
type TelemetryConfig struct {
	Enabled       bool    `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"file"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE" default:"traces.json"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE" default:"salesetl.prom"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// Load loads configuration from defaults, the optional YAML file and
// environment variables.
func Load() (*Config, error) {
	var envCfg Config
	if err := envconfig.Process(EnvPrefix, &envCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg := envCfg
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, envCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file on top of the defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfigs merges file config with env config. Every field whose
// variable is set in the environment wins, even when it holds the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := fileConfig
	mergeFields(reflect.ValueOf(&merged).Elem(), reflect.ValueOf(envConfig), EnvPrefix)
	return merged
}

func mergeFields(dst, env reflect.Value, prefix string) {
	for i := 0; i < dst.NumField(); i++ {
		key := prefix + "_" + dst.Type().Field(i).Tag.Get("envconfig")
		field := dst.Field(i)
		if field.Kind() == reflect.Struct {
			mergeFields(field, env.Field(i), key)
			continue
		}
		if _, set := os.LookupEnv(key); set {
			field.Set(env.Field(i))
		}
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q: want console, file or both", c.Logging.Output)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/salesetl.log"
	}

	if _, err := domain.ParseDay(c.Report.PeriodBegin); err != nil {
		return fmt.Errorf("invalid report period begin: %w", err)
	}

	if c.Report.PeriodEnd != "" {
		if _, err := domain.ParseDay(c.Report.PeriodEnd); err != nil {
			return fmt.Errorf("invalid report period end: %w", err)
		}
	}

	threshold, err := domain.ParseMoney(c.Report.HighValueThreshold)
	if err != nil {
		return fmt.Errorf("invalid high value threshold: %w", err)
	}
	if threshold.IsNegative() {
		return fmt.Errorf("high value threshold must not be negative")
	}

	if c.Report.LowStockThreshold < 0 {
		return fmt.Errorf("low stock threshold must not be negative")
	}

	if c.Report.RankingSize <= 0 {
		return fmt.Errorf("ranking size must be positive")
	}

	if c.Report.HistoryWorkers <= 0 {
		c.Report.HistoryWorkers = 1
	}

	if !domain.ReportFormat(strings.ToLower(c.Report.Format)).Valid() {
		return fmt.Errorf("unsupported report format %q", c.Report.Format)
	}
	c.Report.Format = strings.ToLower(c.Report.Format)

	if c.Report.ClientsSheet == "" || c.Report.ProductsSheet == "" || c.Report.SalesSheet == "" {
		return fmt.Errorf("sheet names must not be empty")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "file", "none":
	default:
		return fmt.Errorf("unsupported trace exporter %q", c.Telemetry.TraceExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0, 1]")
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" if none
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	for _, location := range []string{"salesetl.yaml", "configs/salesetl.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salesetl.log",
		},
		Paths: PathsConfig{
			DataDir:        "data",
			SourceWorkbook: "raw/sales_relatory.xlsx",
			ProcessedDir:   "processed",
			LogsDir:        "logs",
		},
		Report: ReportConfig{
			PeriodBegin:        "01/01/2025",
			HighValueThreshold: "4500.00",
			LowStockThreshold:  50,
			RankingSize:        5,
			HistoryWorkers:     1,
			Format:             string(domain.ReportFormatXLSX),
			StrictValidation:   true,
			ClientsSheet:       "Clients",
			ProductsSheet:      "Products",
			SalesSheet:         "Sales",
		},
		Telemetry: TelemetryConfig{
			Environment:   "development",
			TraceExporter: "file",
			TraceFile:     "traces.json",
			MetricsFile:   "salesetl.prom",
			SampleRatio:   1.0,
		},
	}
}
