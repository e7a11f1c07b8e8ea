package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		expectError bool
		validateCfg func(t *testing.T, cfg *Config)
	}{
		{
			name:     "default configuration",
			setupEnv: func(t *testing.T) {},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "01/01/2025", cfg.Report.PeriodBegin)
				assert.Empty(t, cfg.Report.PeriodEnd)
				assert.Equal(t, "4500.00", cfg.Report.HighValueThreshold)
				assert.Equal(t, int64(50), cfg.Report.LowStockThreshold)
				assert.Equal(t, 5, cfg.Report.RankingSize)
				assert.Equal(t, "xlsx", cfg.Report.Format)
				assert.True(t, cfg.Report.StrictValidation)
				assert.False(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALESETL_LOGGING_LEVEL", "debug")
				t.Setenv("SALESETL_REPORT_FORMAT", "CSV")
				t.Setenv("SALESETL_REPORT_RANKING_SIZE", "3")
				t.Setenv("SALESETL_REPORT_PERIOD_END", "31/03/2025")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "csv", cfg.Report.Format)
				assert.Equal(t, 3, cfg.Report.RankingSize)
				assert.Equal(t, "31/03/2025", cfg.Report.PeriodEnd)
			},
		},
		{
			name: "unsupported report format",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALESETL_REPORT_FORMAT", "pdf")
			},
			expectError: true,
		},
		{
			name: "malformed period begin",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALESETL_REPORT_PERIOD_BEGIN", "2025-13-45")
			},
			expectError: true,
		},
		{
			name: "negative threshold",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALESETL_REPORT_HIGH_VALUE_THRESHOLD", "-1.00")
			},
			expectError: true,
		},
		{
			name: "invalid logging output",
			setupEnv: func(t *testing.T) {
				t.Setenv("SALESETL_LOGGING_OUTPUT", "syslog")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("SALESETL_CONFIG", "")
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
logging:
  level: warn
report:
  period_begin: 01/02/2025
  extras: true
  low_stock_threshold: 10
  strict_validation: false
paths:
  base_dir: /srv/sales
`
	configPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("SALESETL_CONFIG", configPath)

	t.Run("file values override defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "01/02/2025", cfg.Report.PeriodBegin)
		assert.True(t, cfg.Report.Extras)
		assert.Equal(t, int64(10), cfg.Report.LowStockThreshold)
		assert.Equal(t, "/srv/sales", cfg.Paths.BaseDir)
		assert.False(t, cfg.Report.StrictValidation)
		// untouched keys keep their defaults
		assert.Equal(t, 5, cfg.Report.RankingSize)
		assert.Equal(t, "Sales", cfg.Report.SalesSheet)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("SALESETL_LOGGING_LEVEL", "error")
		t.Setenv("SALESETL_REPORT_LOW_STOCK_THRESHOLD", "75")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "error", cfg.Logging.Level)
		assert.Equal(t, int64(75), cfg.Report.LowStockThreshold)
		assert.Equal(t, "01/02/2025", cfg.Report.PeriodBegin)
	})

	t.Run("environment set to the default still overrides file", func(t *testing.T) {
		t.Setenv("SALESETL_REPORT_STRICT_VALIDATION", "true")
		t.Setenv("SALESETL_LOGGING_LEVEL", "info")
		t.Setenv("SALESETL_REPORT_EXTRAS", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Report.StrictValidation)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.False(t, cfg.Report.Extras)
		assert.Equal(t, int64(10), cfg.Report.LowStockThreshold)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("SALESETL_CONFIG", filepath.Join(dir, "absent.yaml"))

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "raw/sales_relatory.xlsx", cfg.Paths.SourceWorkbook)
	assert.Equal(t, "Clients", cfg.Report.ClientsSheet)
	assert.Equal(t, "Products", cfg.Report.ProductsSheet)
	assert.Equal(t, "file", cfg.Telemetry.TraceExporter)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Report.HistoryWorkers = 0

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 1, cfg.Report.HistoryWorkers)
}
