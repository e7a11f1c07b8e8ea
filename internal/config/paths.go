package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute locations used by a run
type Paths struct {
	BaseDir        string
	DataDir        string
	ProcessedDir   string
	LogsDir        string
	SourceWorkbook string
}

// GetPaths resolves the configured locations. Relative data and logs
// directories hang off the base directory; the source workbook and the
// processed directory hang off the data directory.
func GetPaths(cfg *Config) (*Paths, error) {
	if cfg == nil {
		cfg = Default()
	}

	base := cfg.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", cfg.Paths.BaseDir, err)
	}

	dataDir := resolve(base, cfg.Paths.DataDir)

	paths := &Paths{
		BaseDir:        base,
		DataDir:        dataDir,
		ProcessedDir:   resolve(dataDir, cfg.Paths.ProcessedDir),
		LogsDir:        resolve(base, cfg.Paths.LogsDir),
		SourceWorkbook: resolve(dataDir, cfg.Paths.SourceWorkbook),
	}

	return paths, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The source workbook directory is never created; a missing workbook is
// reported by the file validator.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the path for a generated report
func (p *Paths) GetReportPath(filename string) string {
	return resolve(p.ProcessedDir, filename)
}

// GetLogPath returns the path for a log or telemetry file
func (p *Paths) GetLogPath(filename string) string {
	return resolve(p.LogsDir, filename)
}

// LogPathResolution logs every resolved path at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("processed_dir", p.ProcessedDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("source_workbook", p.SourceWorkbook))
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
