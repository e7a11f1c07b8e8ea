// Command salesetl reads the sales relatory workbook and writes the income
// history, best sales and sales by state reports for the run date.
//
// Running with no flags and no SALESETL_* variables is the standard run:
// period 01/01/2025 through today, strict row validation, xlsx output and
// no extra reports. Flags only override configuration for a single run.
//
// Usage:
//
//	salesetl [-begin dd/mm/yyyy] [-end dd/mm/yyyy] [-format xlsx|csv] [-extras] [-lenient] [-version]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"salesetl/internal/config"
	"salesetl/internal/infrastructure"
	"salesetl/internal/services"
	"salesetl/pkg/contracts"
)

// options holds command line overrides. Empty values keep the configured
// setting.
type options struct {
	begin   string
	end     string
	format  string
	extras  bool
	lenient bool
	version bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("salesetl", flag.ContinueOnError)
	fs.StringVar(&opts.begin, "begin", "", "first day of the reporting period (dd/mm/yyyy)")
	fs.StringVar(&opts.end, "end", "", "last day of the reporting period (dd/mm/yyyy, defaults to today)")
	fs.StringVar(&opts.format, "format", "", "report file format: xlsx or csv")
	fs.BoolVar(&opts.extras, "extras", false, "also write the client ranking and running low reports")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.BoolVar(&opts.lenient, "lenient", false, "skip malformed workbook rows instead of failing")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o options) apply(cfg *config.Config) {
	if o.begin != "" {
		cfg.Report.PeriodBegin = o.begin
	}
	if o.end != "" {
		cfg.Report.PeriodEnd = o.end
	}
	if o.format != "" {
		cfg.Report.Format = o.format
	}
	if o.extras {
		cfg.Report.Extras = true
	}
	if o.lenient {
		cfg.Report.StrictValidation = false
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if err := run(context.Background(), opts); err != nil {
		slog.Error("Report run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, cfg.Logging.FilePath)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger = infrastructure.WithComponent(logger, "salesetl")
	logger.InfoContext(ctx, "Starting salesetl", slog.String("version", contracts.Version))
	paths.LogPathResolution(logger)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	store, err := services.LoadStore(ctx, cfg, paths, tel, logger)
	if err != nil {
		return err
	}

	svc, err := services.NewReportService(cfg, paths, store, logger, services.WithTelemetry(tel))
	if err != nil {
		return err
	}

	summary, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	for _, f := range summary.Files {
		logger.InfoContext(ctx, "Report written",
			slog.String("file", f.Path),
			slog.Int("rows", f.Rows))
	}
	return nil
}
