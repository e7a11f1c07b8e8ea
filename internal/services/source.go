package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"salesetl/internal/config"
	"salesetl/internal/dataprocessing"
	"salesetl/internal/infrastructure"
	"salesetl/internal/validation"
)

// LoadStore checks the source workbook, reads it and builds the Store.
func LoadStore(ctx context.Context, cfg *config.Config, paths *config.Paths, tel *infrastructure.Telemetry, logger *slog.Logger) (*dataprocessing.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}

	ctx, span := tel.StartSpan(ctx, "workbook.load", attribute.String("path", paths.SourceWorkbook))
	defer span.End()

	if err := validation.NewFileValidator(logger).ValidateWorkbook(paths.SourceWorkbook); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	loader := dataprocessing.NewWorkbookLoader(logger, dataprocessing.LoadOptions{
		ClientsSheet:  cfg.Report.ClientsSheet,
		ProductsSheet: cfg.Report.ProductsSheet,
		SalesSheet:    cfg.Report.SalesSheet,
		Strict:        cfg.Report.StrictValidation,
	})

	tables, err := loader.Load(ctx, paths.SourceWorkbook)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	tel.Metrics.RecordLoad(ctx, cfg.Report.ClientsSheet, len(tables.Clients))
	tel.Metrics.RecordLoad(ctx, cfg.Report.ProductsSheet, len(tables.Products))
	tel.Metrics.RecordLoad(ctx, cfg.Report.SalesSheet, len(tables.Sales))

	return dataprocessing.NewStore(*tables, logger), nil
}
