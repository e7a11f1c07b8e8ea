package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"salesetl/internal/config"
	"salesetl/internal/dataprocessing"
	apperrors "salesetl/internal/errors"
	"salesetl/internal/exporter"
	"salesetl/internal/infrastructure"
	"salesetl/internal/validation"
	"salesetl/pkg/contracts/domain"
)

// Clock returns the current time. The run date is taken from it.
type Clock func() time.Time

// Period is an inclusive range of calendar days.
type Period struct {
	Begin time.Time
	End   time.Time
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunDate  time.Time
	Period   Period
	Files    []domain.ReportFile
	Duration time.Duration
}

// ReportService produces the report files of a run.
type ReportService struct {
	config    *config.Config
	paths     *config.Paths
	store     *dataprocessing.Store
	writer    exporter.TableWriter
	telemetry *infrastructure.Telemetry
	clock     Clock
	logger    *slog.Logger

	highValue domain.Money
}

// ReportServiceOption configures a ReportService.
type ReportServiceOption func(*ReportService)

// WithClock overrides the clock used for the run date.
func WithClock(clock Clock) ReportServiceOption {
	return func(s *ReportService) { s.clock = clock }
}

// WithTelemetry records spans and metrics on tel.
func WithTelemetry(tel *infrastructure.Telemetry) ReportServiceOption {
	return func(s *ReportService) { s.telemetry = tel }
}

// WithWriter replaces the writer chosen from the configured format.
func WithWriter(w exporter.TableWriter) ReportServiceOption {
	return func(s *ReportService) { s.writer = w }
}

// NewReportService creates a report service over store.
func NewReportService(cfg *config.Config, paths *config.Paths, store *dataprocessing.Store, logger *slog.Logger, opts ...ReportServiceOption) (*ReportService, error) {
	if store == nil {
		return nil, ErrStoreNotLoaded
	}
	if logger == nil {
		logger = slog.Default()
	}

	highValue, err := domain.ParseMoney(cfg.Report.HighValueThreshold)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid high value threshold", err)
	}

	s := &ReportService{
		config:    cfg,
		paths:     paths,
		store:     store,
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "report_service")),
		highValue: highValue,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.writer == nil {
		s.writer, err = exporter.NewTableWriter(domain.ReportFormat(cfg.Report.Format), paths, logger)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid report format", err)
		}
	}
	if s.telemetry == nil {
		s.telemetry = infrastructure.NoopTelemetry()
	}

	return s, nil
}

// Period returns the reporting period: the configured begin up to the
// configured end, or up to the run date when no end is set.
func (s *ReportService) Period() (Period, error) {
	begin, err := domain.ParseDay(s.config.Report.PeriodBegin)
	if err != nil {
		return Period{}, apperrors.NewConfigError("invalid period begin", err)
	}

	end := domain.Day(s.clock())
	if s.config.Report.PeriodEnd != "" {
		end, err = domain.ParseDay(s.config.Report.PeriodEnd)
		if err != nil {
			return Period{}, apperrors.NewConfigError("invalid period end", err)
		}
	}

	if end.Before(begin) {
		return Period{}, apperrors.NewValidationError(
			fmt.Sprintf("period %s..%s", begin.Format(domain.ISODateLayout), end.Format(domain.ISODateLayout)),
			apperrors.ErrInvalidPeriod)
	}
	return Period{Begin: begin, End: end}, nil
}

type reportJob struct {
	name  string
	build func(ctx context.Context, period Period) (exporter.Table, error)
}

func (s *ReportService) jobs() []reportJob {
	jobs := []reportJob{
		{name: "history_income", build: s.incomeHistory},
		{name: "best_sales", build: s.highValueSales},
		{name: "sales_by_state", build: s.salesByState},
	}
	if s.config.Report.Extras {
		jobs = append(jobs,
			reportJob{name: "clients_ranking", build: s.clientsRanking},
			reportJob{name: "products_running_low", build: s.runningLow},
		)
	}
	return jobs
}

// Run executes every report job in order and stops at the first failure.
func (s *ReportService) Run(ctx context.Context) (*RunSummary, error) {
	if s.writer == nil {
		return nil, ErrNoWriter
	}

	start := time.Now()
	runDate := domain.Day(s.clock())

	period, err := s.Period()
	if err != nil {
		return nil, err
	}

	if err := validation.NewFileValidator(s.logger).ValidateOutputDirectory(s.paths.ProcessedDir); err != nil {
		return nil, err
	}

	ctx, span := s.telemetry.StartSpan(ctx, "report.run",
		attribute.String("run_date", runDate.Format(domain.ISODateLayout)))
	defer span.End()

	s.logger.InfoContext(ctx, "Starting report run",
		slog.String("run_date", runDate.Format(domain.ISODateLayout)),
		slog.String("period_begin", period.Begin.Format(domain.ISODateLayout)),
		slog.String("period_end", period.End.Format(domain.ISODateLayout)),
		slog.String("format", string(s.writer.Format())))

	summary := &RunSummary{RunDate: runDate, Period: period}
	for _, job := range s.jobs() {
		file, err := s.runJob(ctx, job, period, runDate)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return summary, fmt.Errorf("report %s: %w", job.name, err)
		}
		summary.Files = append(summary.Files, file)
	}

	summary.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "Report run complete",
		slog.Int("files", len(summary.Files)),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

func (s *ReportService) runJob(ctx context.Context, job reportJob, period Period, runDate time.Time) (domain.ReportFile, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "report."+job.name, attribute.String("report", job.name))
	defer span.End()

	start := time.Now()
	s.logger.InfoContext(ctx, "Building report", slog.String("report", job.name))

	table, err := job.build(ctx, period)
	if err != nil {
		s.telemetry.Metrics.RecordFailure(ctx, job.name)
		infrastructure.RecordError(ctx, err)
		return domain.ReportFile{}, err
	}
	infrastructure.AddSpanEvent(ctx, "table.built", attribute.Int("rows", len(table.Rows)))

	name := exporter.FileName(table, runDate, s.writer.Format())
	path := s.paths.GetReportPath(name)
	if err := s.writer.WriteTable(ctx, path, table); err != nil {
		s.telemetry.Metrics.RecordFailure(ctx, job.name)
		infrastructure.RecordError(ctx, err)
		return domain.ReportFile{}, err
	}

	s.telemetry.Metrics.RecordExport(ctx, job.name, len(table.Rows), time.Since(start))

	return domain.ReportFile{
		Name:      name,
		Path:      path,
		SheetName: table.SheetName,
		Format:    s.writer.Format(),
		Rows:      len(table.Rows),
	}, nil
}

func (s *ReportService) incomeHistory(ctx context.Context, period Period) (exporter.Table, error) {
	builder := dataprocessing.NewHistoryBuilder(s.store, s.logger,
		dataprocessing.WithWorkers(s.config.Report.HistoryWorkers))
	ledger, err := builder.Build(ctx, period.Begin, period.End)
	if err != nil {
		return exporter.Table{}, err
	}
	return exporter.LedgerTable(ledger), nil
}

func (s *ReportService) highValueSales(_ context.Context, period Period) (exporter.Table, error) {
	return exporter.HighValueSalesTable(s.store.HighValueSalesHistory(period.Begin, period.End, s.highValue)), nil
}

func (s *ReportService) salesByState(_ context.Context, period Period) (exporter.Table, error) {
	return exporter.StateSalesTable(s.store.SalesByState(period.Begin, period.End)), nil
}

func (s *ReportService) clientsRanking(_ context.Context, period Period) (exporter.Table, error) {
	n := s.config.Report.RankingSize
	return exporter.ClientRankingTable(
		s.store.TopClients(period.Begin, period.End, n),
		s.store.BottomClients(period.Begin, period.End, n),
	), nil
}

func (s *ReportService) runningLow(_ context.Context, _ Period) (exporter.Table, error) {
	return exporter.LowStockTable(s.store.ProductsRunningLow(s.config.Report.LowStockThreshold)), nil
}
