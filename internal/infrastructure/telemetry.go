package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesetl/internal/config"
	"salesetl/pkg/contracts"
)

const (
	ServiceName    = "salesetl"
	ServiceVersion = contracts.Version
	MeterName      = "salesetl"
)

// Telemetry bundles the tracer and meter used by a report run. Metrics are
// collected into a private Prometheus registry and written as a textfile on
// Shutdown.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *ReportMetrics

	registry    *prometheus.Registry
	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// NoopTelemetry returns telemetry that records nothing.
func NoopTelemetry() *Telemetry {
	meter := metricnoop.NewMeterProvider().Meter(MeterName)
	metrics, _ := NewReportMetrics(meter)
	return &Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:   meter,
		Metrics: metrics,
		logger:  slog.Default(),
	}
}

// InitializeTelemetry sets up tracing and metrics. When telemetry is disabled
// the returned value is a no-op bundle.
func InitializeTelemetry(cfg config.TelemetryConfig, paths *config.Paths, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if !cfg.Enabled {
		t := NoopTelemetry()
		t.logger = logger
		return t, nil
	}

	ctx := context.Background()

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{logger: logger}

	if err := t.initializeTracing(ctx, cfg, paths, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(ctx, cfg, paths, res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.InfoContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", t.metricsFile),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", fmt.Sprintf("%s-%d", hostname, time.Now().Unix())),
	), nil
}

func (t *Telemetry) initializeTracing(ctx context.Context, cfg config.TelemetryConfig, paths *config.Paths, res *resource.Resource) error {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "file":
		path := cfg.TraceFile
		if paths != nil {
			path = paths.GetLogPath(cfg.TraceFile)
		}
		file, openErr := openLogFile(path)
		if openErr != nil {
			return openErr
		}
		t.traceOut = file
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(file))
	case "none":
		t.Tracer = tracenoop.NewTracerProvider().Tracer(MeterName)
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	otel.SetTracerProvider(tp)

	t.logger.DebugContext(ctx, "Tracing initialized", slog.String("exporter", cfg.TraceExporter))
	return nil
}

func (t *Telemetry) initializeMetrics(ctx context.Context, cfg config.TelemetryConfig, paths *config.Paths, res *resource.Resource) error {
	t.registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.MeterProvider = mp
	t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
	otel.SetMeterProvider(mp)

	t.Metrics, err = NewReportMetrics(t.Meter)
	if err != nil {
		return err
	}

	t.metricsFile = cfg.MetricsFile
	if paths != nil && cfg.MetricsFile != "" {
		t.metricsFile = paths.GetLogPath(cfg.MetricsFile)
	}

	t.logger.DebugContext(ctx, "Metrics initialized", slog.String("metrics_file", t.metricsFile))
	return nil
}

// StartSpan starts a span on the run tracer.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Shutdown flushes pending spans, writes the metrics textfile and releases
// the trace output.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.registry != nil && t.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace output: %w", err))
		}
		t.traceOut = nil
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}

	if t.logger != nil {
		t.logger.DebugContext(ctx, "Telemetry shutdown complete")
	}
	return nil
}

// MetricsFile returns the textfile path written on Shutdown, or "".
func (t *Telemetry) MetricsFile() string {
	return t.metricsFile
}

// ReportMetrics holds the counters and histograms recorded by a run
type ReportMetrics struct {
	RowsExported metric.Int64Counter
	RowsLoaded   metric.Int64Counter
	JobDuration  metric.Float64Histogram
	JobErrors    metric.Int64Counter
}

// NewReportMetrics creates the report instruments on meter
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	rowsExported, err := meter.Int64Counter(
		"salesetl_rows_exported",
		metric.WithDescription("Rows written to generated reports"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"salesetl_load_rows",
		metric.WithDescription("Rows read from the source workbook"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"salesetl_job_duration",
		metric.WithDescription("Report job duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	jobErrors, err := meter.Int64Counter(
		"salesetl_job_errors",
		metric.WithDescription("Report jobs that failed"),
	)
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		RowsExported: rowsExported,
		RowsLoaded:   rowsLoaded,
		JobDuration:  jobDuration,
		JobErrors:    jobErrors,
	}, nil
}

// RecordExport records a finished report job
func (m *ReportMetrics) RecordExport(ctx context.Context, report string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("report", report))
	m.RowsExported.Add(ctx, int64(rows), attrs)
	m.JobDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordLoad records rows read from one sheet
func (m *ReportMetrics) RecordLoad(ctx context.Context, sheet string, rows int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("sheet", sheet)))
}

// RecordFailure records a failed report job
func (m *ReportMetrics) RecordFailure(ctx context.Context, report string) {
	if m == nil {
		return
	}
	m.JobErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("report", report)))
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
