package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/tinkerpop/blueprints-sub007/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names recorded by StageMetrics.
const (
	MetricItemsRead    = "pipex.stage.items_read"
	MetricItemsWritten = "pipex.stage.items_written"
	MetricStepDuration = "pipex.stage.step.duration"
	MetricStalls       = "pipex.channel.stalls"
	MetricFailures     = "pipex.stage.failures"
	MetricActive       = "pipex.stages.active"
)

// StageMetrics holds the instruments recorded by pipex stages. All methods
// are safe on a nil receiver.
type StageMetrics struct {
	itemsRead    metric.Int64Counter
	itemsWritten metric.Int64Counter
	stepDuration metric.Float64Histogram
	stalls       metric.Int64Counter
	failures     metric.Int64Counter
	active       metric.Int64UpDownCounter
}

// NewStageMetrics creates stage instruments on the given meter.
func NewStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	itemsRead, err := meter.Int64Counter(MetricItemsRead,
		metric.WithDescription("Items read from a stage's input channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsRead, err)
	}

	itemsWritten, err := meter.Int64Counter(MetricItemsWritten,
		metric.WithDescription("Items written to a stage's output channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsWritten, err)
	}

	stepDuration, err := meter.Float64Histogram(MetricStepDuration,
		metric.WithDescription("Duration of one stage step in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricStepDuration, err)
	}

	stalls, err := meter.Int64Counter(MetricStalls,
		metric.WithDescription("Poll intervals a writer spent blocked on a full channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStalls, err)
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Stage failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFailures, err)
	}

	active, err := meter.Int64UpDownCounter(MetricActive,
		metric.WithDescription("Number of currently running stages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricActive, err)
	}

	return &StageMetrics{
		itemsRead:    itemsRead,
		itemsWritten: itemsWritten,
		stepDuration: stepDuration,
		stalls:       stalls,
		failures:     failures,
		active:       active,
	}, nil
}

func stageAttrs(composition, stage string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String(AttrComposition, composition),
		attribute.String(AttrStage, stage),
	)
}

// RecordStageStart increments the running stage count.
func (m *StageMetrics) RecordStageStart(ctx context.Context, composition, stage string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, stageAttrs(composition, stage))
}

// RecordStageEnd decrements the running stage count.
func (m *StageMetrics) RecordStageEnd(ctx context.Context, composition, stage string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1, stageAttrs(composition, stage))
}

// RecordRead counts n items read by a stage.
func (m *StageMetrics) RecordRead(ctx context.Context, composition, stage string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.itemsRead.Add(ctx, n, stageAttrs(composition, stage))
}

// RecordWritten counts n items written by a stage.
func (m *StageMetrics) RecordWritten(ctx context.Context, composition, stage string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.itemsWritten.Add(ctx, n, stageAttrs(composition, stage))
}

// RecordStep records the duration of one step.
func (m *StageMetrics) RecordStep(ctx context.Context, composition, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.Record(ctx, d.Seconds(), stageAttrs(composition, stage))
}

// RecordStall counts one poll interval spent blocked writing.
func (m *StageMetrics) RecordStall(ctx context.Context, composition, stage string) {
	if m == nil {
		return
	}
	m.stalls.Add(ctx, 1, stageAttrs(composition, stage))
}

// RecordFailure counts a stage failure with its error code.
func (m *StageMetrics) RecordFailure(ctx context.Context, composition, stage, code string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrComposition, composition),
		attribute.String(AttrStage, stage),
		attribute.String(AttrErrorCode, code),
	))
}
