package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("pipes", "1.0.0", "test")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "pipes" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.rate), func(t *testing.T) {
			desc := Sampler(tc.rate).Description()
			if want := "ParentBased{root:" + tc.want; len(desc) < len(want) || desc[:len(want)] != want {
				t.Errorf("unexpected sampler %q", desc)
			}
		})
	}
}

func TestStageMetricsNoop(t *testing.T) {
	m, err := NewStageMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	m.RecordStageStart(ctx, "c", "s")
	m.RecordRead(ctx, "c", "s", 3)
	m.RecordWritten(ctx, "c", "s", 3)
	m.RecordStep(ctx, "c", "s", time.Millisecond)
	m.RecordStall(ctx, "c", "s")
	m.RecordFailure(ctx, "c", "s", "STAGE_FAILED")
	m.RecordStageEnd(ctx, "c", "s")
}

func TestStageMetricsNilReceiver(t *testing.T) {
	var m *StageMetrics
	ctx := context.Background()
	// Should not panic
	m.RecordStageStart(ctx, "c", "s")
	m.RecordRead(ctx, "c", "s", 1)
	m.RecordStall(ctx, "c", "s")
	m.RecordFailure(ctx, "c", "s", "X")
}

func TestStageMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewStageMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.RecordRead(ctx, "walk", "expand", 2)
	m.RecordRead(ctx, "walk", "expand", 3)
	m.RecordStall(ctx, "walk", "expand")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	if sums[MetricItemsRead] != 5 {
		t.Errorf("expected 5 items read, got %d", sums[MetricItemsRead])
	}
	if sums[MetricStalls] != 1 {
		t.Errorf("expected 1 stall, got %d", sums[MetricStalls])
	}
}

func TestTracerAndMeter(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpanAndError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), SpanStage)
	if SpanFromContext(ctx) != span {
		t.Error("expected span in context")
	}
	SetSpanError(span, fmt.Errorf("stage failed"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanStage {
		t.Errorf("expected span %q, got %q", SpanStage, spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected one error event, got %d", len(spans[0].Events))
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	// Should not panic with a non-recording span
	SetSpanError(SpanFromContext(context.Background()), fmt.Errorf("no span"))
	SetSpanError(nil, fmt.Errorf("nil span"))
}
