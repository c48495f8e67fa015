// Package observability provides OpenTelemetry tracing and metrics for
// pipex compositions.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("pipes"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanComposition)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("pipes"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStageMetrics(observability.Meter("pipex"))
//	metrics.RecordStep(ctx, "walk", "out-edges", time.Millisecond)
//
// A nil *StageMetrics is valid and records nothing.
package observability
