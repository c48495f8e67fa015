package pipex

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/logger"
	"github.com/tinkerpop/blueprints-sub007/observability"
)

// observer carries the instrumentation a composition hands to its stages.
// A nil observer records nothing.
type observer struct {
	composition string
	log         *logger.Logger
	metrics     *observability.StageMetrics
	tracer      trace.Tracer
}

// stageRun is the per-run instrumentation of a single stage.
type stageRun struct {
	obs     *observer
	stage   string
	span    trace.Span
	read    int64
	written int64
	start   time.Time
}

func (o *observer) begin(ctx context.Context, stage string) (context.Context, *stageRun) {
	r := &stageRun{obs: o, stage: stage, start: time.Now()}
	if o == nil {
		return ctx, r
	}
	if o.tracer != nil {
		ctx, r.span = o.tracer.Start(ctx, observability.SpanStage, trace.WithAttributes(
			attribute.String(observability.AttrComposition, o.composition),
			attribute.String(observability.AttrStage, stage),
		))
	}
	o.metrics.RecordStageStart(ctx, o.composition, stage)
	o.log.WithContext(ctx).Debug("stage started", logger.Fields(
		logger.FieldComposition, o.composition,
		logger.FieldStage, stage,
	))
	return ctx, r
}

func (r *stageRun) onRead(ctx context.Context) {
	r.read++
	if r.obs != nil {
		r.obs.metrics.RecordRead(ctx, r.obs.composition, r.stage, 1)
	}
}

func (r *stageRun) onWrite(ctx context.Context) {
	r.written++
	if r.obs != nil {
		r.obs.metrics.RecordWritten(ctx, r.obs.composition, r.stage, 1)
	}
}

func (r *stageRun) onStep(ctx context.Context, d time.Duration) {
	if r.obs != nil {
		r.obs.metrics.RecordStep(ctx, r.obs.composition, r.stage, d)
	}
}

func (r *stageRun) stallHook(ctx context.Context) func() {
	if r.obs == nil || r.obs.metrics == nil {
		return nil
	}
	return func() { r.obs.metrics.RecordStall(ctx, r.obs.composition, r.stage) }
}

func (r *stageRun) end(ctx context.Context, err error) {
	if r.obs == nil {
		return
	}
	o := r.obs
	o.metrics.RecordStageEnd(ctx, o.composition, r.stage)
	if r.span != nil {
		r.span.SetAttributes(
			attribute.Int64(observability.AttrItemsRead, r.read),
			attribute.Int64(observability.AttrItemsWritten, r.written),
		)
		if err != nil {
			observability.SetSpanError(r.span, err)
		}
		r.span.End()
	}
	fields := logger.Fields(
		logger.FieldComposition, o.composition,
		logger.FieldStage, r.stage,
		logger.FieldItems, r.written,
		logger.FieldDuration, time.Since(r.start).Milliseconds(),
	)
	if err != nil && !errors.HasCode(err, errors.ErrCodeCancelled) {
		o.log.WithContext(ctx).Debug("stage stopped with error", logger.MergeWithError(fields, err))
		return
	}
	o.log.WithContext(ctx).Debug("stage stopped", fields)
}

// countingReader and countingWriter report traffic to a stageRun.
type countingReader[T any] struct {
	Reader[T]
	run *stageRun
}

func (c countingReader[T]) Read(ctx context.Context) (T, bool, error) {
	v, ok, err := c.Reader.Read(ctx)
	if ok {
		c.run.onRead(ctx)
	}
	return v, ok, err
}

type countingWriter[T any] struct {
	Writer[T]
	run *stageRun
}

func (c countingWriter[T]) Write(ctx context.Context, v T) error {
	if err := c.Writer.Write(ctx, v); err != nil {
		return err
	}
	c.run.onWrite(ctx)
	return nil
}
