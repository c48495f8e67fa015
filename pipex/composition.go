package pipex

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tinkerpop/blueprints-sub007/component"
	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/logger"
	"github.com/tinkerpop/blueprints-sub007/observability"
)

// Option configures a SerialComposition.
type Option func(*options)

type options struct {
	name         string
	executor     Executor
	log          *logger.Logger
	metrics      *observability.StageMetrics
	tracer       trace.Tracer
	pollInterval time.Duration
}

// WithName names the composition in logs, spans and the component registry.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithExecutor sets the executor stages are scheduled on.
func WithExecutor(e Executor) Option {
	return func(o *options) {
		if e != nil {
			o.executor = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records stage traffic, step durations, stalls and failures.
func WithMetrics(m *observability.StageMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer sets the tracer for composition and stage spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithPollInterval sets the stall accounting interval of the intermediate
// channels.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// SerialComposition runs a chain of stages concurrently. Stage 1 reads the
// composition's input, stage n writes its output, and n-1 intermediate
// channels of the configured capacity link the stages in between.
type SerialComposition[I, O any] struct {
	opts     options
	capacity int
	in       *Channel[I]
	out      *Channel[O]
	stages   []Stage
	log      *logger.Logger

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

var _ component.Component = (*SerialComposition[int, int])(nil)
var _ component.Describable = (*SerialComposition[int, int])(nil)

// NewSerialComposition wires stages between in and out. Consecutive stages
// must agree on their item type; a mismatch, an empty stage list or a
// capacity <= 0 is an INVALID_CONFIG error.
func NewSerialComposition[I, O any](capacity int, in *Channel[I], out *Channel[O], stages []Stage, opts ...Option) (*SerialComposition[I, O], error) {
	o := options{
		name:         "composition",
		executor:     GoExecutor{},
		log:          logger.Get("pipex"),
		tracer:       observability.DefaultTracer(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if capacity <= 0 {
		return nil, errors.InvalidConfig("capacity", "channel capacity must be positive")
	}
	if len(stages) == 0 {
		return nil, errors.InvalidConfig("stages", "a composition needs at least one stage")
	}
	if in == nil || out == nil {
		return nil, errors.InvalidConfig("channels", "input and output channels are required")
	}
	for i, s := range stages {
		if s == nil {
			return nil, errors.InvalidConfig("stages", fmt.Sprintf("stage %d is nil", i))
		}
	}
	for i := 1; i < len(stages); i++ {
		prev, next := stages[i-1], stages[i]
		if prev.outputType() != next.inputType() {
			return nil, errors.InvalidConfig("stages", fmt.Sprintf(
				"stage %s writes %s but stage %s reads %s",
				prev.Name(), prev.outputType(), next.Name(), next.inputType()))
		}
	}

	if err := stages[0].bindInput(in); err != nil {
		return nil, err
	}
	for i := 0; i < len(stages)-1; i++ {
		ch, err := stages[i].newOutput(capacity, WithChannelPollInterval(o.pollInterval))
		if err != nil {
			return nil, err
		}
		if err := stages[i].bindOutput(ch); err != nil {
			return nil, err
		}
		if err := stages[i+1].bindInput(ch); err != nil {
			return nil, err
		}
	}
	if err := stages[len(stages)-1].bindOutput(out); err != nil {
		return nil, err
	}

	return &SerialComposition[I, O]{
		opts:     o,
		capacity: capacity,
		in:       in,
		out:      out,
		stages:   stages,
		log:      o.log,
	}, nil
}

// Name returns the composition name.
func (c *SerialComposition[I, O]) Name() string { return c.opts.name }

// Input returns the channel the first stage reads.
func (c *SerialComposition[I, O]) Input() *Channel[I] { return c.in }

// Output returns the channel the last stage writes.
func (c *SerialComposition[I, O]) Output() *Channel[O] { return c.out }

// Stages returns the stages in order.
func (c *SerialComposition[I, O]) Stages() []Stage { return c.stages }

// Run schedules every stage and blocks until all of them finish. The output
// channel is closed when Run returns. A composition runs at most once.
func (c *SerialComposition[I, O]) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.AlreadyRunning(c.opts.name)
	}
	return c.run(ctx)
}

func (c *SerialComposition[I, O]) run(ctx context.Context) error {
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := c.log.WithContext(ctx)

	ctx, span := c.opts.tracer.Start(ctx, observability.SpanComposition, trace.WithAttributes(
		attribute.String(observability.AttrComposition, c.opts.name),
		attribute.String(observability.AttrRunID, runID),
		attribute.Int(observability.AttrStages, len(c.stages)),
		attribute.Int(observability.AttrCapacity, c.capacity),
	))
	defer span.End()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := &observer{
		composition: c.opts.name,
		log:         c.log,
		metrics:     c.opts.metrics,
		tracer:      c.opts.tracer,
	}

	start := time.Now()
	log.Info("composition started", logger.Fields(
		logger.FieldComposition, c.opts.name,
		"stages", len(c.stages),
		logger.FieldCapacity, c.capacity,
	))

	var failure atomic.Pointer[errors.AppError]
	fail := func(stage string, err error) {
		// Stages unwinding after cancellation are not failures of their own.
		if errors.HasCode(err, errors.ErrCodeCancelled) && runCtx.Err() != nil {
			return
		}
		appErr := errors.StageFailed(stage, err)
		if failure.CompareAndSwap(nil, appErr) {
			code := errors.ErrCodeInternal
			if cause, ok := errors.AsAppError(err); ok {
				code = cause.Code
			}
			c.opts.metrics.RecordFailure(ctx, c.opts.name, stage, string(code))
			log.Error("stage failed", logger.MergeWithError(logger.Fields(
				logger.FieldComposition, c.opts.name,
				logger.FieldStage, stage,
			), err))
			cancel()
		}
	}

	var wg sync.WaitGroup
	for _, s := range c.stages {
		wg.Add(1)
		err := c.opts.executor.Go(runCtx, func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(s.Name(), fmt.Errorf("panic: %v", r))
				}
			}()
			if err := s.run(runCtx, obs); err != nil {
				fail(s.Name(), err)
			}
		})
		if err != nil {
			wg.Done()
			fail(s.Name(), err)
			break
		}
	}
	wg.Wait()
	c.out.Close()

	fields := logger.Fields(
		logger.FieldComposition, c.opts.name,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if f := failure.Load(); f != nil {
		span.SetAttributes(attribute.String(observability.AttrStatus, "failed"))
		observability.SetSpanError(span, f)
		return f
	}
	if err := ctx.Err(); err != nil {
		cancelled := errors.Cancelled("composition "+c.opts.name, err)
		span.SetAttributes(attribute.String(observability.AttrStatus, "cancelled"))
		observability.SetSpanError(span, cancelled)
		log.Info("composition cancelled", fields)
		return cancelled
	}
	span.SetAttributes(attribute.String(observability.AttrStatus, "completed"))
	log.Info("composition finished", fields)
	return nil
}

// Start runs the composition in the background. The run outlives ctx; use
// Stop to end it.
func (c *SerialComposition[I, O]) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.AlreadyRunning(c.opts.name)
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		err := c.run(runCtx)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	}()
	return nil
}

// Stop cancels a started composition and waits for its stages to return.
func (c *SerialComposition[I, O]) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Cancelled("stop "+c.opts.name, ctx.Err())
	}
}

// Wait blocks until a started composition finishes and returns its result.
func (c *SerialComposition[I, O]) Wait() error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	return c.Err()
}

// Err returns the result of a finished background run.
func (c *SerialComposition[I, O]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Health reports unhealthy once a background run failed.
func (c *SerialComposition[I, O]) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.opts.name, Status: component.StatusHealthy}
	if err := c.Err(); err != nil && !errors.HasCode(err, errors.ErrCodeCancelled) {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}

// Describe implements component.Describable.
func (c *SerialComposition[I, O]) Describe() component.Description {
	return component.Description{
		Name:    c.opts.name,
		Type:    "pipex",
		Details: fmt.Sprintf("stages=%d capacity=%d", len(c.stages), c.capacity),
	}
}
