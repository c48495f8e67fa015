package pipex

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// StepFunc performs one step of a process: it reads zero or more items from
// in and writes zero or more items to out. A step that finds in complete
// should return nil; the process ends once in is complete.
type StepFunc[I, O any] func(ctx context.Context, in Reader[I], out Writer[O]) error

// Hook runs when a process starts or stops.
type Hook func(ctx context.Context) error

// ProcessOption configures a SerialProcess.
type ProcessOption func(*processOptions)

type processOptions struct {
	onStart Hook
	onStop  Hook
}

// OnStart registers a hook run before the first step. An error aborts the
// process before anything is read.
func OnStart(h Hook) ProcessOption {
	return func(o *processOptions) { o.onStart = h }
}

// OnStop registers a hook run after the output channel is closed.
func OnStop(h Hook) ProcessOption {
	return func(o *processOptions) { o.onStop = h }
}

// Stage is a process with its types erased so that stages of different
// types can be composed. Every SerialProcess is a Stage.
type Stage interface {
	Name() string
	Run(ctx context.Context) error

	inputType() reflect.Type
	outputType() reflect.Type
	bindInput(ch any) error
	bindOutput(ch any) error
	newOutput(capacity int, opts ...ChannelOption) (any, error)
	run(ctx context.Context, obs *observer) error
}

// SerialProcess reads from one channel and writes to another, one step at a
// time, until its input is complete. It then closes its output.
type SerialProcess[I, O any] struct {
	name string
	step StepFunc[I, O]
	opts processOptions

	mu      sync.Mutex
	in      *Channel[I]
	out     *Channel[O]
	running bool
}

// NewSerialProcess creates a process named name that repeats step.
func NewSerialProcess[I, O any](name string, step StepFunc[I, O], opts ...ProcessOption) *SerialProcess[I, O] {
	p := &SerialProcess[I, O]{name: name, step: step}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

func (p *SerialProcess[I, O]) Name() string { return p.name }

// SetInput binds the input channel. It fails once the process is running.
func (p *SerialProcess[I, O]) SetInput(ch *Channel[I]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.AlreadyRunning(p.name)
	}
	if ch == nil {
		return errors.InvalidInput("input", "channel is required")
	}
	p.in = ch
	return nil
}

// SetOutput binds the output channel. It fails once the process is running.
func (p *SerialProcess[I, O]) SetOutput(ch *Channel[O]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.AlreadyRunning(p.name)
	}
	if ch == nil {
		return errors.InvalidInput("output", "channel is required")
	}
	p.out = ch
	return nil
}

// Input returns the bound input channel, or nil.
func (p *SerialProcess[I, O]) Input() *Channel[I] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.in
}

// Output returns the bound output channel, or nil.
func (p *SerialProcess[I, O]) Output() *Channel[O] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out
}

// Run executes the process to completion. A process runs at most once.
func (p *SerialProcess[I, O]) Run(ctx context.Context) error {
	return p.run(ctx, nil)
}

func (p *SerialProcess[I, O]) run(ctx context.Context, obs *observer) (err error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.AlreadyRunning(p.name)
	}
	if p.in == nil || p.out == nil {
		p.mu.Unlock()
		return errors.NotBound(p.name)
	}
	p.running = true
	in, out := p.in, p.out
	p.mu.Unlock()

	ctx, sr := obs.begin(ctx, p.name)
	defer func() { sr.end(ctx, err) }()

	out.onStall = sr.stallHook(ctx)
	r := countingReader[I]{Reader: in, run: sr}
	w := countingWriter[O]{Writer: out, run: sr}

	if p.opts.onStart != nil {
		if err := p.opts.onStart(ctx); err != nil {
			out.Close()
			return fmt.Errorf("on start: %w", err)
		}
	}
	defer func() {
		if p.opts.onStop == nil {
			return
		}
		if stopErr := p.opts.onStop(ctx); stopErr != nil && err == nil {
			err = fmt.Errorf("on stop: %w", stopErr)
		}
	}()
	// Registered last so it runs first: downstream sees completion even
	// when a step fails or panics.
	defer out.Close()

	for !in.IsComplete() {
		begin := time.Now()
		if err := p.step(ctx, r, w); err != nil {
			return err
		}
		sr.onStep(ctx, time.Since(begin))
	}
	return nil
}

func (p *SerialProcess[I, O]) inputType() reflect.Type  { return reflect.TypeFor[I]() }
func (p *SerialProcess[I, O]) outputType() reflect.Type { return reflect.TypeFor[O]() }

func (p *SerialProcess[I, O]) bindInput(ch any) error {
	c, ok := ch.(*Channel[I])
	if !ok {
		return errors.InvalidConfig("stages", fmt.Sprintf(
			"stage %s reads %s but is fed %s", p.name, p.inputType(), channelType(ch)))
	}
	return p.SetInput(c)
}

func (p *SerialProcess[I, O]) bindOutput(ch any) error {
	c, ok := ch.(*Channel[O])
	if !ok {
		return errors.InvalidConfig("stages", fmt.Sprintf(
			"stage %s writes %s but its output is %s", p.name, p.outputType(), channelType(ch)))
	}
	return p.SetOutput(c)
}

func (p *SerialProcess[I, O]) newOutput(capacity int, opts ...ChannelOption) (any, error) {
	return NewChannel[O](capacity, opts...)
}

// channelType describes ch for configuration errors, e.g. "channel of string".
func channelType(ch any) string {
	t := reflect.TypeOf(ch)
	if t == nil {
		return "nothing"
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		if f, ok := t.Elem().FieldByName("items"); ok && f.Type.Kind() == reflect.Chan {
			return "channel of " + f.Type.Elem().String()
		}
	}
	return t.String()
}
