package pipes

import (
	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/logger"
)

// Iterator is a lazy sequence. HasNext may be called any number of times
// between calls to Next without consuming anything. Next on an exhausted
// iterator returns an error matching errors.ErrExhausted.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// Pipe is an Iterator over E that reads its input from an Iterator over S.
type Pipe[S, E any] interface {
	Iterator[E]
	// SetStarts binds the upstream sequence. It may be called once.
	SetStarts(starts Iterator[S]) error
	// Remove always fails: pipes are read-only views.
	Remove() error
}

// PullFunc produces the next output of a pipe by pulling from starts as
// often as needed. It returns ok=false once no further output exists.
type PullFunc[S, E any] func(starts Iterator[S]) (E, bool, error)

type state uint8

const (
	notStarted state = iota
	buffered
	exhausted
	failed
)

func (s state) String() string {
	switch s {
	case notStarted:
		return "not_started"
	case buffered:
		return "buffered"
	case exhausted:
		return "exhausted"
	case failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FuncPipe is a Pipe driven by a PullFunc. It owns the one-slot lookahead
// and the monotonic exhaustion state every pipe in this package shares.
type FuncPipe[S, E any] struct {
	name   string
	pull   PullFunc[S, E]
	starts Iterator[S]
	state  state
	next   E
	err    error
}

// NewFuncPipe creates a pipe named name whose items are produced by pull.
func NewFuncPipe[S, E any](name string, pull PullFunc[S, E]) *FuncPipe[S, E] {
	return &FuncPipe[S, E]{name: name, pull: pull}
}

// Name returns the name given at construction.
func (p *FuncPipe[S, E]) Name() string { return p.name }

// SetStarts binds starts as the upstream sequence.
func (p *FuncPipe[S, E]) SetStarts(starts Iterator[S]) error {
	if p.starts != nil {
		return errors.AlreadyBound(p.name)
	}
	if starts == nil {
		return errors.InvalidInput("starts", "upstream iterator is required")
	}
	p.starts = starts
	logger.Get("pipes").Debug("pipe bound", logger.Fields(logger.FieldPipe, p.name))
	return nil
}

// IsBound reports whether SetStarts has been called.
func (p *FuncPipe[S, E]) IsBound() bool { return p.starts != nil }

// HasNext reports whether Next will return an item or a pending error.
func (p *FuncPipe[S, E]) HasNext() bool {
	if p.starts == nil {
		return false
	}
	p.advance()
	return p.state == buffered || p.state == failed
}

// Next returns the buffered item, pulling upstream first if needed.
func (p *FuncPipe[S, E]) Next() (E, error) {
	var zero E
	if p.starts == nil {
		return zero, errors.NotBound(p.name)
	}
	p.advance()
	switch p.state {
	case buffered:
		v := p.next
		p.next = zero
		p.state = notStarted
		return v, nil
	case failed:
		err := p.err
		p.err = nil
		p.state = exhausted
		return zero, err
	default:
		return zero, errors.Exhausted(p.name)
	}
}

// Remove is not supported.
func (p *FuncPipe[S, E]) Remove() error {
	return errors.Unsupported(p.name + ".remove")
}

func (p *FuncPipe[S, E]) String() string { return p.name + "[" + p.state.String() + "]" }

// advance fills the lookahead slot. It is the only place state changes
// away from notStarted.
func (p *FuncPipe[S, E]) advance() {
	if p.state != notStarted {
		return
	}
	v, ok, err := p.pull(p.starts)
	switch {
	case err != nil:
		p.state, p.err = failed, err
		logger.Get("pipes").Debug("pipe failed", logger.MergeWithError(logger.Fields(logger.FieldPipe, p.name), err))
	case !ok:
		p.state = exhausted
		logger.Get("pipes").Debug("pipe exhausted", logger.Fields(logger.FieldPipe, p.name))
	default:
		p.state, p.next = buffered, v
	}
}

type binder interface {
	IsBound() bool
}

func isBound(v any) bool {
	b, ok := v.(binder)
	return ok && b.IsBound()
}
