package pipex

import (
	"context"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/pipes"
)

// MapProcess writes fn(v) for every input v.
func MapProcess[I, O any](name string, fn func(context.Context, I) (O, error), opts ...ProcessOption) *SerialProcess[I, O] {
	return NewSerialProcess[I, O](name, func(ctx context.Context, in Reader[I], out Writer[O]) error {
		v, ok, err := in.Read(ctx)
		if err != nil || !ok {
			return err
		}
		o, err := fn(ctx, v)
		if err != nil {
			return err
		}
		return out.Write(ctx, o)
	}, opts...)
}

// FilterProcess passes on the inputs for which keep returns true.
func FilterProcess[T any](name string, keep func(T) bool, opts ...ProcessOption) *SerialProcess[T, T] {
	return NewSerialProcess[T, T](name, func(ctx context.Context, in Reader[T], out Writer[T]) error {
		v, ok, err := in.Read(ctx)
		if err != nil || !ok || !keep(v) {
			return err
		}
		return out.Write(ctx, v)
	}, opts...)
}

// ExpandProcess writes every item fn returns for an input, in order. An
// input may expand to nothing.
func ExpandProcess[I, O any](name string, fn func(context.Context, I) ([]O, error), opts ...ProcessOption) *SerialProcess[I, O] {
	return NewSerialProcess[I, O](name, func(ctx context.Context, in Reader[I], out Writer[O]) error {
		v, ok, err := in.Read(ctx)
		if err != nil || !ok {
			return err
		}
		items, err := fn(ctx, v)
		if err != nil {
			return err
		}
		for _, o := range items {
			if err := out.Write(ctx, o); err != nil {
				return err
			}
		}
		return nil
	}, opts...)
}

// IdentityProcess copies its input to its output.
func IdentityProcess[T any](name string, opts ...ProcessOption) *SerialProcess[T, T] {
	return NewSerialProcess[T, T](name, func(ctx context.Context, in Reader[T], out Writer[T]) error {
		v, ok, err := in.Read(ctx)
		if err != nil || !ok {
			return err
		}
		return out.Write(ctx, v)
	}, opts...)
}

// PipeProcess runs a lazy pipe inside a stage. The pipe is bound to the
// input channel and drained in a single step; input the pipe leaves unread
// is discarded so the upstream stage can finish.
func PipeProcess[I, O any](name string, pipe pipes.Pipe[I, O], opts ...ProcessOption) *SerialProcess[I, O] {
	return NewSerialProcess[I, O](name, func(ctx context.Context, in Reader[I], out Writer[O]) error {
		src := &channelIterator[I]{ctx: ctx, in: in}
		if err := pipe.SetStarts(src); err != nil {
			return err
		}
		for pipe.HasNext() {
			v, err := pipe.Next()
			if err != nil {
				return err
			}
			if err := out.Write(ctx, v); err != nil {
				return err
			}
		}
		if src.err != nil {
			return src.err
		}
		for {
			_, ok, err := in.Read(ctx)
			if err != nil || !ok {
				return err
			}
		}
	}, opts...)
}

// channelIterator adapts a Reader to pipes.Iterator.
type channelIterator[T any] struct {
	ctx  context.Context
	in   Reader[T]
	next T
	has  bool
	done bool
	err  error
}

func (it *channelIterator[T]) HasNext() bool {
	if it.has {
		return true
	}
	if it.done {
		return false
	}
	v, ok, err := it.in.Read(it.ctx)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if !ok {
		it.done = true
		return false
	}
	it.next, it.has = v, true
	return true
}

func (it *channelIterator[T]) Next() (T, error) {
	if !it.HasNext() {
		var zero T
		if it.err != nil {
			return zero, it.err
		}
		return zero, errors.Exhausted("channel")
	}
	v := it.next
	var zero T
	it.next, it.has = zero, false
	return v, nil
}
