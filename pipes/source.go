package pipes

import (
	"iter"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// FromSlice returns an Iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}

// Empty returns an exhausted Iterator.
func Empty[T any]() Iterator[T] {
	return &sliceIterator[T]{}
}

type sliceIterator[T any] struct {
	items []T
	index int
}

func (it *sliceIterator[T]) HasNext() bool { return it.index < len(it.items) }

func (it *sliceIterator[T]) Next() (T, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, errors.Exhausted("slice")
	}
	v := it.items[it.index]
	it.index++
	return v, nil
}

// FromSeq adapts a range-over-func sequence. The sequence is driven by
// iter.Pull and released once it is exhausted; callers abandoning an
// unfinished sequence should call the returned stop function.
func FromSeq[T any](seq iter.Seq[T]) (Iterator[T], func()) {
	next, stop := iter.Pull(seq)
	return &seqIterator[T]{next: next, stop: stop}, stop
}

type seqIterator[T any] struct {
	next   func() (T, bool)
	stop   func()
	peeked bool
	value  T
	done   bool
}

func (it *seqIterator[T]) HasNext() bool {
	if it.peeked {
		return true
	}
	if it.done {
		return false
	}
	v, ok := it.next()
	if !ok {
		it.done = true
		it.stop()
		return false
	}
	it.value, it.peeked = v, true
	return true
}

func (it *seqIterator[T]) Next() (T, error) {
	var zero T
	if !it.HasNext() {
		return zero, errors.Exhausted("sequence")
	}
	v := it.value
	it.value, it.peeked = zero, false
	return v, nil
}

// Collect drains it into a slice. Items read before an error are returned
// with the error.
func Collect[T any](it Iterator[T]) ([]T, error) {
	var out []T
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Count drains it and returns the number of items read.
func Count[T any](it Iterator[T]) (int, error) {
	n := 0
	for it.HasNext() {
		if _, err := it.Next(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// All adapts it for range loops. An error is yielded once with a zero item
// and ends the loop.
//
//	for v, err := range pipes.All(p) { ... }
func All[T any](it Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.HasNext() {
			v, err := it.Next()
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}
