package pipes

import (
	"github.com/tinkerpop/blueprints-sub007/errors"
)

// Filter emits the upstream items for which keep returns true.
func Filter[T any](keep func(T) bool) *FuncPipe[T, T] {
	return filter("filter", keep)
}

func filter[T any](name string, keep func(T) bool) *FuncPipe[T, T] {
	return NewFuncPipe(name, func(starts Iterator[T]) (T, bool, error) {
		var zero T
		for starts.HasNext() {
			v, err := starts.Next()
			if err != nil {
				return zero, false, err
			}
			if keep(v) {
				return v, true, nil
			}
		}
		return zero, false, nil
	})
}

// DuplicateFilter emits each distinct item once, in first-seen order. It
// remembers every item it has emitted.
func DuplicateFilter[T comparable]() *FuncPipe[T, T] {
	seen := make(map[T]struct{})
	return filter("duplicate_filter", func(v T) bool {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
		return true
	})
}

// RangeFilter emits the items at positions low (inclusive) to high
// (exclusive) of its input. A negative high means no upper bound. Once high
// is reached the pipe is exhausted without pulling further.
func RangeFilter[T any](low, high int) (*FuncPipe[T, T], error) {
	if low < 0 {
		return nil, errors.InvalidConfig("low", "range start must not be negative")
	}
	if high >= 0 && high < low {
		return nil, errors.InvalidConfig("high", "range end must not precede its start")
	}
	pos := 0
	return NewFuncPipe("range_filter", func(starts Iterator[T]) (T, bool, error) {
		var zero T
		for (high < 0 || pos < high) && starts.HasNext() {
			v, err := starts.Next()
			if err != nil {
				return zero, false, err
			}
			pos++
			if pos > low {
				return v, true, nil
			}
		}
		return zero, false, nil
	}), nil
}
