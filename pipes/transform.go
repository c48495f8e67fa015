package pipes

// Map emits fn(item) for every upstream item. An error from fn surfaces from
// Next and ends the pipe.
func Map[S, E any](fn func(S) (E, error)) *FuncPipe[S, E] {
	return NewFuncPipe("map", func(starts Iterator[S]) (E, bool, error) {
		var zero E
		if !starts.HasNext() {
			return zero, false, nil
		}
		s, err := starts.Next()
		if err != nil {
			return zero, false, err
		}
		e, err := fn(s)
		if err != nil {
			return zero, false, err
		}
		return e, true, nil
	})
}

// FlatMap expands every upstream item into the items of fn(item). The
// expansion of one item is drained before the next item is pulled; a nil
// iterator counts as empty.
func FlatMap[S, E any](fn func(S) (Iterator[E], error)) *FuncPipe[S, E] {
	return flatMap("flat_map", fn)
}

func flatMap[S, E any](name string, fn func(S) (Iterator[E], error)) *FuncPipe[S, E] {
	var current Iterator[E]
	return NewFuncPipe(name, func(starts Iterator[S]) (E, bool, error) {
		var zero E
		for {
			if current != nil && current.HasNext() {
				e, err := current.Next()
				if err != nil {
					return zero, false, err
				}
				return e, true, nil
			}
			current = nil
			if !starts.HasNext() {
				return zero, false, nil
			}
			s, err := starts.Next()
			if err != nil {
				return zero, false, err
			}
			if current, err = fn(s); err != nil {
				return zero, false, err
			}
		}
	})
}

// Identity emits its input unchanged.
func Identity[T any]() *FuncPipe[T, T] {
	return NewFuncPipe("identity", func(starts Iterator[T]) (T, bool, error) {
		var zero T
		if !starts.HasNext() {
			return zero, false, nil
		}
		v, err := starts.Next()
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	})
}
