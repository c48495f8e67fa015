package testutil

import (
	stderrors "errors"
	"testing"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// Iterator matches pipes.Iterator without importing it, so pipes' own
// tests can use these helpers.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// Drain reads it to the end and fails the test on any error.
func Drain[T any](t testing.TB, it Iterator[T]) []T {
	t.Helper()
	var out []T
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			t.Fatalf("unexpected error after %d items: %v", len(out), err)
		}
		out = append(out, v)
	}
	return out
}

// AssertExhausted checks that it reports no further items, keeps doing so
// and fails Next with an exhaustion error.
func AssertExhausted[T any](t testing.TB, it Iterator[T]) {
	t.Helper()
	if it.HasNext() || it.HasNext() {
		t.Fatal("expected HasNext() == false")
	}
	if _, err := it.Next(); !stderrors.Is(err, errors.ErrExhausted) {
		t.Fatalf("expected exhaustion error from Next, got %v", err)
	}
	if it.HasNext() {
		t.Fatal("expected exhaustion to be permanent")
	}
}
