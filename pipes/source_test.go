package pipes

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/testutil"
)

func TestFromSlice(t *testing.T) {
	it := FromSlice([]string{"a", "b"})
	if diff := cmp.Diff([]string{"a", "b"}, testutil.Drain[string](t, it)); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}
	testutil.AssertExhausted[string](t, it)
	testutil.AssertExhausted[int](t, Empty[int]())
}

func TestFromSeq(t *testing.T) {
	it, stop := FromSeq(slices.Values([]int{3, 1, 2}))
	defer stop()

	if !it.HasNext() || !it.HasNext() {
		t.Fatal("expected items")
	}
	if diff := cmp.Diff([]int{3, 1, 2}, testutil.Drain[int](t, it)); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}
	testutil.AssertExhausted[int](t, it)
}

func TestCollectAndCount(t *testing.T) {
	n, err := Count(FromSlice([]int{1, 2, 3}))
	if err != nil || n != 3 {
		t.Errorf("expected 3, got %d %v", n, err)
	}

	boom := stderrors.New("boom")
	got, err := Collect[int](&failingIterator[int]{items: []int{1, 2}, err: boom})
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected items read before the error, got %v", got)
	}
	n, err = Count[int](&failingIterator[int]{items: []int{1}, err: boom})
	if n != 1 || !stderrors.Is(err, boom) {
		t.Errorf("expected 1 and boom, got %d %v", n, err)
	}
}

func TestAll(t *testing.T) {
	var got []int
	for v, err := range All(FromSlice([]int{1, 2, 3, 4})) {
		if err != nil {
			t.Fatal(err)
		}
		if v == 3 {
			break
		}
		got = append(got, v)
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}

	var errs int
	for _, err := range All[int](&failingIterator[int]{items: []int{1}, err: errors.Internal(nil)}) {
		if err != nil {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("expected a single error, got %d", errs)
	}
}
