package testutil

import (
	"context"
	"testing"

	"github.com/tinkerpop/blueprints-sub007/component"
	"github.com/tinkerpop/blueprints-sub007/errors"
)

type sliceIter struct {
	items []int
}

func (s *sliceIter) HasNext() bool { return len(s.items) > 0 }

func (s *sliceIter) Next() (int, error) {
	if len(s.items) == 0 {
		return 0, errExhausted
	}
	v := s.items[0]
	s.items = s.items[1:]
	return v, nil
}

func TestToyGraph(t *testing.T) {
	g := ToyGraph(t)
	if len(g.Vertices()) != 6 || len(g.Edges()) != 6 {
		t.Fatalf("expected 6 vertices and 6 edges, got %d and %d", len(g.Vertices()), len(g.Edges()))
	}
	marko := MustVertex(t, g, 1)
	if n := len(marko.OutEdges("knows")); n != 2 {
		t.Errorf("expected marko to know 2 people, got %d", n)
	}
	lop := MustVertex(t, g, 3)
	if n := len(lop.InEdges("created")); n != 3 {
		t.Errorf("expected lop to have 3 creators, got %d", n)
	}
}

func TestDrainAndExhausted(t *testing.T) {
	it := &sliceIter{items: []int{1, 2, 3}}
	got := Drain[int](t, it)
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("unexpected drain result %v", got)
	}
	AssertExhausted[int](t, it)
}

type startStop struct {
	started, stopped bool
}

func (s *startStop) Name() string                { return "start-stop" }
func (s *startStop) Start(context.Context) error { s.started = true; return nil }
func (s *startStop) Stop(context.Context) error  { s.stopped = true; return nil }
func (s *startStop) Health(context.Context) component.Health {
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

func TestStartRegistersCleanup(t *testing.T) {
	c := &startStop{}
	t.Run("inner", func(t *testing.T) {
		T(t).Start(c)
		T(t).Healthy(c)
		if !c.started {
			t.Fatal("expected component started")
		}
	})
	if !c.stopped {
		t.Error("expected component stopped by cleanup")
	}
}

var errExhausted = errors.Exhausted("slice")
