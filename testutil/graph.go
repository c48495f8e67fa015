package testutil

import (
	"testing"

	"github.com/tinkerpop/blueprints-sub007/graph/memory"
)

// ToyGraph returns the classic six-vertex graph:
//
//	marko(1) -knows-> vadas(2), josh(4); -created-> lop(3)
//	josh(4)  -created-> ripple(5), lop(3)
//	peter(6) -created-> lop(3)
//
// Vertex and edge ids are ints; person vertices carry name and age,
// software vertices name and lang, edges a float64 weight.
func ToyGraph(t testing.TB) *memory.Graph {
	t.Helper()
	g := memory.New()

	vertices := []struct {
		id    int
		props map[string]any
	}{
		{1, map[string]any{"name": "marko", "age": 29}},
		{2, map[string]any{"name": "vadas", "age": 27}},
		{3, map[string]any{"name": "lop", "lang": "java"}},
		{4, map[string]any{"name": "josh", "age": 32}},
		{5, map[string]any{"name": "ripple", "lang": "java"}},
		{6, map[string]any{"name": "peter", "age": 35}},
	}
	for _, v := range vertices {
		if _, err := g.AddVertex(v.id, v.props); err != nil {
			t.Fatalf("toy graph vertex %d: %v", v.id, err)
		}
	}

	edges := []struct {
		id, out, in int
		label       string
		weight      float64
	}{
		{7, 1, 2, "knows", 0.5},
		{8, 1, 4, "knows", 1.0},
		{9, 1, 3, "created", 0.4},
		{10, 4, 5, "created", 1.0},
		{11, 4, 3, "created", 0.4},
		{12, 6, 3, "created", 0.2},
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e.id, e.out, e.in, e.label, map[string]any{"weight": e.weight}); err != nil {
			t.Fatalf("toy graph edge %d: %v", e.id, err)
		}
	}
	return g
}

// MustVertex returns the vertex with id or fails the test.
func MustVertex(t testing.TB, g *memory.Graph, id any) *memory.Vertex {
	t.Helper()
	v, ok := g.Vertex(id)
	if !ok {
		t.Fatalf("vertex %v not found", id)
	}
	return v
}
