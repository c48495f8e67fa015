package memory

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/graph"
)

func mustVertex(t *testing.T, g *Graph, id any, props map[string]any) *Vertex {
	t.Helper()
	v, err := g.AddVertex(id, props)
	if err != nil {
		t.Fatalf("AddVertex(%v): %v", id, err)
	}
	return v
}

func edgeIDs(edges []graph.Edge) []any {
	ids := make([]any, len(edges))
	for i, e := range edges {
		ids[i] = e.ID()
	}
	return ids
}

func TestAddVertexAndProperties(t *testing.T) {
	g := New()
	props := map[string]any{"name": "marko", "age": 29}
	v := mustVertex(t, g, 1, props)
	props["name"] = "mutated"

	name, ok := v.Property("name")
	if !ok || name != "marko" {
		t.Errorf("expected copied property marko, got %v", name)
	}
	if _, ok := v.Property("missing"); ok {
		t.Error("expected absent property")
	}
	if diff := cmp.Diff([]string{"age", "name"}, v.PropertyKeys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := v.SetProperty("lang", "go"); err != nil {
		t.Fatal(err)
	}
	if err := v.SetProperty("age", nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"lang", "name"}, v.PropertyKeys()); diff != "" {
		t.Errorf("keys after set mismatch (-want +got):\n%s", diff)
	}
	if old, ok := v.RemoveProperty("lang"); !ok || old != "go" {
		t.Errorf("expected removed go, got %v %v", old, ok)
	}
	if err := v.SetProperty("", 1); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty key, got %v", err)
	}
}

func TestAddVertexErrors(t *testing.T) {
	g := New()
	mustVertex(t, g, "a", nil)
	if _, err := g.AddVertex("a", nil); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if _, err := g.AddVertex(nil, nil); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := g.AddVertex([]any{1, 2}, nil); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for slice id, got %v", err)
	}
	if _, ok := g.Vertex(map[string]any{"a": 1}); ok {
		t.Error("lookup by map id should miss")
	}
}

func TestAddEdgeAndAdjacency(t *testing.T) {
	g := New()
	a := mustVertex(t, g, "a", nil)
	b := mustVertex(t, g, "b", nil)
	c := mustVertex(t, g, "c", nil)

	for _, e := range []struct {
		id      string
		out, in string
		label   string
	}{
		{"ab", "a", "b", "knows"},
		{"ac", "a", "c", "created"},
		{"cb", "c", "b", "knows"},
	} {
		if _, err := g.AddEdge(e.id, e.out, e.in, e.label, nil); err != nil {
			t.Fatalf("AddEdge(%s): %v", e.id, err)
		}
	}

	if diff := cmp.Diff([]any{"ab", "ac"}, edgeIDs(a.OutEdges())); diff != "" {
		t.Errorf("a out mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]any{"ac"}, edgeIDs(a.OutEdges("created"))); diff != "" {
		t.Errorf("a out created mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]any{"ab", "cb"}, edgeIDs(b.InEdges("knows", "other"))); diff != "" {
		t.Errorf("b in mismatch:\n%s", diff)
	}
	if len(c.OutEdges("missing")) != 0 {
		t.Error("expected no edges for unknown label")
	}
	if diff := cmp.Diff([]any{"cb", "ac"}, edgeIDs(graph.Edges(c, graph.Both))); diff != "" {
		t.Errorf("c both mismatch:\n%s", diff)
	}

	e, ok := g.Edge("ab")
	if !ok {
		t.Fatal("expected edge ab")
	}
	if e.Label() != "knows" || e.OutVertex().ID() != "a" || e.InVertex().ID() != "b" {
		t.Errorf("unexpected edge endpoints: %v", e)
	}
	if e.String() != "e[ab][a-knows->b]" {
		t.Errorf("unexpected String %q", e.String())
	}
	if a.String() != "v[a]" {
		t.Errorf("unexpected String %q", a.String())
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	mustVertex(t, g, 1, nil)
	mustVertex(t, g, 2, nil)

	tests := []struct {
		name  string
		id    any
		out   any
		in    any
		label string
		code  errors.ErrorCode
	}{
		{"missing out", "e1", 9, 2, "x", errors.ErrCodeNotFound},
		{"missing in", "e1", 1, 9, "x", errors.ErrCodeNotFound},
		{"empty label", "e1", 1, 2, "", errors.ErrCodeInvalidInput},
		{"nil id", nil, 1, 2, "x", errors.ErrCodeInvalidInput},
		{"slice id", []int{1}, 1, 2, "x", errors.ErrCodeInvalidInput},
		{"map out", "e1", map[string]any{}, 2, "x", errors.ErrCodeInvalidInput},
		{"slice in", "e1", 1, []any{2}, "x", errors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddEdge(tc.id, tc.out, tc.in, tc.label, nil)
			if !errors.HasCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}

	if _, err := g.AddEdge("dup", 1, 2, "x", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge("dup", 1, 2, "x", nil); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestVerticesEdgesInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []int{3, 1, 2} {
		mustVertex(t, g, id, nil)
	}
	var ids []any
	for _, v := range g.Vertices() {
		ids = append(ids, v.ID())
	}
	if diff := cmp.Diff([]any{3, 1, 2}, ids); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}
	if len(g.Edges()) != 0 {
		t.Error("expected no edges")
	}
	if _, ok := g.Vertex(42); ok {
		t.Error("expected missing vertex")
	}
}

func TestConcurrentReaders(t *testing.T) {
	g := New()
	hub := mustVertex(t, g, "hub", nil)
	for i := 0; i < 50; i++ {
		mustVertex(t, g, i, nil)
		if _, err := g.AddEdge(i+1000, "hub", i, "link", nil); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if n := len(hub.OutEdges("link")); n != 50 {
					t.Errorf("expected 50 edges, got %d", n)
					return
				}
				_, _ = hub.Property("name")
			}
		}()
	}
	wg.Wait()
}
