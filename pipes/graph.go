package pipes

import (
	"reflect"

	"github.com/tinkerpop/blueprints-sub007/graph"
)

// FilterMode selects whether a membership filter keeps or drops matches.
type FilterMode int

const (
	// Include keeps items whose value is in the set.
	Include FilterMode = iota
	// Exclude keeps items whose value is not in the set.
	Exclude
)

func (m FilterMode) String() string {
	if m == Exclude {
		return "exclude"
	}
	return "include"
}

func (m FilterMode) keep(member bool) bool {
	if m == Exclude {
		return !member
	}
	return member
}

// PropertyFilter keeps elements by whether their key property is one of
// values. An absent property is never a member.
func PropertyFilter[E graph.Element](key string, mode FilterMode, values ...any) *FuncPipe[E, E] {
	return filter("property_filter", func(e E) bool {
		v, ok := e.Property(key)
		return mode.keep(ok && contains(values, v))
	})
}

// LabelFilter keeps edges by whether their label is one of labels.
func LabelFilter(mode FilterMode, labels ...string) *FuncPipe[graph.Edge, graph.Edge] {
	return filter("label_filter", func(e graph.Edge) bool {
		member := false
		for _, l := range labels {
			if e.Label() == l {
				member = true
				break
			}
		}
		return mode.keep(member)
	})
}

// PropertyValue emits the key property of each element, skipping elements
// that do not carry it.
func PropertyValue[E graph.Element](key string) *FuncPipe[E, any] {
	return NewFuncPipe("property_value", func(starts Iterator[E]) (any, bool, error) {
		for starts.HasNext() {
			e, err := starts.Next()
			if err != nil {
				return nil, false, err
			}
			if v, ok := e.Property(key); ok && v != nil {
				return v, true, nil
			}
		}
		return nil, false, nil
	})
}

// Label emits the label of each edge.
func Label() *FuncPipe[graph.Edge, string] {
	p := Map(func(e graph.Edge) (string, error) { return e.Label(), nil })
	p.name = "label"
	return p
}

// VertexEdges emits the incident edges of each vertex in direction dir,
// restricted to labels when any are given. All edges of one vertex are
// emitted before the next vertex is pulled.
func VertexEdges(dir graph.Direction, labels ...string) *FuncPipe[graph.Vertex, graph.Edge] {
	return flatMap("vertex_edges_"+dir.String(), func(v graph.Vertex) (Iterator[graph.Edge], error) {
		return FromSlice(graph.Edges(v, dir, labels...)), nil
	})
}

// EdgeVertices emits the tail (Out) or head (In) vertex of each edge; Both
// emits the tail and then the head.
func EdgeVertices(dir graph.Direction) *FuncPipe[graph.Edge, graph.Vertex] {
	return flatMap("edge_vertices_"+dir.String(), func(e graph.Edge) (Iterator[graph.Vertex], error) {
		switch dir {
		case graph.Out:
			return FromSlice([]graph.Vertex{e.OutVertex()}), nil
		case graph.In:
			return FromSlice([]graph.Vertex{e.InVertex()}), nil
		default:
			return FromSlice([]graph.Vertex{e.OutVertex(), e.InVertex()}), nil
		}
	})
}

// contains compares with == where the dynamic types allow it.
func contains(values []any, v any) bool {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return false
	}
	for _, candidate := range values {
		if candidate != nil && reflect.TypeOf(candidate).Comparable() && candidate == v {
			return true
		}
	}
	return false
}
