// Package memory is an in-process property graph satisfying the graph
// capability contract. It is the reference data source for pipes and pipex
// and is safe for concurrent readers.
package memory

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/graph"
)

// Graph holds vertices and edges in insertion order.
type Graph struct {
	mu       sync.RWMutex
	vertices map[any]*Vertex
	edges    map[any]*Edge
	vOrder   []*Vertex
	eOrder   []*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[any]*Vertex),
		edges:    make(map[any]*Edge),
	}
}

// AddVertex adds a vertex with the given id and a copy of props.
func (g *Graph) AddVertex(id any, props map[string]any) (*Vertex, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.vertices[id]; exists {
		return nil, errors.AlreadyExists("vertex", id)
	}
	v := &Vertex{element: newElement(g, id, props)}
	g.vertices[id] = v
	g.vOrder = append(g.vOrder, v)
	return v, nil
}

// AddEdge adds an edge labeled label from the vertex outID to the vertex inID.
func (g *Graph) AddEdge(id, outID, inID any, label string, props map[string]any) (*Edge, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	if err := checkID("out", outID); err != nil {
		return nil, err
	}
	if err := checkID("in", inID); err != nil {
		return nil, err
	}
	if label == "" {
		return nil, errors.InvalidInput("label", "edge label is required")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.edges[id]; exists {
		return nil, errors.AlreadyExists("edge", id)
	}
	out, ok := g.vertices[outID]
	if !ok {
		return nil, errors.NotFound("vertex", outID)
	}
	in, ok := g.vertices[inID]
	if !ok {
		return nil, errors.NotFound("vertex", inID)
	}
	e := &Edge{element: newElement(g, id, props), label: label, out: out, in: in}
	g.edges[id] = e
	g.eOrder = append(g.eOrder, e)
	out.outE = append(out.outE, e)
	in.inE = append(in.inE, e)
	return e, nil
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id any) (*Vertex, bool) {
	if checkID("id", id) != nil {
		return nil, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[id]
	return v, ok
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id any) (*Edge, bool) {
	if checkID("id", id) != nil {
		return nil, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[id]
	return e, ok
}

// Vertices returns every vertex in insertion order.
func (g *Graph) Vertices() []graph.Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graph.Vertex, len(g.vOrder))
	for i, v := range g.vOrder {
		out[i] = v
	}
	return out
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []graph.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]graph.Edge, len(g.eOrder))
	for i, e := range g.eOrder {
		out[i] = e
	}
	return out
}

// element is the property storage shared by vertices and edges.
type element struct {
	g     *Graph
	id    any
	props map[string]any
}

func newElement(g *Graph, id any, props map[string]any) element {
	cp := make(map[string]any, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return element{g: g, id: id, props: cp}
}

func (e *element) ID() any { return e.id }

func (e *element) Property(key string) (any, bool) {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	v, ok := e.props[key]
	return v, ok
}

// PropertyKeys returns the keys sorted for stable output.
func (e *element) PropertyKeys() []string {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	keys := make([]string, 0, len(e.props))
	for k := range e.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetProperty stores value under key. A nil value removes the key, since
// absent and nil are the same thing to the contract.
func (e *element) SetProperty(key string, value any) error {
	if key == "" {
		return errors.InvalidInput("key", "property key is required")
	}
	e.g.mu.Lock()
	defer e.g.mu.Unlock()
	if value == nil {
		delete(e.props, key)
		return nil
	}
	e.props[key] = value
	return nil
}

// RemoveProperty deletes key and returns the previous value, if any.
func (e *element) RemoveProperty(key string) (any, bool) {
	e.g.mu.Lock()
	defer e.g.mu.Unlock()
	v, ok := e.props[key]
	delete(e.props, key)
	return v, ok
}

// Vertex is an in-memory vertex.
type Vertex struct {
	element
	outE []*Edge
	inE  []*Edge
}

// OutEdges returns outgoing edges, optionally restricted to labels.
func (v *Vertex) OutEdges(labels ...string) []graph.Edge {
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	return filterLabels(v.outE, labels)
}

// InEdges returns incoming edges, optionally restricted to labels.
func (v *Vertex) InEdges(labels ...string) []graph.Edge {
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	return filterLabels(v.inE, labels)
}

func (v *Vertex) String() string { return "v[" + formatID(v.id) + "]" }

// Edge is an in-memory edge.
type Edge struct {
	element
	label string
	out   *Vertex
	in    *Vertex
}

func (e *Edge) Label() string           { return e.label }
func (e *Edge) OutVertex() graph.Vertex { return e.out }
func (e *Edge) InVertex() graph.Vertex  { return e.in }

func (e *Edge) String() string {
	return "e[" + formatID(e.id) + "][" + formatID(e.out.id) + "-" + e.label + "->" + formatID(e.in.id) + "]"
}

func filterLabels(edges []*Edge, labels []string) []graph.Edge {
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if len(labels) == 0 || containsLabel(labels, e.label) {
			out = append(out, e)
		}
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// checkID rejects ids that cannot be used as map keys.
func checkID(field string, id any) error {
	if id == nil {
		return errors.InvalidInput(field, "element id is required")
	}
	if !reflect.TypeOf(id).Comparable() {
		return errors.InvalidInput(field, fmt.Sprintf("element id of type %T is not comparable", id))
	}
	return nil
}

func formatID(id any) string { return fmt.Sprint(id) }
