package graph

import "fmt"

// Element is anything that carries properties.
type Element interface {
	// ID returns the element identifier.
	ID() any
	// Property returns the value stored under key, or false when absent.
	Property(key string) (any, bool)
	// PropertyKeys returns the keys with a value set.
	PropertyKeys() []string
}

// Vertex is an element with incident edges.
type Vertex interface {
	Element
	// OutEdges returns edges whose tail is this vertex. With labels, only
	// edges carrying one of them are returned.
	OutEdges(labels ...string) []Edge
	// InEdges returns edges whose head is this vertex, filtered like OutEdges.
	InEdges(labels ...string) []Edge
}

// Edge is a labeled element connecting a tail (out) vertex to a head (in) vertex.
type Edge interface {
	Element
	Label() string
	OutVertex() Vertex
	InVertex() Vertex
}

// Direction selects which side of an adjacency to follow.
type Direction int

const (
	Out Direction = iota
	In
	Both
)

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case In:
		return "in"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of Out, In or Both.
func (d Direction) Valid() bool {
	return d >= Out && d <= Both
}

// Opposite returns In for Out and Out for In; Both is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Out:
		return In
	case In:
		return Out
	default:
		return d
	}
}

// Edges returns the incident edges of v in direction d, out edges first for Both.
func Edges(v Vertex, d Direction, labels ...string) []Edge {
	switch d {
	case Out:
		return v.OutEdges(labels...)
	case In:
		return v.InEdges(labels...)
	default:
		out := v.OutEdges(labels...)
		in := v.InEdges(labels...)
		all := make([]Edge, 0, len(out)+len(in))
		all = append(all, out...)
		return append(all, in...)
	}
}
