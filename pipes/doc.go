// Package pipes provides lazy, pull-based sequence transforms over graph
// elements and plain values.
//
// A Pipe reads from an upstream Iterator bound once with SetStarts and emits
// its own sequence through HasNext/Next. Each pipe caches at most one item
// ahead of its consumer, so a chain of pipes needs O(1) extra memory per pipe
// no matter how selective its filters are.
//
// # Building blocks
//
// Transforms and filters:
//
//   - Map, FlatMap, Identity: one-to-one and one-to-many transforms
//   - Filter, DuplicateFilter, RangeFilter: drop items
//   - PropertyFilter, LabelFilter: keep elements by property or edge label
//   - PropertyValue, Label: project elements to values
//   - VertexEdges, EdgeVertices: walk graph adjacency
//
// Fan-in over a sequence of sequences:
//
//   - ExhaustiveMerge: source after source, in order
//   - RoundRobinMerge: one item per live source in turn
//   - ReadyMerge: one goroutine per source, arrival order
//
// Fan-out with NewSplit: CopySplit, RoundRobinSplit and ReadySplit.
//
// # Usage
//
//	names, _ := pipes.Chain(pipes.VertexEdges(graph.Out, "knows"), pipes.EdgeVertices(graph.In))
//	p, _ := pipes.Chain(names, pipes.PropertyValue[graph.Vertex]("name"))
//	_ = p.SetStarts(pipes.FromSlice(g.Vertices()))
//	out, err := pipes.Collect(p)
//
// Pipes are not safe for concurrent use; ReadyMerge is the only type that
// runs goroutines, and it still hands items to a single consumer.
package pipes
