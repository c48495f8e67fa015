package pipes

import (
	"fmt"
	"reflect"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// Pipeline is a fixed chain of pipes that behaves as a single Pipe. It emits
// exactly what binding each pipe to the previous one by hand would emit.
type Pipeline[S, E any] struct {
	head  interface{ SetStarts(Iterator[S]) error }
	tail  Iterator[E]
	bound bool
	size  int
}

// Chain connects b to the output of a. Pipelines are pipes, so chains nest:
//
//	p, _ := Chain(VertexEdges(graph.Out), EdgeVertices(graph.In))
//	q, _ := Chain(p, PropertyValue[graph.Vertex]("name"))
func Chain[S, M, E any](a Pipe[S, M], b Pipe[M, E]) (*Pipeline[S, E], error) {
	if a == nil || b == nil {
		return nil, errors.InvalidConfig("pipes", "pipeline requires two pipes")
	}
	if isBound(a) {
		return nil, errors.AlreadyBound("first pipe of pipeline")
	}
	if samePipe(a, b) {
		return nil, errors.InvalidConfig("pipes", "a pipe cannot read from itself")
	}
	if err := b.SetStarts(a); err != nil {
		return nil, err
	}
	return &Pipeline[S, E]{head: a, tail: b, size: sizeOf(a) + sizeOf(b)}, nil
}

// NewPipeline chains pipes of a single item type in order. Every pipe is
// checked before any is bound, so a rejected pipeline leaves its pipes
// untouched.
func NewPipeline[T any](pipes ...Pipe[T, T]) (*Pipeline[T, T], error) {
	if len(pipes) == 0 {
		return nil, errors.InvalidConfig("pipes", "pipeline requires at least one pipe")
	}
	for i, p := range pipes {
		if p == nil {
			return nil, errors.InvalidConfig("pipes", fmt.Sprintf("pipe %d is nil", i))
		}
		if isBound(p) {
			return nil, errors.AlreadyBound(fmt.Sprintf("pipe %d of pipeline", i))
		}
		for j := range i {
			if samePipe(pipes[j], p) {
				return nil, errors.InvalidConfig("pipes", fmt.Sprintf("pipe %d is pipe %d again", i, j))
			}
		}
	}
	size := sizeOf(pipes[0])
	for i := 1; i < len(pipes); i++ {
		if err := pipes[i].SetStarts(pipes[i-1]); err != nil {
			return nil, err
		}
		size += sizeOf(pipes[i])
	}
	return &Pipeline[T, T]{head: pipes[0], tail: pipes[len(pipes)-1], size: size}, nil
}

// SetStarts binds the first pipe of the chain.
func (p *Pipeline[S, E]) SetStarts(starts Iterator[S]) error {
	if p.bound {
		return errors.AlreadyBound("pipeline")
	}
	if err := p.head.SetStarts(starts); err != nil {
		return err
	}
	p.bound = true
	return nil
}

func (p *Pipeline[S, E]) IsBound() bool    { return p.bound }
func (p *Pipeline[S, E]) HasNext() bool    { return p.tail.HasNext() }
func (p *Pipeline[S, E]) Next() (E, error) { return p.tail.Next() }
func (p *Pipeline[S, E]) Remove() error    { return errors.Unsupported("pipeline.remove") }

// Len returns the number of primitive pipes in the chain.
func (p *Pipeline[S, E]) Len() int { return p.size }

func (p *Pipeline[S, E]) pipeCount() int { return p.size }

func sizeOf(v any) int {
	if c, ok := v.(interface{ pipeCount() int }); ok {
		return c.pipeCount()
	}
	return 1
}

// samePipe reports whether a and b are the same pipe instance.
func samePipe(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}
