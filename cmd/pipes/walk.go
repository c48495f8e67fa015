package main

import (
	"context"
	"fmt"
	"io"

	"github.com/tinkerpop/blueprints-sub007/config"
	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/graph"
	"github.com/tinkerpop/blueprints-sub007/observability"
	"github.com/tinkerpop/blueprints-sub007/pipes"
	"github.com/tinkerpop/blueprints-sub007/pipex"
)

// newWalk builds out-edges, in-vertex, name as one lazy pipeline bound to
// starts.
func newWalk(starts []graph.Vertex) (*pipes.Pipeline[graph.Vertex, string], error) {
	hop, err := pipes.Chain(pipes.VertexEdges(graph.Out), pipes.EdgeVertices(graph.In))
	if err != nil {
		return nil, err
	}
	p, err := pipes.Chain(hop, pipes.PropertyValue[graph.Vertex]("name"))
	if err != nil {
		return nil, err
	}
	if err := p.SetStarts(pipes.FromSlice(starts)); err != nil {
		return nil, err
	}
	return p, nil
}

// walkPipeline runs the walk over every start in order.
func walkPipeline(starts []graph.Vertex, w io.Writer) error {
	p, err := newWalk(starts)
	if err != nil {
		return err
	}
	return printAll[string](p, w)
}

// walkMerged runs one walk per start vertex and prints names as the walks
// produce them. Names of a single start keep their order.
func walkMerged(ctx context.Context, starts []graph.Vertex, cfg config.MergeConfig, w io.Writer) error {
	walks := make([]pipes.Iterator[string], 0, len(starts))
	for _, v := range starts {
		p, err := newWalk([]graph.Vertex{v})
		if err != nil {
			return err
		}
		walks = append(walks, p)
	}

	m := pipes.ReadyMerge[string](ctx, pipes.WithQueueSize(cfg.QueueSize))
	defer func() {
		_ = m.Close()
		m.Wait()
	}()
	if err := m.SetStarts(pipes.FromSlice(walks)); err != nil {
		return err
	}
	return printAll[string](m, w)
}

func printAll[T any](it pipes.Iterator[T], w io.Writer) error {
	for v, err := range pipes.All(it) {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, v)
	}
	return nil
}

// pipexWalk is the same walk as a three stage composition.
type pipexWalk struct {
	in   *pipex.Channel[graph.Vertex]
	out  *pipex.Channel[string]
	comp *pipex.SerialComposition[graph.Vertex, string]
}

// newPipexWalk builds the walk composition. A bounded executor must have a
// slot for every stage: the walk streams, so a stage left unscheduled never
// lets its upstream finish.
func newPipexWalk(cfg config.PipexConfig, metrics *observability.StageMetrics) (*pipexWalk, error) {
	stages := []pipex.Stage{
		pipex.PipeProcess[graph.Vertex, graph.Edge]("out_edges", pipes.VertexEdges(graph.Out)),
		pipex.MapProcess("in_vertex", func(_ context.Context, e graph.Edge) (graph.Vertex, error) {
			return e.InVertex(), nil
		}),
		pipex.ExpandProcess("name", func(_ context.Context, v graph.Vertex) ([]string, error) {
			name, ok := v.Property("name")
			if !ok || name == nil {
				return nil, nil
			}
			return []string{fmt.Sprint(name)}, nil
		}),
	}

	in, err := pipex.NewChannel[graph.Vertex](cfg.ChannelCapacity, pipex.WithChannelPollInterval(cfg.PollInterval))
	if err != nil {
		return nil, err
	}
	out, err := pipex.NewChannel[string](cfg.ChannelCapacity, pipex.WithChannelPollInterval(cfg.PollInterval))
	if err != nil {
		return nil, err
	}

	opts := []pipex.Option{
		pipex.WithName("walk"),
		pipex.WithMetrics(metrics),
		pipex.WithPollInterval(cfg.PollInterval),
	}
	if cfg.MaxConcurrentStages > 0 {
		exec, err := pipex.NewBoundedExecutor(cfg.MaxConcurrentStages)
		if err != nil {
			return nil, err
		}
		if exec.Slots() < len(stages) {
			return nil, errors.InvalidConfig("max_concurrent_stages", fmt.Sprintf(
				"walk runs %d stages concurrently, got %d slots", len(stages), exec.Slots()))
		}
		opts = append(opts, pipex.WithExecutor(exec))
	}

	comp, err := pipex.NewSerialComposition(cfg.ChannelCapacity, in, out, stages, opts...)
	if err != nil {
		return nil, err
	}
	return &pipexWalk{in: in, out: out, comp: comp}, nil
}

// run feeds starts into the started composition, prints every name it
// produces and returns the composition's result.
func (w *pipexWalk) run(ctx context.Context, starts []graph.Vertex, dst io.Writer) error {
	go func() {
		defer w.in.Close()
		for _, v := range starts {
			if err := w.in.Write(ctx, v); err != nil {
				return
			}
		}
	}()
	for {
		name, ok, err := w.out.Read(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fmt.Fprintln(dst, name)
	}
	return w.comp.Wait()
}
