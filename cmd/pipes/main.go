// Command pipes walks a JSON graph from a set of start vertices, following
// out-edges to their in-vertices and printing each reached vertex's name.
// The walk runs as a lazy pipeline, as one pipeline per start vertex
// merged as results arrive, or as a concurrent pipex composition.
//
//	pipes -graph graph.json -start 1 -mode pipex
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/tinkerpop/blueprints-sub007/bootstrap"
	"github.com/tinkerpop/blueprints-sub007/config"
	"github.com/tinkerpop/blueprints-sub007/graph"
	"github.com/tinkerpop/blueprints-sub007/graph/graphson"
	"github.com/tinkerpop/blueprints-sub007/graph/memory"
	"github.com/tinkerpop/blueprints-sub007/logger"
	"github.com/tinkerpop/blueprints-sub007/observability"
	"github.com/tinkerpop/blueprints-sub007/version"
)

const (
	modePipeline = "pipeline"
	modeMerge    = "merge"
	modePipex    = "pipex"
)

type flags struct {
	config string
	graph  string
	start  string
	mode   string
	print  bool
}

func main() {
	var f flags
	pflag.StringVarP(&f.config, "config", "c", "", "config file (default: search ./cmd/pipes/config.yml, ./config.yml)")
	pflag.StringVarP(&f.graph, "graph", "g", "", "JSON graph file, overrides graph.file")
	pflag.StringVarP(&f.start, "start", "s", "", "start vertex id (default: every vertex)")
	pflag.StringVarP(&f.mode, "mode", "m", modePipeline, "execution mode: pipeline, merge or pipex")
	pflag.BoolVarP(&f.print, "version", "v", false, "print the version and exit")
	pflag.Parse()

	if f.print {
		fmt.Println("pipes", version.Short())
		return
	}

	if err := run(context.Background(), f); err != nil {
		fmt.Fprintln(os.Stderr, "pipes:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	switch f.mode {
	case modePipeline, modeMerge, modePipex:
	default:
		return fmt.Errorf("unknown mode %q", f.mode)
	}

	opts := []config.LoaderOption{config.WithEnvPrefix("pipes")}
	if f.config != "" {
		opts = append(opts, config.WithConfigFile(f.config))
	}
	cfg, err := config.Load("pipes", opts...)
	if err != nil {
		return err
	}
	if f.graph != "" {
		cfg.Graph.File = f.graph
	}
	if cfg.Graph.File == "" {
		return fmt.Errorf("no graph file: pass -graph or set graph.file")
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := logger.Get("pipes")

	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	g, err := graphson.ReadFile(cfg.Graph.File)
	if err != nil {
		return err
	}
	starts, err := startVertices(g, f.start)
	if err != nil {
		return err
	}
	log.Debug("walk prepared", logger.Fields("mode", f.mode, "starts", len(starts)))

	switch f.mode {
	case modePipeline:
		return app.RunTask(ctx, func(context.Context) error {
			return walkPipeline(starts, os.Stdout)
		})
	case modeMerge:
		return app.RunTask(ctx, func(ctx context.Context) error {
			return walkMerged(ctx, starts, cfg.Merge, os.Stdout)
		})
	}

	w, err := newPipexWalk(cfg.Pipex, metrics)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(w.comp); err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		return w.run(ctx, starts, os.Stdout)
	})
}

// setupTelemetry installs the OTLP exporters the config enables and
// registers their shutdown with app.
func setupTelemetry(ctx context.Context, app *bootstrap.App) (*observability.StageMetrics, error) {
	o := app.Cfg.Observability
	if o.TracingEnabled {
		tcfg := observability.DefaultTracerConfig(app.Name)
		tcfg.ServiceVersion = version.Short()
		tcfg.Environment = app.Cfg.Environment
		tcfg.Endpoint = o.Endpoint
		tcfg.Insecure = o.Insecure
		tcfg.SampleRate = o.SampleRate
		tp, err := observability.InitTracer(ctx, tcfg)
		if err != nil {
			return nil, err
		}
		app.OnStop(tp.Shutdown)
	}
	if !o.MetricsEnabled {
		return nil, nil
	}
	mcfg := observability.DefaultMeterConfig(app.Name)
	mcfg.ServiceVersion = version.Short()
	mcfg.Environment = app.Cfg.Environment
	mcfg.Endpoint = o.Endpoint
	mcfg.Insecure = o.Insecure
	mp, err := observability.InitMeter(ctx, mcfg)
	if err != nil {
		return nil, err
	}
	app.OnStop(mp.Shutdown)
	return observability.NewStageMetrics(observability.Meter("pipex"))
}

// startVertices resolves id to a single vertex, or returns every vertex when
// id is empty. Numeric ids are looked up as int64, the type graphson uses.
func startVertices(g *memory.Graph, id string) ([]graph.Vertex, error) {
	if id == "" {
		return g.Vertices(), nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		if v, ok := g.Vertex(n); ok {
			return []graph.Vertex{v}, nil
		}
	}
	if v, ok := g.Vertex(id); ok {
		return []graph.Vertex{v}, nil
	}
	return nil, fmt.Errorf("start vertex %s not found", id)
}
