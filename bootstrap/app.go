package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinkerpop/blueprints-sub007/component"
	"github.com/tinkerpop/blueprints-sub007/config"
	"github.com/tinkerpop/blueprints-sub007/logger"
	"github.com/tinkerpop/blueprints-sub007/version"
)

// DefaultGracefulTimeout bounds shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// App represents the pipes binary with uniform lifecycle management.
type App struct {
	Name       string
	Version    string
	Cfg        *config.Config
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp creates an application from cfg. It applies defaults, validates
// the config and initializes the logger unless WithLogger is given.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config validation: config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         version.Short(),
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: DefaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if len(o.signals) > 0 {
		app.signals = o.signals
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging, cfg.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask starts the components, runs task and shuts down when it returns
// or when the process receives SIGINT or SIGTERM.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"environment", a.Cfg.Environment,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		a.stop()
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	a.Logger.Debug("Application ready", logger.DurationFields("startup", time.Since(start)))

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown stops the components. Use when managing your own lifecycle.
func (a *App) Shutdown() error {
	return a.stop()
}

// stop runs the OnStop hooks and stops all components within the graceful
// timeout.
func (a *App) stop() error {
	a.Logger.Debug("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	a.Logger.Debug("Application shutdown complete")
	return shutdownErr
}
