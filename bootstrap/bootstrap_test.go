package bootstrap

import (
	"context"
	"errors"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tinkerpop/blueprints-sub007/component"
	"github.com/tinkerpop/blueprints-sub007/config"
	"github.com/tinkerpop/blueprints-sub007/logger"
)

// recorder is a component that records lifecycle calls into a shared log.
type recorder struct {
	name   string
	events *[]string
	mu     *sync.Mutex
	health component.HealthStatus
	err    error
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, r.name+":"+event)
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Start(context.Context) error {
	r.record("start")
	return r.err
}

func (r *recorder) Stop(context.Context) error {
	r.record("stop")
	return nil
}

func (r *recorder) Health(context.Context) component.Health {
	status := r.health
	if status == "" {
		status = component.StatusHealthy
	}
	return component.Health{Name: r.name, Status: status}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&config.Config{Name: "pipes-test"},
		WithLogger(logger.Nop()), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewAppAppliesDefaults(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "pipes-test" {
		t.Errorf("expected name pipes-test, got %q", app.Name)
	}
	if app.Cfg.Pipex.ChannelCapacity != config.DefaultChannelCapacity {
		t.Errorf("expected default capacity, got %d", app.Cfg.Pipex.ChannelCapacity)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("expected graceful timeout 1s, got %v", app.gracefulTimeout)
	}
}

func TestWithSignals(t *testing.T) {
	app, err := NewApp(&config.Config{Name: "pipes-test"},
		WithLogger(logger.Nop()), WithSignals(syscall.SIGHUP))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if len(app.signals) != 1 || app.signals[0] != syscall.SIGHUP {
		t.Errorf("expected only SIGHUP, got %v", app.signals)
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	if _, err := NewApp(&config.Config{Environment: "moon"}, WithLogger(logger.Nop())); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := NewApp(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRunTaskLifecycle(t *testing.T) {
	app := newTestApp(t)
	var events []string
	var mu sync.Mutex
	add := func(e string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	for _, name := range []string{"a", "b"} {
		if err := app.RegisterComponent(&recorder{name: name, events: &events, mu: &mu}); err != nil {
			t.Fatal(err)
		}
	}
	app.OnStart(func(context.Context) error { add("hook:start"); return nil })
	app.OnStop(func(context.Context) error { add("hook:stop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		add("task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"a:start", "b:start", "hook:start", "task", "hook:stop", "b:stop", "a:stop"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTaskReturnsTaskError(t *testing.T) {
	app := newTestApp(t)
	boom := errors.New("boom")
	if err := app.RunTask(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTaskStartFailure(t *testing.T) {
	app := newTestApp(t)
	var events []string
	var mu sync.Mutex
	_ = app.RegisterComponent(&recorder{name: "bad", events: &events, mu: &mu, err: errors.New("no")})

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "initialization failed") {
		t.Fatalf("expected initialization error, got %v", err)
	}
	if ran {
		t.Error("task must not run when a component fails to start")
	}
}

func TestRunTaskCancelledContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	var events []string
	var mu sync.Mutex
	_ = app.RegisterComponent(&recorder{name: "ok", events: &events, mu: &mu})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected ready, got %v", err)
	}

	_ = app.RegisterComponent(&recorder{name: "sick", events: &events, mu: &mu, health: component.StatusUnhealthy})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "sick=unhealthy") {
		t.Errorf("expected sick component reported, got %v", err)
	}
}
