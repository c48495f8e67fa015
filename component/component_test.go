package component

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// fakeStage is a Component that appends its lifecycle calls to a shared log.
type fakeStage struct {
	name     string
	log      *[]string
	startErr error
	stopErr  error
	status   HealthStatus
	desc     *Description
}

func (f *fakeStage) Name() string { return f.name }

func (f *fakeStage) Start(context.Context) error {
	*f.log = append(*f.log, "start "+f.name)
	return f.startErr
}

func (f *fakeStage) Stop(context.Context) error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func (f *fakeStage) Health(context.Context) Health {
	status := f.status
	if status == "" {
		status = StatusHealthy
	}
	return Health{Name: f.name, Status: status}
}

// describedStage adds Describable to fakeStage.
type describedStage struct{ *fakeStage }

func (d describedStage) Describe() Description { return *d.desc }

func newRegistry(t *testing.T, log *[]string, stages ...*fakeStage) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, s := range stages {
		s.log = log
		if err := r.Register(s); err != nil {
			t.Fatalf("Register(%s): %v", s.name, err)
		}
	}
	return r
}

func TestRegistryLifecycleOrder(t *testing.T) {
	var log []string
	r := newRegistry(t, &log, &fakeStage{name: "source"}, &fakeStage{name: "walk"}, &fakeStage{name: "sink"})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{"start source", "start walk", "start sink", "stop sink", "stop walk", "stop source"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryStartFailureStopsOnlyStarted(t *testing.T) {
	var log []string
	r := newRegistry(t, &log,
		&fakeStage{name: "source"},
		&fakeStage{name: "walk", startErr: stderrors.New("bad wiring")},
		&fakeStage{name: "sink"},
	)

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{"start source", "start walk", "stop source"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryStopErrorsJoined(t *testing.T) {
	var log []string
	errA, errB := stderrors.New("a"), stderrors.New("b")
	r := newRegistry(t, &log, &fakeStage{name: "a", stopErr: errA}, &fakeStage{name: "b", stopErr: errB})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !stderrors.Is(err, errA) || !stderrors.Is(err, errB) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	var log []string
	r := newRegistry(t, &log, &fakeStage{name: "walk"})

	err := r.Register(&fakeStage{name: "walk", log: &log})
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	var log []string
	r := newRegistry(t, &log, &fakeStage{name: "walk"}, &fakeStage{name: "merge"})

	if got := r.Get("walk"); got == nil || got.Name() != "walk" {
		t.Errorf("expected walk, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"walk", "merge"}, names); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryHealthAll(t *testing.T) {
	var log []string
	r := newRegistry(t, &log, &fakeStage{name: "walk"}, &fakeStage{name: "merge", status: StatusDegraded})

	want := []Health{
		{Name: "walk", Status: StatusHealthy},
		{Name: "merge", Status: StatusDegraded},
	}
	if diff := cmp.Diff(want, r.HealthAll(context.Background())); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryStartsDescribable(t *testing.T) {
	var log []string
	s := &fakeStage{name: "walk", log: &log, desc: &Description{Type: "pipex", Details: "stages=3 capacity=16"}}
	r := NewRegistry()
	if err := r.Register(describedStage{s}); err != nil {
		t.Fatal(err)
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 {
		t.Errorf("expected describable component started, got %v", log)
	}
	var _ Describable = describedStage{s}
}
