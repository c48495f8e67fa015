package pipex

import (
	"context"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/resilience"
)

// Executor schedules stage tasks. Go returns once task has been handed off;
// an error means task will never run.
type Executor interface {
	Go(ctx context.Context, task func()) error
}

// GoExecutor runs every task on its own goroutine.
type GoExecutor struct{}

func (GoExecutor) Go(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return errors.Cancelled("schedule", err)
	}
	go task()
	return nil
}

// BoundedExecutor runs at most n tasks at once. Scheduling blocks until a
// slot frees, so a composition with more stages than slots only makes
// progress while the running stages can finish without their downstream.
type BoundedExecutor struct {
	slots    int
	bulkhead *resilience.Bulkhead
}

// NewBoundedExecutor creates an executor with n slots.
func NewBoundedExecutor(n int) (*BoundedExecutor, error) {
	if n <= 0 {
		return nil, errors.InvalidConfig("max_concurrent_stages", "executor needs at least one slot")
	}
	return &BoundedExecutor{
		slots: n,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "pipex",
			MaxConcurrent: n,
			MaxWait:       resilience.WaitForever,
		}),
	}, nil
}

func (e *BoundedExecutor) Go(ctx context.Context, task func()) error {
	if err := e.bulkhead.Go(ctx, task); err != nil {
		return errors.Cancelled("schedule", err)
	}
	return nil
}

// InUse returns the number of running tasks.
func (e *BoundedExecutor) InUse() int { return e.bulkhead.InUse() }

// Slots returns the number of tasks that may run at once.
func (e *BoundedExecutor) Slots() int { return e.slots }
