package testutil

import (
	"context"
	"testing"

	"github.com/tinkerpop/blueprints-sub007/component"
)

// THelper provides testing.T integration for component lifecycles.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.T to provide helper methods.
//
// Example:
//
//	func TestComposition(t *testing.T) {
//	    testutil.T(t).Start(composition)
//	    // composition is stopped when the test ends
//	}
func T(t testing.TB) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets the context passed to Start and Stop.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Start starts c and registers its Stop with t.Cleanup.
func (h *THelper) Start(c component.Component) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}

	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Healthy fails the test unless c reports healthy.
func (h *THelper) Healthy(c component.Component) {
	h.t.Helper()
	if health := c.Health(h.ctx); health.Status != component.StatusHealthy {
		h.t.Fatalf("component %s is %s: %s", c.Name(), health.Status, health.Message)
	}
}
