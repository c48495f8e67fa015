package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed unit of work.
// Long-running pipex compositions implement this interface.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start starts the component. It must not block until the work is done.
	Start(ctx context.Context) error

	// Stop shuts the component down and waits for it to finish.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for startup logging.
type Description struct {
	// Name is the human-readable display name. If empty, Name() is used.
	Name string
	// Type categorizes the component, e.g. "pipex".
	Type string
	// Details is a one-liner such as "stages=3 capacity=16".
	Details string
}

// Describable is optionally implemented by components that report how they
// are configured. The registry logs the description on start.
type Describable interface {
	Describe() Description
}
