package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tinkerpop/blueprints-sub007/logger"
)

// Bulkhead errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// WaitForever makes Acquire block until a slot frees or the context ends.
const WaitForever time.Duration = -1

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead in logs.
	Name string
	// MaxConcurrent is the number of slots. Values <= 0 mean 10.
	MaxConcurrent int
	// MaxWait is how long Acquire waits for a slot. 0 fails immediately.
	MaxWait time.Duration
	// OnReject is called when an acquire fails.
	OnReject func(name string)
}

// DefaultBulkheadConfig returns a bulkhead of 10 slots that fails fast.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{Name: name, MaxConcurrent: 10}
}

// Bulkhead limits how many tasks run at once. Pipex uses it to cap the
// number of stages a composition runs concurrently.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
	log    *logger.Logger
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
		log:    logger.Get("resilience"),
	}
}

// Acquire takes a slot and returns the function that gives it back. The
// release function is safe to call more than once.
func (b *Bulkhead) Acquire(ctx context.Context) (release func(), err error) {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { <-b.sem }) }, nil
}

// Execute runs fn inline while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	release, err := b.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Go takes a slot synchronously and then runs fn on its own goroutine,
// releasing the slot when fn returns. If no slot is available fn never runs.
func (b *Bulkhead) Go(ctx context.Context, fn func()) error {
	release, err := b.Acquire(ctx)
	if err != nil {
		return err
	}
	go func() {
		defer release()
		fn()
	}()
	return nil
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}
	if b.config.MaxWait == 0 {
		return ErrBulkheadFull
	}

	b.log.Debug("waiting for slot", logger.Fields(
		logger.FieldComponent, b.config.Name,
		logger.FieldCapacity, b.config.MaxConcurrent,
	))

	var timeout <-chan time.Time
	if b.config.MaxWait > 0 {
		timer := time.NewTimer(b.config.MaxWait)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timeout:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int { return b.config.MaxConcurrent - len(b.sem) }

// InUse returns the number of taken slots.
func (b *Bulkhead) InUse() int { return len(b.sem) }

// MaxConcurrent returns the number of slots.
func (b *Bulkhead) MaxConcurrent() int { return b.config.MaxConcurrent }
