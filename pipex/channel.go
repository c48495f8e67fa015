package pipex

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

// DefaultPollInterval is how often a blocked Write wakes up to count a stall.
const DefaultPollInterval = 100 * time.Millisecond

// ChannelOption configures a Channel.
type ChannelOption func(*channelOptions)

type channelOptions struct {
	pollInterval time.Duration
}

// WithChannelPollInterval sets the stall accounting interval.
func WithChannelPollInterval(d time.Duration) ChannelOption {
	return func(o *channelOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// Channel is a bounded, closable buffer with one writer and one reader.
// The underlying Go channel is never closed; Close signals completion
// through done so a late Write fails instead of panicking.
type Channel[T any] struct {
	items        chan T
	done         chan struct{}
	once         sync.Once
	closed       atomic.Bool
	pollInterval time.Duration
	stalls       atomic.Int64

	// onStall is set by the stage that writes to the channel before it starts.
	onStall func()
}

// NewChannel creates a channel holding at most capacity items.
func NewChannel[T any](capacity int, opts ...ChannelOption) (*Channel[T], error) {
	if capacity <= 0 {
		return nil, errors.InvalidConfig("capacity", "channel capacity must be positive")
	}
	o := channelOptions{pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return &Channel[T]{
		items:        make(chan T, capacity),
		done:         make(chan struct{}),
		pollInterval: o.pollInterval,
	}, nil
}

// Write appends v, blocking while the channel is full. Every poll interval
// spent blocked counts as one stall; stalls are retry points, not errors.
func (c *Channel[T]) Write(ctx context.Context, v T) error {
	if c.closed.Load() {
		return errors.ChannelClosed()
	}
	select {
	case c.items <- v:
		return nil
	default:
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case c.items <- v:
			return nil
		case <-c.done:
			return errors.ChannelClosed()
		case <-ctx.Done():
			return errors.Cancelled("channel write", ctx.Err())
		case <-ticker.C:
			c.stalls.Add(1)
			if c.onStall != nil {
				c.onStall()
			}
		}
	}
}

// Read removes the oldest item, blocking while the channel is empty and
// open. It returns ok=false once the channel is complete.
func (c *Channel[T]) Read(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case v := <-c.items:
		return v, true, nil
	default:
	}

	select {
	case v := <-c.items:
		return v, true, nil
	case <-c.done:
		// Items written before Close are already buffered.
		select {
		case v := <-c.items:
			return v, true, nil
		default:
			return zero, false, nil
		}
	case <-ctx.Done():
		return zero, false, errors.Cancelled("channel read", ctx.Err())
	}
}

// Close marks the end of the stream. It is idempotent.
func (c *Channel[T]) Close() {
	c.once.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

// IsOpen reports whether Close has not been called.
func (c *Channel[T]) IsOpen() bool { return !c.closed.Load() }

// IsComplete reports whether the channel is closed and drained.
func (c *Channel[T]) IsComplete() bool { return c.closed.Load() && len(c.items) == 0 }

// Len returns the number of buffered items.
func (c *Channel[T]) Len() int { return len(c.items) }

// Cap returns the capacity.
func (c *Channel[T]) Cap() int { return cap(c.items) }

// Stalls returns how many poll intervals writers spent blocked.
func (c *Channel[T]) Stalls() int64 { return c.stalls.Load() }

// Reader is the read side of a channel as seen by a step.
type Reader[T any] interface {
	Read(ctx context.Context) (T, bool, error)
	IsComplete() bool
}

// Writer is the write side of a channel as seen by a step.
type Writer[T any] interface {
	Write(ctx context.Context, v T) error
}
