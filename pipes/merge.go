package pipes

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/logger"
)

// DefaultMergeQueueSize is the ReadyMerge queue capacity when none is set.
const DefaultMergeQueueSize = 64

// ExhaustiveMerge emits every item of the first upstream sequence, then of
// the second, and so on.
func ExhaustiveMerge[T any]() *FuncPipe[Iterator[T], T] {
	return flatMap("exhaustive_merge", func(it Iterator[T]) (Iterator[T], error) {
		return it, nil
	})
}

// RoundRobinMerge emits one item from each live upstream sequence in turn.
// A sequence found exhausted on its turn leaves the rotation and the next
// one takes its place, so the remaining order is unchanged. The outer
// sequence is drained on the first pull.
func RoundRobinMerge[T any]() *FuncPipe[Iterator[T], T] {
	var (
		sources []Iterator[T]
		loaded  bool
		idx     int
	)
	return NewFuncPipe("round_robin_merge", func(starts Iterator[Iterator[T]]) (T, bool, error) {
		var zero T
		if !loaded {
			all, err := Collect(starts)
			if err != nil {
				return zero, false, err
			}
			sources = slices.DeleteFunc(all, func(it Iterator[T]) bool { return it == nil })
			loaded = true
		}
		for len(sources) > 0 {
			if idx >= len(sources) {
				idx = 0
			}
			src := sources[idx]
			if !src.HasNext() {
				sources = slices.Delete(sources, idx, idx+1)
				continue
			}
			v, err := src.Next()
			idx++
			if err != nil {
				return zero, false, err
			}
			return v, true, nil
		}
		return zero, false, nil
	})
}

// MergeOption configures a ReadyMerge.
type MergeOption func(*mergeOptions)

type mergeOptions struct {
	queueSize int
	log       *logger.Logger
}

// WithQueueSize sets the capacity of the queue shared by all workers.
func WithQueueSize(n int) MergeOption {
	return func(o *mergeOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithMergeLogger sets the logger used for worker lifecycle events.
func WithMergeLogger(l *logger.Logger) MergeOption {
	return func(o *mergeOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// ReadyMergePipe emits items in the order its workers produce them. Only
// the set of items is deterministic.
type ReadyMergePipe[T any] struct {
	*FuncPipe[Iterator[T], T]

	ctx     context.Context
	cancel  context.CancelFunc
	opts    mergeOptions
	queue   chan T
	started bool
	failure atomic.Pointer[errors.AppError]
	// stopped is set by a worker that returned before its source ran out.
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// ReadyMerge creates a merge that starts one goroutine per upstream sequence
// on the first pull. Workers push into one bounded queue that is closed
// once every worker has finished. The first worker error or panic cancels
// the remaining workers and is returned by Next as WORKER_FAILED.
//
// Upstream sequences are pulled from their own goroutines and must not be
// shared with other consumers. Close stops the workers early. The merge only
// reports exhaustion when every upstream sequence ran out; a merge stopped by
// Close or by its context ends with CANCELLED instead.
func ReadyMerge[T any](ctx context.Context, opts ...MergeOption) *ReadyMergePipe[T] {
	o := mergeOptions{queueSize: DefaultMergeQueueSize, log: logger.Get("pipes")}
	for _, opt := range opts {
		opt(&o)
	}
	m := &ReadyMergePipe[T]{opts: o}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.FuncPipe = NewFuncPipe("ready_merge", m.receive)
	return m
}

// Close cancels all workers. Workers blocked inside an upstream Next return
// once that call does.
func (m *ReadyMergePipe[T]) Close() error {
	m.cancel()
	return nil
}

// Wait blocks until every started worker has returned.
func (m *ReadyMergePipe[T]) Wait() {
	m.wg.Wait()
}

func (m *ReadyMergePipe[T]) receive(starts Iterator[Iterator[T]]) (T, bool, error) {
	var zero T
	if !m.started {
		if err := m.start(starts); err != nil {
			return zero, false, err
		}
	}
	if err := m.failure.Load(); err != nil {
		return zero, false, err
	}
	select {
	case v, open := <-m.queue:
		if !open {
			m.cancel()
			if err := m.failure.Load(); err != nil {
				return zero, false, err
			}
			if m.stopped.Load() {
				return zero, false, errors.Cancelled("ready merge", m.ctx.Err())
			}
			return zero, false, nil
		}
		return v, true, nil
	case <-m.ctx.Done():
		if err := m.failure.Load(); err != nil {
			return zero, false, err
		}
		return zero, false, errors.Cancelled("ready merge", m.ctx.Err())
	}
}

func (m *ReadyMergePipe[T]) start(starts Iterator[Iterator[T]]) error {
	m.started = true
	sources, err := Collect(starts)
	if err != nil {
		m.cancel()
		return err
	}
	m.queue = make(chan T, m.opts.queueSize)
	m.opts.log.Debug("ready merge starting", logger.Fields("workers", len(sources), logger.FieldCapacity, m.opts.queueSize))

	for i, src := range sources {
		if src == nil {
			continue
		}
		m.wg.Add(1)
		go m.work(i, src)
	}
	go func() {
		m.wg.Wait()
		close(m.queue)
	}()
	return nil
}

func (m *ReadyMergePipe[T]) work(id int, src Iterator[T]) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			m.fail(id, fmt.Errorf("panic: %v", r))
		}
	}()

	items := 0
	for src.HasNext() {
		if m.ctx.Err() != nil {
			m.stopped.Store(true)
			return
		}
		v, err := src.Next()
		if err != nil {
			m.fail(id, err)
			return
		}
		select {
		case m.queue <- v:
			items++
		case <-m.ctx.Done():
			m.stopped.Store(true)
			return
		}
	}
	m.opts.log.Debug("ready merge worker finished", logger.Fields(logger.FieldWorker, id, logger.FieldItems, items))
}

func (m *ReadyMergePipe[T]) fail(id int, cause error) {
	if m.failure.CompareAndSwap(nil, errors.WorkerFailed(id, cause)) {
		m.opts.log.Error("ready merge worker failed", logger.MergeWithError(logger.Fields(logger.FieldWorker, id), cause))
		m.cancel()
	}
}
