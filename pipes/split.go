package pipes

import (
	"fmt"

	"github.com/tinkerpop/blueprints-sub007/errors"
	"github.com/tinkerpop/blueprints-sub007/logger"
)

// SplitPolicy decides which branches receive an upstream item.
type SplitPolicy int

const (
	// CopySplit pushes every upstream item into every branch. An upstream
	// error is delivered only to the branch whose pull hit it; every other
	// branch ends after its buffered items as if the upstream were exhausted.
	// The same holds for the other policies.
	CopySplit SplitPolicy = iota
	// RoundRobinSplit routes upstream items to branches in fixed cyclic order.
	RoundRobinSplit
	// ReadySplit routes each upstream item to the branch that asked for it.
	ReadySplit
)

func (p SplitPolicy) String() string {
	switch p {
	case CopySplit:
		return "copy"
	case RoundRobinSplit:
		return "round_robin"
	case ReadySplit:
		return "ready"
	default:
		return fmt.Sprintf("split_policy(%d)", int(p))
	}
}

// Split fans one upstream sequence out to a fixed number of branches. The
// split owns the upstream and every branch buffer; a branch asks the split
// for more only when its own buffer is empty.
type Split[T any] struct {
	policy   SplitPolicy
	starts   Iterator[T]
	buffers  [][]T
	errs     []error
	branches []*Branch[T]
	cursor   int
	done     bool
	log      *logger.Logger
}

// NewSplit creates a split with n branches.
func NewSplit[T any](policy SplitPolicy, n int) (*Split[T], error) {
	if n <= 0 {
		return nil, errors.InvalidConfig("branches", "split requires at least one branch")
	}
	if policy < CopySplit || policy > ReadySplit {
		return nil, errors.InvalidConfig("policy", "unknown split policy "+policy.String())
	}
	s := &Split[T]{
		policy:   policy,
		buffers:  make([][]T, n),
		errs:     make([]error, n),
		branches: make([]*Branch[T], n),
		log:      logger.Get("pipes"),
	}
	for i := range s.branches {
		s.branches[i] = &Branch[T]{owner: s, index: i}
	}
	return s, nil
}

// SetStarts binds the upstream sequence. It may be called once.
func (s *Split[T]) SetStarts(starts Iterator[T]) error {
	if s.starts != nil {
		return errors.AlreadyBound("split")
	}
	if starts == nil {
		return errors.InvalidInput("starts", "upstream iterator is required")
	}
	s.starts = starts
	return nil
}

// Branch returns branch i.
func (s *Split[T]) Branch(i int) (*Branch[T], error) {
	if i < 0 || i >= len(s.branches) {
		return nil, errors.NotFound("split branch", i)
	}
	return s.branches[i], nil
}

// Branches returns every branch in index order.
func (s *Split[T]) Branches() []*Branch[T] {
	out := make([]*Branch[T], len(s.branches))
	copy(out, s.branches)
	return out
}

// Len returns the number of branches.
func (s *Split[T]) Len() int { return len(s.branches) }

// Policy returns the distribution policy.
func (s *Split[T]) Policy() SplitPolicy { return s.policy }

// fill pulls upstream on behalf of branch i.
func (s *Split[T]) fill(i int) {
	if s.starts == nil || s.done {
		return
	}
	switch s.policy {
	case CopySplit:
		if v, ok := s.pull(i); ok {
			for b := range s.buffers {
				s.buffers[b] = append(s.buffers[b], v)
			}
		}
	case RoundRobinSplit:
		for len(s.buffers[i]) == 0 && s.errs[i] == nil {
			v, ok := s.pull(i)
			if !ok {
				return
			}
			s.buffers[s.cursor] = append(s.buffers[s.cursor], v)
			s.cursor = (s.cursor + 1) % len(s.buffers)
		}
	case ReadySplit:
		if v, ok := s.pull(i); ok {
			s.buffers[i] = append(s.buffers[i], v)
		}
	}
}

// pull reads one upstream item. An upstream error is parked on branch i and
// ends the split.
func (s *Split[T]) pull(i int) (T, bool) {
	var zero T
	if !s.starts.HasNext() {
		s.done = true
		s.log.Debug("split exhausted", logger.Fields(logger.FieldPipe, "split_"+s.policy.String()))
		return zero, false
	}
	v, err := s.starts.Next()
	if err != nil {
		s.done = true
		s.errs[i] = err
		return zero, false
	}
	return v, true
}

// Branch is one output of a Split.
type Branch[T any] struct {
	owner *Split[T]
	index int
}

// Index returns the branch position within its split.
func (b *Branch[T]) Index() int { return b.index }

// HasNext reports whether the branch has a buffered item or pending error,
// asking the split for more when its buffer is empty.
func (b *Branch[T]) HasNext() bool {
	if b.pending() {
		return true
	}
	b.owner.fill(b.index)
	return b.pending()
}

// Next returns the next item of the branch.
func (b *Branch[T]) Next() (T, error) {
	var zero T
	if b.owner.starts == nil {
		return zero, errors.NotBound(fmt.Sprintf("split branch %d", b.index))
	}
	if !b.HasNext() {
		return zero, errors.Exhausted(fmt.Sprintf("split branch %d", b.index))
	}
	if err := b.owner.errs[b.index]; err != nil {
		b.owner.errs[b.index] = nil
		return zero, err
	}
	buf := b.owner.buffers[b.index]
	v := buf[0]
	buf[0] = zero
	if len(buf) == 1 {
		b.owner.buffers[b.index] = buf[:0]
	} else {
		b.owner.buffers[b.index] = buf[1:]
	}
	return v, nil
}

// Buffered returns the number of items waiting in this branch.
func (b *Branch[T]) Buffered() int { return len(b.owner.buffers[b.index]) }

// Remove is not supported.
func (b *Branch[T]) Remove() error {
	return errors.Unsupported("split branch.remove")
}

func (b *Branch[T]) pending() bool {
	return len(b.owner.buffers[b.index]) > 0 || b.owner.errs[b.index] != nil
}
