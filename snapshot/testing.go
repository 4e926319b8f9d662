package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
)

// Compile-time interface compliance checks
var _ Loader = (*CountingLoader)(nil)
var _ Loader = (*FailingLoader)(nil)
var _ Loader = (*Memoized)(nil)

// CountingLoader is a loader for tests that counts how often it is invoked.
// It is safe for concurrent use.
type CountingLoader struct {
	snap  *Snapshot
	calls atomic.Int64
	err   atomic.Pointer[error]
}

// NewCountingLoader creates a loader that yields s.
func NewCountingLoader(s *Snapshot) *CountingLoader {
	return &CountingLoader{snap: s}
}

// Load returns the snapshot, or the error set by FailWith.
func (l *CountingLoader) Load(ctx context.Context) (*Snapshot, error) {
	l.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p := l.err.Load(); p != nil {
		return nil, *p
	}
	if l.snap == nil {
		return nil, ErrNoSnapshot
	}
	return l.snap, nil
}

// FailWith makes subsequent loads fail with err. A nil err restores success.
func (l *CountingLoader) FailWith(err error) {
	if err == nil {
		l.err.Store(nil)
		return
	}
	l.err.Store(&err)
}

// Calls returns how many times Load has been invoked.
func (l *CountingLoader) Calls() int64 {
	return l.calls.Load()
}

// FailingLoader is a loader that always fails.
// Useful for proving a query never needs the graph.
type FailingLoader struct {
	Err error
}

// NewFailingLoader creates a loader that fails with err.
func NewFailingLoader(err error) *FailingLoader {
	if err == nil {
		err = errors.New("snapshot load failed")
	}
	return &FailingLoader{Err: err}
}

// Load always returns an error.
func (l *FailingLoader) Load(context.Context) (*Snapshot, error) {
	return nil, l.Err
}
