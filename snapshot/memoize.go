package snapshot

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Memoized is a Loader that loads its underlying snapshot once.
//
// Concurrent callers share a single in-flight load. A successful load is kept
// until Reset; a failed load is not kept, so the next call tries again.
type Memoized struct {
	loader Loader
	flight singleflight.Group
	cached atomic.Pointer[Snapshot]

	loads atomic.Int64
}

// Memoize wraps l. Wrapping a *Memoized returns it unchanged.
func Memoize(l Loader) *Memoized {
	if m, ok := l.(*Memoized); ok {
		return m
	}
	return &Memoized{loader: l}
}

// Load returns the cached snapshot or loads it.
func (m *Memoized) Load(ctx context.Context) (*Snapshot, error) {
	if s := m.cached.Load(); s != nil {
		return s, nil
	}

	v, err, _ := m.flight.Do("snapshot", func() (any, error) {
		if s := m.cached.Load(); s != nil {
			return s, nil
		}
		m.loads.Add(1)
		s, err := m.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, ErrNoSnapshot
		}
		m.cached.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Loaded reports whether a snapshot is cached.
func (m *Memoized) Loaded() bool {
	return m.cached.Load() != nil
}

// Loads returns how many times the underlying loader has been invoked.
func (m *Memoized) Loads() int64 {
	return m.loads.Load()
}

// Reset drops the cached snapshot.
func (m *Memoized) Reset() {
	m.cached.Store(nil)
}
