package cachelock

import "sync"

// Compile-time interface compliance checks
var (
	_ Locker = (*Mutex)(nil)
	_ Locker = (*File)(nil)
	_ Locker = (*Recording)(nil)
	_ Locker = Func(nil)
)

// Recording is a Locker for tests. It records the label of every span and
// whether the lock is currently held.
type Recording struct {
	mu     sync.Mutex
	labels []string
	held   int
	// Nested counts spans entered while another span was held.
	nested int
}

// UseCache records label and runs fn.
func (r *Recording) UseCache(label string, fn func() error) error {
	r.mu.Lock()
	r.labels = append(r.labels, label)
	if r.held > 0 {
		r.nested++
	}
	r.held++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.held--
		r.mu.Unlock()
	}()

	return fn()
}

// Labels returns the label of every span entered so far, in order.
func (r *Recording) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.labels...)
}

// Held reports whether a span is currently open.
func (r *Recording) Held() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held > 0
}

// Nested returns how many spans were entered while another was open.
func (r *Recording) Nested() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nested
}

// Reset forgets recorded labels.
func (r *Recording) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = nil
	r.nested = 0
}
