// Package cachelock provides scoped critical sections around reads of the
// shared artifact cache.
//
// The artifact cache is a process-wide resource that other resolutions may
// mutate concurrently. Every read of it runs inside [Locker.UseCache]: the
// lock is acquired, the operation runs, and the lock is released on every
// exit path, including a failing or panicking operation.
package cachelock

import (
	"fmt"
	"sync"

	"github.com/gofrs/flock"
)

// Locker runs operations while holding the artifact cache lock.
type Locker interface {
	// UseCache acquires the lock, runs fn, and releases the lock.
	// The label describes the operation for diagnostics.
	UseCache(label string, fn func() error) error
}

// Do runs fn under l and returns its result.
func Do[T any](l Locker, label string, fn func() (T, error)) (T, error) {
	var out T
	err := l.UseCache(label, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// Func adapts a function to Locker.
type Func func(label string, fn func() error) error

// UseCache calls f(label, fn).
func (f Func) UseCache(label string, fn func() error) error {
	return f(label, fn)
}

// None runs operations without any locking.
var None Locker = Func(func(_ string, fn func() error) error {
	return fn()
})

// Mutex is an in-process cache lock. The zero value is ready to use.
type Mutex struct {
	mu sync.Mutex
}

// UseCache runs fn while holding m.
func (m *Mutex) UseCache(_ string, fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

// File is a cache lock shared between processes through an advisory lock on
// a file. Goroutines of one process are serialized by an in-process mutex
// before the file lock is taken.
type File struct {
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFile creates a lock backed by the file at path. The file is created on
// first use if it does not exist.
func NewFile(path string) *File {
	return &File{lock: flock.New(path)}
}

// Path returns the lock file path.
func (f *File) Path() string {
	return f.lock.Path()
}

// UseCache runs fn while holding the file lock.
func (f *File) UseCache(label string, fn func() error) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock %s for %s: %w", f.lock.Path(), label, err)
	}
	defer func() {
		if uerr := f.lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("release cache lock %s for %s: %w", f.lock.Path(), label, uerr)
		}
	}()

	return fn()
}
