package lenient

import (
	"path/filepath"

	"github.com/albertocavalcante/go-lenient/internal/ordered"
)

// FileSet is an insertion-ordered set of file paths. Paths are cleaned before
// insertion, so two spellings of the same path are stored once.
// The zero value is ready to use. A FileSet is not safe for concurrent use.
type FileSet struct {
	set ordered.Set[string]
}

// NewFileSet returns a set holding paths.
func NewFileSet(paths ...string) *FileSet {
	s := &FileSet{}
	s.AddAll(paths...)
	return s
}

// Add inserts path and reports whether it was not already present.
// Empty paths are ignored.
func (s *FileSet) Add(path string) bool {
	if path == "" {
		return false
	}
	return s.set.Add(filepath.Clean(path))
}

// AddAll inserts every path in order.
func (s *FileSet) AddAll(paths ...string) {
	for _, p := range paths {
		s.Add(p)
	}
}

// Contains reports whether path is in the set.
func (s *FileSet) Contains(path string) bool {
	return s.set.Contains(filepath.Clean(path))
}

// Len returns the number of paths.
func (s *FileSet) Len() int {
	return s.set.Len()
}

// Paths returns the paths in insertion order.
func (s *FileSet) Paths() []string {
	return s.set.Items()
}
