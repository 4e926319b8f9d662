// Package artifactstore is an on-disk artifact cache.
//
// Module artifacts live under the store root following a fixed layout:
//
//	{root}/{group}/{module}/{version}/{name}-{version}[-{classifier}].{ext}
//
// A Store resolves artifact files for [artifact.ResolvedArtifact.File]. Paths
// that resolved successfully are remembered in an LRU. Misses are not
// remembered, since the cache only ever grows and a file missing now may be
// present on the next lookup.
package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/albertocavalcante/go-lenient/artifact"
)

// DefaultCacheSize is the number of resolved paths a Store remembers by default.
const DefaultCacheSize = 1024

// ErrNoLocation indicates the store has no location for an artifact, because
// it is not owned by an external module.
var ErrNoLocation = errors.New("artifact has no store location")

// storePermissions is the file permission mode for stored artifacts.
const storePermissions = 0o600

// Option configures a Store.
type Option func(*storeConfig) error

type storeConfig struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize sets how many resolved paths are remembered.
func WithCacheSize(n int) Option {
	return func(c *storeConfig) error {
		if n <= 0 {
			return fmt.Errorf("cache size must be positive, got %d", n)
		}
		c.cacheSize = n
		return nil
	}
}

// WithLogger sets a structured logger for lookups.
func WithLogger(l *slog.Logger) Option {
	return func(c *storeConfig) error {
		c.logger = l
		return nil
	}
}

// Store resolves artifact files from a directory tree. It is safe for
// concurrent use.
type Store struct {
	root   string
	cache  *lru.Cache[artifact.ID, string]
	logger *slog.Logger
}

var _ artifact.FileResolver = (*Store)(nil)

// New creates a store rooted at root. The directory need not exist yet.
func New(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, errors.New("store root cannot be empty")
	}
	cfg := &storeConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cache, err := lru.New[artifact.ID, string](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create path cache: %w", err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		root:   filepath.Clean(root),
		cache:  cache,
		logger: logger,
	}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Location returns where the store keeps the file of id.
func (s *Store) Location(id artifact.ID) (string, error) {
	m, ok := id.Component.(artifact.ModuleComponentID)
	if !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNoLocation)
	}
	group := m.Group
	if group == "" {
		group = "_"
	}
	return filepath.Join(s.root, group, m.Module, m.Version, id.FileName()), nil
}

// ResolveFile returns the path of the stored file of id. It fails with an
// error wrapping fs.ErrNotExist when the file is not in the store.
func (s *Store) ResolveFile(id artifact.ID) (string, error) {
	if path, ok := s.cache.Get(id); ok {
		return path, nil
	}

	path, err := s.Location(id)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		s.logger.Debug("artifact not in store", "artifact", id.String(), "path", path)
		return "", fmt.Errorf("artifact %s: %w", id, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("artifact %s: %s is a directory", id, path)
	}

	s.cache.Add(id, path)
	return path, nil
}

// Put writes content as the file of id and returns its path.
func (s *Store) Put(ctx context.Context, id artifact.ID, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.Location(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(path, content, storePermissions); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", id, err)
	}
	s.logger.Debug("stored artifact", "artifact", id.String(), "path", path)
	return path, nil
}

// Artifact returns a ResolvedArtifact for id whose file is resolved by s.
func (s *Store) Artifact(id artifact.ID) artifact.ResolvedArtifact {
	return artifact.New(id, s)
}

// Cached returns the number of remembered paths.
func (s *Store) Cached() int {
	return s.cache.Len()
}
