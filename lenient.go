package lenient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/cachelock"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

// Result is the lenient view of one configuration's resolution result.
type Result struct {
	cfg        Configuration
	unresolved []UnresolvedDependency
	artifacts  ArtifactSet
	files      FileDependencyResults
	loader     snapshot.Loader
	lock       cachelock.Locker

	logger  *slog.Logger
	metrics *metrics
}

// New creates a Result for cfg over the given inputs.
func New(cfg Configuration, in Inputs, opts ...Option) (*Result, error) {
	c, err := newResultConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Name == "" {
		return nil, errors.New("configuration name cannot be empty")
	}
	switch {
	case in.Artifacts == nil:
		return nil, fmt.Errorf("%w: artifact set", ErrMissingCollaborator)
	case in.FileDependencies == nil:
		return nil, fmt.Errorf("%w: file dependency results", ErrMissingCollaborator)
	case in.Snapshot == nil:
		return nil, fmt.Errorf("%w: snapshot loader", ErrMissingCollaborator)
	case in.CacheLock == nil:
		return nil, fmt.Errorf("%w: cache lock", ErrMissingCollaborator)
	}

	m, err := newMetrics(c.registerer, cfg.label())
	if err != nil {
		return nil, err
	}

	r := &Result{
		cfg:        cfg,
		unresolved: append([]UnresolvedDependency(nil), in.Unresolved...),
		artifacts:  in.Artifacts,
		files:      in.FileDependencies,
		lock:       in.CacheLock,
		logger:     c.log().With("configuration", cfg.label()),
		metrics:    m,
	}

	inner := in.Snapshot
	var loader snapshot.Loader = snapshot.LoaderFunc(func(ctx context.Context) (*snapshot.Snapshot, error) {
		r.metrics.snapshotLoads.Inc()
		r.logger.Debug("loading graph snapshot")
		return inner.Load(ctx)
	})
	if c.memoize {
		loader = snapshot.Memoize(loader)
	}
	r.loader = loader

	return r, nil
}

// Configuration returns the configuration the result belongs to.
func (r *Result) Configuration() Configuration {
	return r.cfg
}

// HasError reports whether any dependency failed to resolve.
func (r *Result) HasError() bool {
	return len(r.unresolved) > 0
}

// UnresolvedDependencies returns the dependencies that failed to resolve.
func (r *Result) UnresolvedDependencies() []UnresolvedDependency {
	return append([]UnresolvedDependency(nil), r.unresolved...)
}

// RethrowFailure returns nil if every dependency resolved. Otherwise it
// returns a *ResolveError with one cause per unresolved dependency.
func (r *Result) RethrowFailure() error {
	if !r.HasError() {
		return nil
	}
	causes := make([]error, len(r.unresolved))
	for i, u := range r.unresolved {
		causes[i] = u.Err()
	}
	return &ResolveError{Configuration: r.cfg, Causes: causes}
}

// ResolvedArtifacts returns every artifact resolved for the configuration,
// unfiltered.
func (r *Result) ResolvedArtifacts() []artifact.ResolvedArtifact {
	return r.artifacts.Artifacts()
}

// Snapshot returns the graph snapshot.
func (r *Result) Snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	s, err := r.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph snapshot for %s: %w", r.cfg, err)
	}
	return s, nil
}

// FirstLevelDependencies returns the first-level nodes whose originating
// dependency satisfies spec.
func (r *Result) FirstLevelDependencies(ctx context.Context, spec depspec.Spec) ([]*graph.Node, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}
	s, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Matching(spec), nil
}

// AllFirstLevelDependencies returns every first-level node: the children of
// the configuration root, whether or not a declared request maps to them.
func (r *Result) AllFirstLevelDependencies(ctx context.Context) ([]*graph.Node, error) {
	s, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	children := s.Root().Children()
	nodes := make([]*graph.Node, 0, len(children))
	for _, id := range children {
		nodes = append(nodes, s.Graph.Node(id))
	}
	return nodes, nil
}

// AllDependencies returns every node reachable from the configuration root,
// first-level nodes included and the root excluded, in breadth-first order.
func (r *Result) AllDependencies(ctx context.Context) ([]*graph.Node, error) {
	s, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Graph.TransitiveDeps(s.Root().ID()), nil
}
