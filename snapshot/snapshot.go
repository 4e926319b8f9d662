// Package snapshot provides the transient graph snapshot of a resolved
// configuration and the loaders that produce it.
//
// A snapshot is expensive to materialize. It is obtained through a [Loader]
// only when a query actually needs the graph; queries that can be answered
// from precomputed results never load it. [Memoize] wraps a loader so that a
// snapshot is materialized at most once per successful load.
//
// Snapshots can also be read from documents on disk (JSON, YAML or Starlark),
// see [Read] and [Document.Build].
package snapshot

import (
	"context"
	"errors"

	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/graph"
)

// ErrNoSnapshot is returned by loaders that have nothing to load.
var ErrNoSnapshot = errors.New("no graph snapshot")

// FirstLevel maps a dependency declared on the configuration to the node
// resolution selected for it.
type FirstLevel struct {
	Dependency depspec.Dependency
	Node       graph.NodeID
}

// Snapshot is the resolved graph of one configuration.
type Snapshot struct {
	Graph *graph.Graph

	// FirstLevel lists the configuration's declared dependencies in
	// declaration order. Several requests may map to the same node.
	FirstLevel []FirstLevel
}

// Root returns the synthetic configuration node.
func (s *Snapshot) Root() *graph.Node {
	return s.Graph.Root()
}

// Matching returns the nodes whose originating request satisfies spec, in
// declaration order and without duplicates.
func (s *Snapshot) Matching(spec depspec.Spec) []*graph.Node {
	var out []*graph.Node
	seen := make(map[graph.NodeID]bool)
	for _, fl := range s.FirstLevel {
		if seen[fl.Node] || !spec.IsSatisfiedBy(fl.Dependency) {
			continue
		}
		if n := s.Graph.Node(fl.Node); n != nil {
			seen[fl.Node] = true
			out = append(out, n)
		}
	}
	return out
}

// Loader produces a snapshot on demand.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*Snapshot, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// Static returns a loader that always yields s.
func Static(s *Snapshot) Loader {
	return LoaderFunc(func(ctx context.Context) (*Snapshot, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s == nil {
			return nil, ErrNoSnapshot
		}
		return s, nil
	})
}
