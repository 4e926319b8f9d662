// Package filedeps holds the file dependencies of a configuration: requests
// for fixed collections of files rather than for modules.
//
// File dependencies are reported three ways. [Results.Files] lists every
// collection of the configuration. [Results.FirstLevelFiles] keys the
// collections declared directly on the configuration by the dependency that
// declared them. [Results.FilesFor] lists the collections declared by a
// resolved module, keyed by its graph node.
package filedeps

import (
	"path/filepath"

	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/internal/ordered"
)

// Collection is a named collection of files.
type Collection struct {
	Name  string
	Paths []string
}

// NewCollection creates a collection. Paths are cleaned and deduplicated,
// keeping the first occurrence.
func NewCollection(name string, paths ...string) Collection {
	var set ordered.Set[string]
	for _, p := range paths {
		if p == "" {
			continue
		}
		set.Add(filepath.Clean(p))
	}
	return Collection{Name: name, Paths: set.Items()}
}

// FirstLevel is a collection declared directly on the configuration.
type FirstLevel struct {
	Dependency depspec.Dependency
	Files      Collection
}

// Results is an in-memory file-dependency result set.
// A Results is built once and read concurrently afterwards; the Add methods
// must not be called once it has been handed to readers.
type Results struct {
	all        []Collection
	firstLevel []FirstLevel
	byNode     map[graph.NodeID][]Collection
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{byNode: make(map[graph.NodeID][]Collection)}
}

// AddFirstLevel records a collection declared by dep on the configuration.
func (r *Results) AddFirstLevel(dep depspec.Dependency, files Collection) {
	r.firstLevel = append(r.firstLevel, FirstLevel{Dependency: dep, Files: files})
	r.all = append(r.all, files)
}

// AddTransitive records a collection declared by the module at node.
func (r *Results) AddTransitive(node graph.NodeID, files Collection) {
	r.byNode[node] = append(r.byNode[node], files)
	r.all = append(r.all, files)
}

// Files returns every collection of the configuration in the order added.
func (r *Results) Files() []Collection {
	return append([]Collection(nil), r.all...)
}

// FirstLevelFiles returns the collections declared directly on the configuration.
func (r *Results) FirstLevelFiles() []FirstLevel {
	return append([]FirstLevel(nil), r.firstLevel...)
}

// FilesFor returns the collections declared by the module at node.
func (r *Results) FilesFor(node graph.NodeID) []Collection {
	return append([]Collection(nil), r.byNode[node]...)
}

// Nodes returns the nodes that declare at least one collection, in no
// particular order.
func (r *Results) Nodes() []graph.NodeID {
	nodes := make([]graph.NodeID, 0, len(r.byNode))
	for n := range r.byNode {
		nodes = append(nodes, n)
	}
	return nodes
}
