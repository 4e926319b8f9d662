package lenient

import (
	"fmt"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/cachelock"
	"github.com/albertocavalcante/go-lenient/filedeps"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

// Configuration identifies the resolution scope being queried.
type Configuration struct {
	// Name is the configuration name, e.g. "runtimeClasspath".
	Name string

	// Path qualifies the name with its owner, e.g. ":app:runtimeClasspath".
	Path string
}

// String returns "configuration '<path>'", falling back to the name.
func (c Configuration) String() string {
	return fmt.Sprintf("configuration '%s'", c.label())
}

func (c Configuration) label() string {
	if c.Path == "" {
		return c.Name
	}
	return c.Path
}

// ModuleSelector identifies the requested module of a failed dependency.
type ModuleSelector struct {
	Group   string
	Name    string
	Version string
}

// String returns "group:name:version", omitting an empty version.
func (s ModuleSelector) String() string {
	out := s.Group + ":" + s.Name
	if s.Version != "" {
		out += ":" + s.Version
	}
	return out
}

// UnresolvedDependency is a dependency request that failed to resolve.
type UnresolvedDependency struct {
	Selector ModuleSelector
	Problem  error
}

// Err returns the failure qualified by the selector.
func (u UnresolvedDependency) Err() error {
	problem := u.Problem
	if problem == nil {
		problem = ErrUnresolved
	}
	return fmt.Errorf("could not resolve %s: %w", u.Selector, problem)
}

// ArtifactSet provides the precomputed set of every artifact resolved for a
// configuration.
type ArtifactSet interface {
	Artifacts() []artifact.ResolvedArtifact
}

// ArtifactList is an ArtifactSet backed by a slice.
type ArtifactList []artifact.ResolvedArtifact

// Artifacts returns a copy of l.
func (l ArtifactList) Artifacts() []artifact.ResolvedArtifact {
	return append([]artifact.ResolvedArtifact(nil), l...)
}

// FileDependencyResults provides the file dependencies of a configuration.
type FileDependencyResults interface {
	// Files returns every file collection of the configuration.
	Files() []filedeps.Collection

	// FirstLevelFiles returns the collections declared directly on the
	// configuration, keyed by the declaring dependency.
	FirstLevelFiles() []filedeps.FirstLevel

	// FilesFor returns the collections declared by the module at node.
	FilesFor(node graph.NodeID) []filedeps.Collection
}

// Inputs are the read-only collaborators a Result queries.
// Every field is required; Unresolved may be empty.
type Inputs struct {
	Unresolved       []UnresolvedDependency
	Artifacts        ArtifactSet
	FileDependencies FileDependencyResults
	Snapshot         snapshot.Loader
	CacheLock        cachelock.Locker
}

var _ FileDependencyResults = (*filedeps.Results)(nil)
