package lenient

import (
	"context"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/filedeps"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/internal/ordered"
	"github.com/albertocavalcante/go-lenient/walker"
)

// Artifacts returns the artifacts reachable from the first-level dependencies
// selected by spec. External artifacts whose file cannot be resolved are
// dropped; any other artifact whose file cannot be resolved fails the call.
func (r *Result) Artifacts(ctx context.Context, spec depspec.Spec) ([]artifact.ResolvedArtifact, error) {
	c := newCollector(artifactsOnly, nil)
	if err := r.visitArtifacts(ctx, spec, c); err != nil {
		return nil, err
	}
	return r.filterArtifacts(c.artifacts.Values())
}

// ArtifactFile is an artifact paired with its resolved file.
type ArtifactFile struct {
	Artifact artifact.ResolvedArtifact
	Path     string
}

// ArtifactFiles is Artifacts with the file of each artifact resolved under
// the cache lock.
func (r *Result) ArtifactFiles(ctx context.Context, spec depspec.Spec) ([]ArtifactFile, error) {
	arts, err := r.Artifacts(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]ArtifactFile, 0, len(arts))
	err = r.resolveFiles(arts, func(a artifact.ResolvedArtifact, path string) {
		out = append(out, ArtifactFile{Artifact: a, Path: path})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Files returns the files of the file dependencies and artifacts reachable
// from the first-level dependencies selected by spec. File dependencies come
// first, followed by the files of the artifacts that survive filtering.
func (r *Result) Files(ctx context.Context, spec depspec.Spec) ([]string, error) {
	files := NewFileSet()
	if err := r.CollectFiles(ctx, spec, files); err != nil {
		return nil, err
	}
	return files.Paths(), nil
}

// CollectFiles adds what Files would return to dest. Existing entries of dest
// are kept. On failure dest may hold part of the result.
func (r *Result) CollectFiles(ctx context.Context, spec depspec.Spec, dest *FileSet) error {
	if dest == nil {
		return ErrNilDestination
	}
	c := newCollector(artifactsAndFiles, dest)
	if err := r.visitArtifacts(ctx, spec, c); err != nil {
		return err
	}
	arts, err := r.filterArtifacts(c.artifacts.Values())
	if err != nil {
		return err
	}
	return r.materialize(arts, dest)
}

// visitArtifacts gathers into c everything reachable from the first-level
// dependencies selected by spec.
func (r *Result) visitArtifacts(ctx context.Context, spec depspec.Spec, c *collector) error {
	if spec == nil {
		return ErrNilSpec
	}

	if depspec.IsSatisfyAll(spec) {
		r.metrics.fastPath.Inc()
		r.logger.Debug("selecting all artifacts without traversal")
		for _, coll := range r.files.Files() {
			c.addFiles(coll)
		}
		c.addArtifacts(r.artifacts.Artifacts())
		return nil
	}

	for _, fl := range r.files.FirstLevelFiles() {
		if spec.IsSatisfiedBy(fl.Dependency) {
			c.addFiles(fl.Files)
		}
	}

	s, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	r.metrics.traversals.Inc()

	w := walker.New[graph.NodeID, filedeps.Collection, artifact.ResolvedArtifact](&dependencyGraph{
		graph: s.Graph,
		files: r.files,
		mode:  c.mode,
	})
	root := s.Root().ID()
	for _, node := range s.Matching(spec) {
		c.addArtifacts(node.ParentArtifacts(root))
		w.Add(node.ID())
	}

	values := w.FindValues()
	for _, coll := range values.Nodes {
		c.addFiles(coll)
	}
	c.addArtifacts(values.Edges)

	stats := w.Stats()
	r.logger.Debug("traversed dependency graph",
		"nodes", stats.NodeExpansions,
		"edges", stats.EdgeEvaluations,
		"artifacts", c.artifacts.Len())
	return nil
}

// collectMode selects what a traversal gathers.
type collectMode int

const (
	// artifactsOnly gathers artifacts and ignores file dependencies.
	artifactsOnly collectMode = iota

	// artifactsAndFiles also gathers the files of file dependencies.
	artifactsAndFiles
)

// collector accumulates the values found by one query.
type collector struct {
	mode      collectMode
	artifacts ordered.Map[artifact.ID, artifact.ResolvedArtifact]
	files     *FileSet
}

func newCollector(mode collectMode, files *FileSet) *collector {
	return &collector{mode: mode, files: files}
}

func (c *collector) addArtifacts(arts []artifact.ResolvedArtifact) {
	for _, a := range arts {
		c.artifacts.PutIfAbsent(a.ID, a)
	}
}

func (c *collector) addFiles(coll filedeps.Collection) {
	switch c.mode {
	case artifactsOnly:
	case artifactsAndFiles:
		c.files.AddAll(coll.Paths...)
	}
}

// dependencyGraph presents a resolved graph to the walker. Node values are
// the file collections declared by a module, edge values the artifacts a
// child contributes to its parent.
type dependencyGraph struct {
	graph *graph.Graph
	files FileDependencyResults
	mode  collectMode
}

func (d *dependencyGraph) NodeValues(id graph.NodeID) ([]filedeps.Collection, []graph.NodeID) {
	node := d.graph.Node(id)
	if node == nil {
		return nil, nil
	}
	var values []filedeps.Collection
	if d.mode == artifactsAndFiles {
		values = d.files.FilesFor(id)
	}
	return values, node.Children()
}

func (d *dependencyGraph) EdgeValues(from, to graph.NodeID) []artifact.ResolvedArtifact {
	child := d.graph.Node(to)
	if child == nil {
		return nil
	}
	return child.ParentArtifacts(from)
}
