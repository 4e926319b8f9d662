package lenient

import (
	"testing"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/cachelock"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/filedeps"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

var testConfiguration = Configuration{Name: "runtimeClasspath", Path: ":app:runtimeClasspath"}

// repoFile resolves every artifact to /repo/<file name>.
var repoFile = artifact.FileResolverFunc(func(id artifact.ID) (string, error) {
	return "/repo/" + id.FileName(), nil
})

func moduleJar(module, version, classifier string, r artifact.FileResolver) artifact.ResolvedArtifact {
	return artifact.New(artifact.ID{
		Component:  artifact.MustModuleComponentID("org.example", module, version),
		Name:       module,
		Type:       "jar",
		Extension:  "jar",
		Classifier: classifier,
	}, r)
}

func projectJar(project string, r artifact.FileResolver) artifact.ResolvedArtifact {
	return artifact.New(artifact.ID{
		Component: artifact.ProjectComponentID{Project: ":" + project},
		Name:      project,
		Type:      "jar",
		Extension: "jar",
	}, r)
}

// fixture is a resolved configuration plus instrumented collaborators.
type fixture struct {
	snap   *snapshot.Snapshot
	loader *snapshot.CountingLoader
	files  *filedeps.Results
	lock   *cachelock.Recording
	all    []artifact.ResolvedArtifact
	nodes  map[string]graph.NodeID

	unresolved []UnresolvedDependency
}

// createDiamond builds:
//
//	root -> a [a.jar]
//	root -> b [b.jar]
//	a -> c [c-x.jar]
//	b -> c [c-y.jar]
//	c -> d [d.jar]
//
// with a first-level file dependency "tools" and a file dependency
// "native" declared by c.
func createDiamond(t *testing.T) *fixture {
	t.Helper()

	b := graph.NewBuilder(graph.ModuleKey{Name: "runtimeClasspath"})
	nodes := map[string]graph.NodeID{}
	for _, n := range []struct{ name, version string }{{"a", "1.0"}, {"b", "1.0"}, {"c", "2.0"}, {"d", "1.0"}} {
		nodes[n.name] = b.AddNode(graph.ModuleKey{Group: "org.example", Name: n.name, Version: n.version})
	}
	b.AddEdge(b.Root(), nodes["a"], moduleJar("a", "1.0", "", repoFile))
	b.AddEdge(b.Root(), nodes["b"], moduleJar("b", "1.0", "", repoFile))
	b.AddEdge(nodes["a"], nodes["c"], moduleJar("c", "2.0", "x", repoFile))
	b.AddEdge(nodes["b"], nodes["c"], moduleJar("c", "2.0", "y", repoFile))
	b.AddEdge(nodes["c"], nodes["d"], moduleJar("d", "1.0", "", repoFile))
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	snap := &snapshot.Snapshot{
		Graph: g,
		FirstLevel: []snapshot.FirstLevel{
			{Dependency: depspec.Dependency{Group: "org.example", Name: "a", Version: "1.0"}, Node: nodes["a"]},
			{Dependency: depspec.Dependency{Group: "org.example", Name: "b", Version: "1.0"}, Node: nodes["b"]},
		},
	}

	files := filedeps.NewResults()
	files.AddFirstLevel(depspec.Dependency{Kind: depspec.KindFiles, Name: "tools"}, filedeps.NewCollection("tools", "/tools/t.jar"))
	files.AddTransitive(nodes["c"], filedeps.NewCollection("native", "/native/c.so"))

	return &fixture{
		snap:   snap,
		loader: snapshot.NewCountingLoader(snap),
		files:  files,
		lock:   &cachelock.Recording{},
		all:    g.AllModuleArtifacts(g.Root().ID()),
		nodes:  nodes,
	}
}

func (f *fixture) inputs() Inputs {
	return Inputs{
		Unresolved:       f.unresolved,
		Artifacts:        ArtifactList(f.all),
		FileDependencies: f.files,
		Snapshot:         f.loader,
		CacheLock:        f.lock,
	}
}

func (f *fixture) result(t *testing.T, opts ...Option) *Result {
	t.Helper()
	r, err := New(testConfiguration, f.inputs(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func fileNames(arts []artifact.ResolvedArtifact) []string {
	names := make([]string, len(arts))
	for i, a := range arts {
		names[i] = a.ID.FileName()
	}
	return names
}

func nodeNames(nodes []*graph.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Key().Name
	}
	return names
}

var (
	selectA  = depspec.Module("org.example", "a")
	selectB  = depspec.Module("org.example", "b")
	selectAB = depspec.Or(selectA, selectB)
)
