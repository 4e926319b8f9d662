package lenient

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/cachelock"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/filedeps"
	"github.com/albertocavalcante/go-lenient/graph"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

func TestArtifacts_Diamond(t *testing.T) {
	tests := []struct {
		name string
		spec depspec.Spec
		want []string
	}{
		{
			name: "a",
			spec: selectA,
			want: []string{"a-1.0.jar", "c-2.0-x.jar", "d-1.0.jar"},
		},
		{
			name: "b",
			spec: selectB,
			want: []string{"b-1.0.jar", "c-2.0-y.jar", "d-1.0.jar"},
		},
		{
			name: "a or b",
			spec: selectAB,
			want: []string{"a-1.0.jar", "b-1.0.jar", "c-2.0-x.jar", "d-1.0.jar", "c-2.0-y.jar"},
		},
		{
			name: "nothing",
			spec: depspec.SatisfyNone,
			want: []string{},
		},
		{
			name: "file dependency only",
			spec: depspec.OfKind(depspec.KindFiles),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createDiamond(t)
			r := f.result(t)

			got, err := r.Artifacts(context.Background(), tt.spec)
			if err != nil {
				t.Fatalf("Artifacts() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, fileNames(got)); diff != "" {
				t.Errorf("Artifacts() mismatch (-want +got):\n%s", diff)
			}
			if got := testutil.ToFloat64(r.metrics.traversals); got != 1 {
				t.Errorf("traversals = %v, want 1", got)
			}
			if got := testutil.ToFloat64(r.metrics.fastPath); got != 0 {
				t.Errorf("fast path = %v, want 0", got)
			}
		})
	}
}

func TestArtifacts_SelectAllSkipsTraversal(t *testing.T) {
	f := createDiamond(t)
	r := f.result(t)

	got, err := r.Artifacts(context.Background(), depspec.SatisfyAll)
	if err != nil {
		t.Fatalf("Artifacts() error = %v", err)
	}
	if diff := cmp.Diff(fileNames(r.ResolvedArtifacts()), fileNames(got)); diff != "" {
		t.Errorf("Artifacts(*) mismatch with ResolvedArtifacts (-want +got):\n%s", diff)
	}
	if f.loader.Calls() != 0 {
		t.Errorf("snapshot loaded %d times, want 0", f.loader.Calls())
	}
	if got := testutil.ToFloat64(r.metrics.traversals); got != 0 {
		t.Errorf("traversals = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.metrics.fastPath); got != 1 {
		t.Errorf("fast path = %v, want 1", got)
	}
}

func TestArtifacts_NilSpec(t *testing.T) {
	f := createDiamond(t)
	r := f.result(t)

	if _, err := r.Artifacts(context.Background(), nil); !errors.Is(err, ErrNilSpec) {
		t.Errorf("Artifacts(nil) error = %v, want ErrNilSpec", err)
	}
	if _, err := r.Files(context.Background(), nil); !errors.Is(err, ErrNilSpec) {
		t.Errorf("Files(nil) error = %v, want ErrNilSpec", err)
	}
	if f.loader.Calls() != 0 {
		t.Errorf("snapshot loaded %d times, want 0", f.loader.Calls())
	}
}

func TestFiles_Diamond(t *testing.T) {
	tests := []struct {
		name string
		spec depspec.Spec
		want []string
	}{
		{
			name: "b",
			spec: selectB,
			want: []string{"/native/c.so", "/repo/b-1.0.jar", "/repo/c-2.0-y.jar", "/repo/d-1.0.jar"},
		},
		{
			name: "a or b lists shared files once",
			spec: selectAB,
			want: []string{
				"/native/c.so",
				"/repo/a-1.0.jar", "/repo/b-1.0.jar", "/repo/c-2.0-x.jar", "/repo/d-1.0.jar", "/repo/c-2.0-y.jar",
			},
		},
		{
			name: "all",
			spec: depspec.SatisfyAll,
			want: []string{
				"/tools/t.jar", "/native/c.so",
				"/repo/a-1.0.jar", "/repo/b-1.0.jar", "/repo/c-2.0-x.jar", "/repo/c-2.0-y.jar", "/repo/d-1.0.jar",
			},
		},
		{
			name: "first-level file dependency",
			spec: depspec.OfKind(depspec.KindFiles),
			want: []string{"/tools/t.jar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createDiamond(t)
			r := f.result(t)

			got, err := r.Files(context.Background(), tt.spec)
			if err != nil {
				t.Fatalf("Files() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Files() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArtifactFiles_Diamond(t *testing.T) {
	f := createDiamond(t)
	r := f.result(t)

	got, err := r.ArtifactFiles(context.Background(), selectA)
	if err != nil {
		t.Fatalf("ArtifactFiles() error = %v", err)
	}
	var names, paths []string
	for _, af := range got {
		names = append(names, af.Artifact.ID.FileName())
		paths = append(paths, af.Path)
	}
	if diff := cmp.Diff([]string{"a-1.0.jar", "c-2.0-x.jar", "d-1.0.jar"}, names); diff != "" {
		t.Errorf("ArtifactFiles() artifacts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/repo/a-1.0.jar", "/repo/c-2.0-x.jar", "/repo/d-1.0.jar"}, paths); diff != "" {
		t.Errorf("ArtifactFiles() paths mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFiles_Additive(t *testing.T) {
	f := createDiamond(t)
	r := f.result(t)

	dest := NewFileSet("/existing/x.jar", "/repo/b-1.0.jar")
	if err := r.CollectFiles(context.Background(), selectB, dest); err != nil {
		t.Fatalf("CollectFiles() error = %v", err)
	}

	want := []string{"/existing/x.jar", "/repo/b-1.0.jar", "/native/c.so", "/repo/c-2.0-y.jar", "/repo/d-1.0.jar"}
	if diff := cmp.Diff(want, dest.Paths()); diff != "" {
		t.Errorf("CollectFiles() mismatch (-want +got):\n%s", diff)
	}

	if err := r.CollectFiles(context.Background(), selectB, nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("CollectFiles(nil dest) error = %v, want ErrNilDestination", err)
	}
}

func TestFilter_Leniency(t *testing.T) {
	missing := &fs.PathError{Op: "stat", Path: "/repo/broken.jar", Err: fs.ErrNotExist}

	externalOk := moduleJar("ok", "1.0", "", repoFile)
	externalBroken := moduleJar("broken", "1.0", "", artifact.FailingFile(missing))
	localOk := projectJar("lib", artifact.FixedFile("/build/lib.jar"))
	localBroken := projectJar("gen", artifact.FailingFile(missing))

	tests := []struct {
		name      string
		artifacts []artifact.ResolvedArtifact
		want      []string
		wantFiles []string
		wantDrops float64
		wantErr   bool
	}{
		{
			name:      "drops missing external artifacts",
			artifacts: []artifact.ResolvedArtifact{externalOk, externalBroken, localOk},
			want:      []string{"ok-1.0.jar", "lib.jar"},
			wantFiles: []string{"/repo/ok-1.0.jar", "/build/lib.jar"},
			wantDrops: 1,
		},
		{
			name:      "missing local artifact fails",
			artifacts: []artifact.ResolvedArtifact{externalOk, localBroken},
			wantErr:   true,
		},
		{
			name:      "no artifacts",
			artifacts: nil,
			want:      []string{},
			wantFiles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := &cachelock.Recording{}
			r, err := New(testConfiguration, Inputs{
				Artifacts:        ArtifactList(tt.artifacts),
				FileDependencies: filedeps.NewResults(),
				Snapshot:         snapshot.NewFailingLoader(nil),
				CacheLock:        lock,
			})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			got, err := r.Artifacts(context.Background(), depspec.SatisfyAll)
			if tt.wantErr {
				var re *artifact.ResolveError
				if !errors.As(err, &re) {
					t.Fatalf("Artifacts() error = %v, want *artifact.ResolveError", err)
				}
				if !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("Artifacts() error = %v, want fs.ErrNotExist in chain", err)
				}
				if _, err := r.Files(context.Background(), depspec.SatisfyAll); err == nil {
					t.Error("Files() error = nil, want failure")
				}
				if lock.Held() {
					t.Error("cache lock still held after failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Artifacts() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, fileNames(got)); diff != "" {
				t.Errorf("Artifacts() mismatch (-want +got):\n%s", diff)
			}

			files, err := r.Files(context.Background(), depspec.SatisfyAll)
			if err != nil {
				t.Fatalf("Files() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantFiles, files); diff != "" {
				t.Errorf("Files() mismatch (-want +got):\n%s", diff)
			}

			// Artifacts and Files each evaluated the broken artifact once.
			if got := testutil.ToFloat64(r.metrics.droppedArtifacts); got != 2*tt.wantDrops {
				t.Errorf("dropped = %v, want %v", got, 2*tt.wantDrops)
			}
		})
	}
}

func TestFilter_MissingLocalArtifactDuringTraversal(t *testing.T) {
	missing := errors.New("build output missing")

	b := graph.NewBuilder(graph.ModuleKey{Name: "compileClasspath"})
	lib := b.AddNode(graph.ModuleKey{Name: "lib", Configuration: "default"})
	ext := b.AddNode(graph.ModuleKey{Group: "org.example", Name: "ext", Version: "1.0"})
	b.AddEdge(b.Root(), lib, projectJar("lib", artifact.FailingFile(missing)))
	b.AddEdge(lib, ext, moduleJar("ext", "1.0", "", artifact.FailingFile(missing)))
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	snap := &snapshot.Snapshot{
		Graph: g,
		FirstLevel: []snapshot.FirstLevel{
			{Dependency: depspec.Dependency{Kind: depspec.KindProject, Name: ":lib"}, Node: lib},
		},
	}

	r, err := New(testConfiguration, Inputs{
		Artifacts:        ArtifactList(g.AllModuleArtifacts(g.Root().ID())),
		FileDependencies: filedeps.NewResults(),
		Snapshot:         snapshot.Static(snap),
		CacheLock:        &cachelock.Recording{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = r.Artifacts(context.Background(), depspec.OfKind(depspec.KindProject))
	var re *artifact.ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("Artifacts() error = %v, want *artifact.ResolveError", err)
	}
	if re.Artifact.Name != "lib" {
		t.Errorf("failing artifact = %s, want lib.jar", re.Artifact)
	}
	if !errors.Is(err, missing) {
		t.Errorf("errors.Is(err, missing) = false for %v", err)
	}
}

func TestCacheLockSpans(t *testing.T) {
	tests := []struct {
		name       string
		run        func(*Result) error
		wantLabels []string
	}{
		{
			name: "artifacts",
			run: func(r *Result) error {
				_, err := r.Artifacts(context.Background(), selectA)
				return err
			},
			wantLabels: []string{"retrieve artifacts from configuration ':app:runtimeClasspath'"},
		},
		{
			name: "files",
			run: func(r *Result) error {
				_, err := r.Files(context.Background(), selectA)
				return err
			},
			wantLabels: []string{
				"retrieve artifacts from configuration ':app:runtimeClasspath'",
				"resolve files from configuration ':app:runtimeClasspath'",
			},
		},
		{
			name: "artifact files",
			run: func(r *Result) error {
				_, err := r.ArtifactFiles(context.Background(), selectA)
				return err
			},
			wantLabels: []string{
				"retrieve artifacts from configuration ':app:runtimeClasspath'",
				"resolve files from configuration ':app:runtimeClasspath'",
			},
		},
		{
			name: "graph queries take no lock",
			run: func(r *Result) error {
				_, err := r.AllDependencies(context.Background())
				return err
			},
			wantLabels: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createDiamond(t)
			r := f.result(t)

			if err := tt.run(r); err != nil {
				t.Fatalf("query error = %v", err)
			}
			if diff := cmp.Diff(tt.wantLabels, f.lock.Labels()); diff != "" {
				t.Errorf("lock labels mismatch (-want +got):\n%s", diff)
			}
			if n := f.lock.Nested(); n != 0 {
				t.Errorf("nested spans = %d, want 0", n)
			}
			if f.lock.Held() {
				t.Error("cache lock still held")
			}
		})
	}
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	f := createDiamond(t)
	r1 := f.result(t, WithMetrics(reg))
	other := Configuration{Name: "compileClasspath", Path: ":app:compileClasspath"}
	r2, err := New(other, f.inputs(), WithMetrics(reg))
	if err != nil {
		t.Fatalf("New() with shared registry error = %v", err)
	}

	ctx := context.Background()
	if _, err := r1.Artifacts(ctx, selectA); err != nil {
		t.Fatal(err)
	}
	if _, err := r2.Artifacts(ctx, depspec.SatisfyAll); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(r1.metrics.traversals); got != 1 {
		t.Errorf("r1 traversals = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r2.metrics.fastPath); got != 1 {
		t.Errorf("r2 fast path = %v, want 1", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	series := 0
	for _, mf := range families {
		if mf.GetName() == "lenient_traversals_total" {
			series = len(mf.GetMetric())
		}
	}
	if series != 2 {
		t.Errorf("traversal series = %d, want 2", series)
	}
}
