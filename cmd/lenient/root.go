package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	lenient "github.com/albertocavalcante/go-lenient"
	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/artifactstore"
	"github.com/albertocavalcante/go-lenient/cachelock"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/snapshot"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
)

// options holds the flags shared by every command.
type options struct {
	snapshot  string
	store     string
	lock      string
	include   []string
	exclude   []string
	format    string
	verbose   bool
	cacheSize int

	stderr io.Writer

	// locker, when set, replaces the lock chosen by --lock.
	locker cachelock.Locker
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newCommand(stdout, &options{stderr: stderr})
}

func newCommand(stdout io.Writer, opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "lenient",
		Short: "Query a recorded dependency resolution result",
		Long: `lenient loads the resolution result of one configuration from a snapshot
document (JSON, YAML or Starlark) and answers lenient queries against it:
unresolved dependencies are reported instead of failing the query, and
external artifacts whose files are missing from the store are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(opts.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.snapshot, "snapshot", "", "snapshot document (.json, .yaml, .yml, .star, .bzl)")
	pf.StringVar(&opts.store, "store", "", "artifact store directory used to locate module artifacts")
	pf.StringVar(&opts.lock, "lock", "", "lock file guarding the artifact store (default: in-process lock)")
	pf.StringSliceVar(&opts.include, "include", nil, "select first-level dependencies matching group:name (repeatable, globs allowed)")
	pf.StringSliceVar(&opts.exclude, "exclude", nil, "drop first-level dependencies matching group:name (repeatable, globs allowed)")
	pf.StringVar(&opts.format, "format", formatText, "output format: text or json (graph also accepts dot)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log query diagnostics to stderr")
	pf.IntVar(&opts.cacheSize, "store-cache-size", 0, "resolved path cache entries (0 uses the store default)")
	_ = root.MarkPersistentFlagRequired("snapshot")

	root.AddCommand(
		newArtifactsCmd(opts),
		newFilesCmd(opts),
		newDepsCmd(opts),
		newGraphCmd(opts),
		newWhyCmd(opts),
		newCheckCmd(opts),
	)
	return root
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: level}))
}

// spec combines --include and --exclude. With neither flag every dependency
// is selected.
func (o *options) spec() (depspec.Spec, error) {
	include, err := depspec.ParseAll(o.include)
	if err != nil {
		return nil, fmt.Errorf("--include: %w", err)
	}
	if len(o.exclude) == 0 {
		return include, nil
	}
	exclude, err := depspec.ParseAll(o.exclude)
	if err != nil {
		return nil, fmt.Errorf("--exclude: %w", err)
	}
	return depspec.And(include, depspec.Not(exclude)), nil
}

func (o *options) checkFormat(allowed ...string) error {
	for _, f := range allowed {
		if o.format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported --format %q (want one of %v)", o.format, allowed)
}

// session is a loaded snapshot document and the lenient result over it.
type session struct {
	built  *snapshot.Built
	result *lenient.Result
}

func (o *options) load() (*session, error) {
	if o.snapshot == "" {
		return nil, errors.New("--snapshot is required")
	}
	log := o.logger()

	doc, err := snapshot.Read(o.snapshot)
	if err != nil {
		return nil, err
	}

	var resolver artifact.FileResolver
	if o.store != "" {
		storeOpts := []artifactstore.Option{artifactstore.WithLogger(log)}
		if o.cacheSize > 0 {
			storeOpts = append(storeOpts, artifactstore.WithCacheSize(o.cacheSize))
		}
		store, err := artifactstore.New(o.store, storeOpts...)
		if err != nil {
			return nil, err
		}
		resolver = store
	}

	built, err := doc.Build(resolver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.snapshot, err)
	}

	var lock cachelock.Locker = &cachelock.Mutex{}
	switch {
	case o.locker != nil:
		lock = o.locker
	case o.lock != "":
		lock = cachelock.NewFile(o.lock)
	}

	unresolved := make([]lenient.UnresolvedDependency, len(built.Unresolved))
	for i, u := range built.Unresolved {
		unresolved[i] = lenient.UnresolvedDependency{
			Selector: lenient.ModuleSelector{Group: u.Group, Name: u.Name, Version: u.Version},
		}
		if u.Problem != "" {
			unresolved[i].Problem = errors.New(u.Problem)
		}
	}

	res, err := lenient.New(
		lenient.Configuration{Name: built.Configuration, Path: built.Path},
		lenient.Inputs{
			Unresolved:       unresolved,
			Artifacts:        lenient.ArtifactList(built.Artifacts),
			FileDependencies: built.Files,
			Snapshot:         snapshot.Static(built.Snapshot),
			CacheLock:        lock,
		},
		lenient.WithLogger(log.With("component", "lenient")),
	)
	if err != nil {
		return nil, err
	}
	return &session{built: built, result: res}, nil
}
