// Package lenient extracts artifacts and files from the resolved dependency
// graph of one configuration, tolerating partial resolution failures.
//
// A [Result] wraps what dependency resolution produced for a configuration:
// the dependencies that failed to resolve, the precomputed set of every
// resolved artifact, the file dependencies, and a lazily loaded graph
// snapshot. Queries select a subset of the configuration's first-level
// dependencies with a [depspec.Spec] and return what is reachable from them.
//
// # Lenient semantics
//
// Extraction never fails merely because resolution failed for some
// dependency; failures are reported only by [Result.RethrowFailure]. An
// artifact of an external module whose file cannot be resolved is dropped
// from the result. An artifact of a local project or an ad-hoc file whose
// file cannot be resolved is a hard failure.
//
// # Quick Start
//
//	res, err := lenient.New(lenient.Configuration{Name: "runtimeClasspath"}, lenient.Inputs{
//	    Unresolved:       unresolved,
//	    Artifacts:        lenient.ArtifactList(all),
//	    FileDependencies: fileResults,
//	    Snapshot:         loader,
//	    CacheLock:        &cachelock.Mutex{},
//	})
//
//	// Everything: answered from the precomputed set, no graph traversal.
//	files, err := res.Files(ctx, depspec.SatisfyAll)
//
//	// A subset: walks the graph below the matching first-level dependencies.
//	arts, err := res.Artifacts(ctx, depspec.Module("com.google.guava", "guava"))
//
// # Thread Safety
//
// A Result is safe for concurrent use. Each query uses its own accumulators.
package lenient
