package lenient

import (
	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/cachelock"
)

// filterArtifacts drops the external artifacts whose file cannot be resolved.
// It reads the artifact cache, so it runs under the cache lock.
func (r *Result) filterArtifacts(candidates []artifact.ResolvedArtifact) ([]artifact.ResolvedArtifact, error) {
	label := "retrieve artifacts from " + r.cfg.String()
	return cachelock.Do(r.lock, label, func() ([]artifact.ResolvedArtifact, error) {
		kept := make([]artifact.ResolvedArtifact, 0, len(candidates))
		for _, a := range candidates {
			keep, err := r.ignoreMissingExternalArtifacts(a)
			if err != nil {
				return nil, err
			}
			if keep {
				kept = append(kept, a)
			}
		}
		return kept, nil
	})
}

// ignoreMissingExternalArtifacts reports whether a should be kept. A missing
// file is tolerated only for artifacts of external modules.
func (r *Result) ignoreMissingExternalArtifacts(a artifact.ResolvedArtifact) (bool, error) {
	if _, err := a.File(); err != nil {
		if !artifact.IsExternalModule(a.ID.Component) {
			return false, err
		}
		r.metrics.droppedArtifacts.Inc()
		r.logger.Debug("dropping unresolvable external artifact", "artifact", a.String(), "error", err)
		return false, nil
	}
	return true, nil
}

// materialize adds the files of arts to dest under the cache lock.
func (r *Result) materialize(arts []artifact.ResolvedArtifact, dest *FileSet) error {
	return r.resolveFiles(arts, func(_ artifact.ResolvedArtifact, path string) {
		dest.Add(path)
	})
}

// resolveFiles resolves the file of every artifact in arts, in order, and
// passes it to fn. All reads happen inside one cache lock span.
func (r *Result) resolveFiles(arts []artifact.ResolvedArtifact, fn func(a artifact.ResolvedArtifact, path string)) error {
	return r.lock.UseCache("resolve files from "+r.cfg.String(), func() error {
		for _, a := range arts {
			path, err := a.File()
			if err != nil {
				return err
			}
			fn(a, path)
		}
		return nil
	})
}
