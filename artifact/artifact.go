package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResolver is wrapped by File when an artifact was created without a resolver.
var ErrNoResolver = errors.New("no file resolver")

// ID identifies one artifact of a component.
// IDs are comparable and may be used as map keys.
type ID struct {
	Component  ComponentID
	Name       string
	Type       string
	Extension  string
	Classifier string
}

// FileName returns the conventional file name of the artifact:
// name[-version][-classifier][.extension]. The version is included for
// module artifacts only.
func (id ID) FileName() string {
	var b strings.Builder
	b.WriteString(id.Name)
	if m, ok := id.Component.(ModuleComponentID); ok {
		b.WriteString("-" + m.Version)
	}
	if id.Classifier != "" {
		b.WriteString("-" + id.Classifier)
	}
	if id.Extension != "" {
		b.WriteString("." + id.Extension)
	}
	return b.String()
}

// String returns "file-name (component)".
func (id ID) String() string {
	if id.Component == nil {
		return id.FileName()
	}
	return fmt.Sprintf("%s (%s)", id.FileName(), id.Component.DisplayName())
}

// FileResolver materializes the backing file of an artifact.
// An empty path with a nil error means the artifact has no file.
type FileResolver interface {
	ResolveFile(id ID) (string, error)
}

// FileResolverFunc adapts a function to FileResolver.
type FileResolverFunc func(id ID) (string, error)

// ResolveFile calls f(id).
func (f FileResolverFunc) ResolveFile(id ID) (string, error) {
	return f(id)
}

// FixedFile returns a resolver that always resolves to path.
func FixedFile(path string) FileResolver {
	return FileResolverFunc(func(ID) (string, error) {
		return path, nil
	})
}

// FailingFile returns a resolver that always fails with err.
func FailingFile(err error) FileResolver {
	return FileResolverFunc(func(ID) (string, error) {
		return "", err
	})
}

// ResolvedArtifact is an artifact selected by dependency resolution.
// Its backing file is resolved on demand by File.
type ResolvedArtifact struct {
	ID ID

	resolver FileResolver
}

// New creates a ResolvedArtifact whose file is resolved by r.
func New(id ID, r FileResolver) ResolvedArtifact {
	return ResolvedArtifact{ID: id, resolver: r}
}

// File resolves the backing file of the artifact.
// Every failure is reported as a *ResolveError.
func (a ResolvedArtifact) File() (string, error) {
	if a.resolver == nil {
		return "", &ResolveError{Artifact: a.ID, Err: ErrNoResolver}
	}
	path, err := a.resolver.ResolveFile(a.ID)
	if err != nil {
		var re *ResolveError
		if errors.As(err, &re) {
			return "", err
		}
		return "", &ResolveError{Artifact: a.ID, Err: err}
	}
	return path, nil
}

// String returns the artifact identifier.
func (a ResolvedArtifact) String() string {
	return a.ID.String()
}

// ResolveError reports that the backing file of an artifact could not be resolved.
type ResolveError struct {
	Artifact ID
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("could not resolve artifact %s: %v", e.Artifact, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IDs returns the identifiers of artifacts, in order.
func IDs(artifacts []ResolvedArtifact) []ID {
	ids := make([]ID, len(artifacts))
	for i, a := range artifacts {
		ids[i] = a.ID
	}
	return ids
}
