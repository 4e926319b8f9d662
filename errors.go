package lenient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCollaborator indicates a required input was not supplied to New.
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrNilSpec indicates a query was called with a nil dependency spec.
	ErrNilSpec = errors.New("nil dependency spec")

	// ErrNilDestination indicates CollectFiles was called without a destination.
	ErrNilDestination = errors.New("nil destination")

	// ErrUnresolved is the problem reported for an unresolved dependency
	// that carries none of its own.
	ErrUnresolved = errors.New("dependency could not be resolved")
)

// ResolveError aggregates the resolution failures of a configuration.
type ResolveError struct {
	Configuration Configuration
	Causes        []error
}

func (e *ResolveError) Error() string {
	msg := "could not resolve all dependencies for " + e.Configuration.String()
	if len(e.Causes) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, c := range e.Causes {
		fmt.Fprintf(&b, "\n  - %v", c)
	}
	return b.String()
}

// Unwrap returns every cause, in the order the failures were reported.
func (e *ResolveError) Unwrap() []error {
	return e.Causes
}
