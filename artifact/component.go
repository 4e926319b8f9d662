// Package artifact identifies the artifacts produced by dependency resolution
// and resolves their backing files on demand.
//
// Every artifact is owned by a component. Three kinds of component exist:
//   - [ModuleComponentID]: a module resolved from an external repository
//   - [ProjectComponentID]: a project of the current build
//   - [OpaqueComponentID]: anything else, such as ad-hoc files
//
// Artifact identity ([ID]) is independent of whether the backing file can be
// resolved. Resolving the file is a separate step ([ResolvedArtifact.File])
// that may fail with a [*ResolveError].
package artifact

import (
	"fmt"
	"regexp"
)

// ComponentID identifies the component that owns an artifact.
// The set of implementations is closed to this package.
type ComponentID interface {
	// DisplayName returns a human-readable form of the identifier.
	DisplayName() string

	isComponentID()
}

// ModuleComponentID identifies a module resolved from an external repository.
type ModuleComponentID struct {
	Group   string
	Module  string
	Version string
}

// Module coordinates may not contain separators or whitespace.
var coordinateRegex = regexp.MustCompile(`^[^:\s/\\]+$`)

// NewModuleComponentID creates a validated ModuleComponentID.
// Group may be empty; module and version may not.
func NewModuleComponentID(group, module, version string) (ModuleComponentID, error) {
	if group != "" && !coordinateRegex.MatchString(group) {
		return ModuleComponentID{}, fmt.Errorf("invalid module group %q", group)
	}
	if module == "" {
		return ModuleComponentID{}, fmt.Errorf("module name cannot be empty")
	}
	if !coordinateRegex.MatchString(module) {
		return ModuleComponentID{}, fmt.Errorf("invalid module name %q", module)
	}
	if version == "" {
		return ModuleComponentID{}, fmt.Errorf("module %q: version cannot be empty", module)
	}
	if !coordinateRegex.MatchString(version) {
		return ModuleComponentID{}, fmt.Errorf("module %q: invalid version %q", module, version)
	}
	return ModuleComponentID{Group: group, Module: module, Version: version}, nil
}

// MustModuleComponentID creates a ModuleComponentID or panics. Use only for constants/tests.
func MustModuleComponentID(group, module, version string) ModuleComponentID {
	id, err := NewModuleComponentID(group, module, version)
	if err != nil {
		panic(err)
	}
	return id
}

// DisplayName returns "group:module:version".
func (m ModuleComponentID) DisplayName() string {
	return m.Group + ":" + m.Module + ":" + m.Version
}

func (ModuleComponentID) isComponentID() {}

// ProjectComponentID identifies a project of the build being executed.
type ProjectComponentID struct {
	// Build is the path of the owning build, empty for the root build.
	Build string
	// Project is the project path, e.g. ":app".
	Project string
}

// DisplayName returns "project :path", qualified by the build when set.
func (p ProjectComponentID) DisplayName() string {
	if p.Build == "" {
		return "project " + p.Project
	}
	return "project " + p.Build + p.Project
}

func (ProjectComponentID) isComponentID() {}

// OpaqueComponentID identifies a component with no module or project identity.
type OpaqueComponentID struct {
	Name string
}

// DisplayName returns the component name.
func (o OpaqueComponentID) DisplayName() string {
	return o.Name
}

func (OpaqueComponentID) isComponentID() {}

// IsExternalModule reports whether c identifies a module resolved from an
// external repository.
func IsExternalModule(c ComponentID) bool {
	_, ok := c.(ModuleComponentID)
	return ok
}
