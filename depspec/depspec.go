// Package depspec describes first-level dependency requests and the
// predicates used to select among them.
//
// A [Spec] is tested against the [Dependency] a configuration declared, not
// against the module that resolution selected for it. The distinguished
// [SatisfyAll] spec lets consumers recognize "nothing is excluded" and skip
// work that would only reproduce the unfiltered answer.
package depspec

import (
	"fmt"
	"path"
	"strings"
)

// Kind classifies a dependency request.
type Kind int

const (
	// KindModule is a request for an external module.
	KindModule Kind = iota

	// KindProject is a request for another project of the build.
	KindProject

	// KindFiles is a request for a fixed collection of files.
	KindFiles
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindProject:
		return "project"
	case KindFiles:
		return "files"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the output of Kind.String. An empty string is KindModule.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "module":
		return KindModule, nil
	case "project":
		return KindProject, nil
	case "files":
		return KindFiles, nil
	default:
		return 0, fmt.Errorf("unknown dependency kind %q", s)
	}
}

// Dependency is a dependency request declared directly on a configuration.
// Dependency values are comparable.
type Dependency struct {
	Kind    Kind
	Group   string
	Name    string
	Version string
}

// String returns "group:name:version" with empty parts omitted from the end.
func (d Dependency) String() string {
	s := d.Group + ":" + d.Name
	if d.Version != "" {
		s += ":" + d.Version
	}
	if d.Kind == KindFiles && d.Group == "" {
		return "files " + d.Name
	}
	return s
}

// Spec decides whether a dependency request is selected.
type Spec interface {
	IsSatisfiedBy(dep Dependency) bool
}

// Func adapts a function to Spec.
type Func func(dep Dependency) bool

// IsSatisfiedBy calls f(dep).
func (f Func) IsSatisfiedBy(dep Dependency) bool {
	return f(dep)
}

type satisfyAll struct{}

func (satisfyAll) IsSatisfiedBy(Dependency) bool { return true }
func (satisfyAll) String() string                { return "*" }

type satisfyNone struct{}

func (satisfyNone) IsSatisfiedBy(Dependency) bool { return false }
func (satisfyNone) String() string                { return "none" }

var (
	// SatisfyAll is satisfied by every dependency. Consumers may compare
	// against it with IsSatisfyAll to take shortcuts.
	SatisfyAll Spec = satisfyAll{}

	// SatisfyNone is satisfied by no dependency.
	SatisfyNone Spec = satisfyNone{}
)

// IsSatisfyAll reports whether s is the SatisfyAll sentinel.
// A Func that happens to accept everything is not the sentinel.
func IsSatisfyAll(s Spec) bool {
	_, ok := s.(satisfyAll)
	return ok
}

// And returns a spec satisfied when every spec is satisfied.
// SatisfyAll members are dropped, so And() and And(SatisfyAll) are SatisfyAll.
func And(specs ...Spec) Spec {
	filtered := make([]Spec, 0, len(specs))
	for _, s := range specs {
		if IsSatisfyAll(s) {
			continue
		}
		filtered = append(filtered, s)
	}
	switch len(filtered) {
	case 0:
		return SatisfyAll
	case 1:
		return filtered[0]
	}
	return Func(func(dep Dependency) bool {
		for _, s := range filtered {
			if !s.IsSatisfiedBy(dep) {
				return false
			}
		}
		return true
	})
}

// Or returns a spec satisfied when any spec is satisfied.
// If any member is SatisfyAll the result is SatisfyAll; Or() is SatisfyNone.
func Or(specs ...Spec) Spec {
	if len(specs) == 0 {
		return SatisfyNone
	}
	for _, s := range specs {
		if IsSatisfyAll(s) {
			return SatisfyAll
		}
	}
	if len(specs) == 1 {
		return specs[0]
	}
	members := append([]Spec(nil), specs...)
	return Func(func(dep Dependency) bool {
		for _, s := range members {
			if s.IsSatisfiedBy(dep) {
				return true
			}
		}
		return false
	})
}

// Not returns a spec satisfied when s is not.
func Not(s Spec) Spec {
	if IsSatisfyAll(s) {
		return SatisfyNone
	}
	if _, ok := s.(satisfyNone); ok {
		return SatisfyAll
	}
	return Func(func(dep Dependency) bool {
		return !s.IsSatisfiedBy(dep)
	})
}

// Module returns a spec satisfied by requests for group:name.
// An empty group matches any group.
func Module(group, name string) Spec {
	return Func(func(dep Dependency) bool {
		if group != "" && dep.Group != group {
			return false
		}
		return dep.Name == name
	})
}

// OfKind returns a spec satisfied by requests of kind k.
func OfKind(k Kind) Spec {
	return Func(func(dep Dependency) bool {
		return dep.Kind == k
	})
}

// Parse parses a selector of the form "*", "name" or "group:name".
// Both parts accept path.Match glob patterns.
func Parse(selector string) (Spec, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("empty dependency selector")
	}
	if selector == "*" || selector == "*:*" {
		return SatisfyAll, nil
	}

	groupPattern, namePattern := "*", selector
	if i := strings.LastIndex(selector, ":"); i >= 0 {
		groupPattern, namePattern = selector[:i], selector[i+1:]
	}
	for _, p := range []string{groupPattern, namePattern} {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid dependency selector %q: %w", selector, err)
		}
	}

	return Func(func(dep Dependency) bool {
		g, _ := path.Match(groupPattern, dep.Group)
		n, _ := path.Match(namePattern, dep.Name)
		return g && n
	}), nil
}

// ParseAll parses each selector and combines them with Or.
// No selectors at all yields SatisfyAll.
func ParseAll(selectors []string) (Spec, error) {
	if len(selectors) == 0 {
		return SatisfyAll, nil
	}
	specs := make([]Spec, 0, len(selectors))
	for _, sel := range selectors {
		s, err := Parse(sel)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return Or(specs...), nil
}
