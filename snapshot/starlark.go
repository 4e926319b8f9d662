package snapshot

import (
	"fmt"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-lenient/internal/buildutil"
)

// ParseStarlark parses a document written as Starlark calls:
//
//	configuration(name = "runtimeClasspath", path = ":app:runtimeClasspath")
//	node(id = "guava", group = "com.google.guava", name = "guava", version = "33.0")
//	artifact(id = "guava-jar", group = "com.google.guava", module = "guava", version = "33.0", extension = "jar")
//	edge(child = "guava", artifacts = ["guava-jar"])
//	first_level(group = "com.google.guava", name = "guava", node = "guava")
//	file_dependency(name = "tools", paths = ["libs/tools.jar"])
//	unresolved(group = "org.example", name = "gone", version = "1.0", problem = "not found")
//
// Only keyword arguments are accepted. Unknown functions and keywords are errors.
func ParseStarlark(filename string, data []byte) (*Document, error) {
	f, err := build.ParseDefault(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot Starlark: %w", err)
	}

	doc := &Document{}
	for _, stmt := range f.Stmt {
		if _, ok := stmt.(*build.CommentBlock); ok {
			continue
		}
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			start, _ := stmt.Span()
			return nil, fmt.Errorf("line %d: expected a call, got %s", start.Line, build.FormatString(stmt))
		}
		if err := doc.applyCall(call); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) applyCall(call *build.CallExpr) error {
	switch name := buildutil.FuncName(call); name {
	case "configuration":
		return bind(call, map[string]*string{
			"name": &d.Configuration,
			"path": &d.Path,
		}, nil)

	case "node":
		var n NodeEntry
		if err := bind(call, map[string]*string{
			"id":            &n.ID,
			"group":         &n.Group,
			"name":          &n.Name,
			"version":       &n.Version,
			"configuration": &n.Configuration,
		}, nil); err != nil {
			return err
		}
		d.Nodes = append(d.Nodes, n)

	case "artifact":
		var a ArtifactEntry
		if err := bind(call, map[string]*string{
			"id":         &a.ID,
			"kind":       &a.Kind,
			"group":      &a.Group,
			"module":     &a.Module,
			"version":    &a.Version,
			"build":      &a.Build,
			"project":    &a.Project,
			"component":  &a.Component,
			"name":       &a.Name,
			"type":       &a.Type,
			"extension":  &a.Extension,
			"classifier": &a.Classifier,
			"path":       &a.Path,
		}, nil); err != nil {
			return err
		}
		d.Artifacts = append(d.Artifacts, a)

	case "edge":
		var e EdgeEntry
		if err := bind(call, map[string]*string{
			"parent": &e.Parent,
			"child":  &e.Child,
		}, map[string]*[]string{
			"artifacts": &e.Artifacts,
		}); err != nil {
			return err
		}
		d.Edges = append(d.Edges, e)

	case "first_level":
		var r RequestEntry
		if err := bind(call, map[string]*string{
			"kind":    &r.Kind,
			"group":   &r.Group,
			"name":    &r.Name,
			"version": &r.Version,
			"node":    &r.Node,
		}, nil); err != nil {
			return err
		}
		d.FirstLevel = append(d.FirstLevel, r)

	case "file_dependency":
		var fe FileEntry
		if err := bind(call, map[string]*string{
			"name":  &fe.Name,
			"group": &fe.Group,
			"node":  &fe.Node,
		}, map[string]*[]string{
			"paths": &fe.Paths,
		}); err != nil {
			return err
		}
		d.FileDependencies = append(d.FileDependencies, fe)

	case "unresolved":
		var u UnresolvedEntry
		if err := bind(call, map[string]*string{
			"group":   &u.Group,
			"name":    &u.Name,
			"version": &u.Version,
			"problem": &u.Problem,
		}, nil); err != nil {
			return err
		}
		d.Unresolved = append(d.Unresolved, u)

	default:
		return fmt.Errorf("line %d: unknown function %q", buildutil.Line(call), name)
	}
	return nil
}

// bind copies keyword arguments of call into the given destinations.
func bind(call *build.CallExpr, strs map[string]*string, lists map[string]*[]string) error {
	for _, arg := range call.List {
		if _, ok := arg.(*build.AssignExpr); !ok {
			return fmt.Errorf("line %d: %s: positional arguments are not supported",
				buildutil.Line(call), buildutil.FuncName(call))
		}
	}
	for _, kw := range buildutil.Keywords(call) {
		if _, ok := strs[kw]; ok {
			continue
		}
		if _, ok := lists[kw]; ok {
			continue
		}
		return fmt.Errorf("line %d: %s: unknown argument %q", buildutil.Line(call), buildutil.FuncName(call), kw)
	}

	for kw, dst := range strs {
		v, err := buildutil.String(call, kw)
		if err != nil {
			return err
		}
		*dst = v
	}
	for kw, dst := range lists {
		v, err := buildutil.StringList(call, kw)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// FormatStarlark renders d in the form ParseStarlark reads.
// Empty attributes are omitted.
func FormatStarlark(d *Document) []byte {
	var stmts []build.Expr
	add := func(fn string, kv ...any) {
		stmts = append(stmts, callExpr(fn, kv...))
	}

	add("configuration", "name", d.Configuration, "path", d.Path)
	for _, n := range d.Nodes {
		add("node", "id", n.ID, "group", n.Group, "name", n.Name, "version", n.Version, "configuration", n.Configuration)
	}
	for _, a := range d.Artifacts {
		add("artifact",
			"id", a.ID, "kind", a.Kind,
			"group", a.Group, "module", a.Module, "version", a.Version,
			"build", a.Build, "project", a.Project, "component", a.Component,
			"name", a.Name, "type", a.Type, "extension", a.Extension, "classifier", a.Classifier,
			"path", a.Path)
	}
	for _, e := range d.Edges {
		add("edge", "parent", e.Parent, "child", e.Child, "artifacts", e.Artifacts)
	}
	for _, r := range d.FirstLevel {
		add("first_level", "kind", r.Kind, "group", r.Group, "name", r.Name, "version", r.Version, "node", r.Node)
	}
	for _, f := range d.FileDependencies {
		add("file_dependency", "name", f.Name, "group", f.Group, "paths", f.Paths, "node", f.Node)
	}
	for _, u := range d.Unresolved {
		add("unresolved", "group", u.Group, "name", u.Name, "version", u.Version, "problem", u.Problem)
	}

	return build.FormatWithoutRewriting(&build.File{Type: build.TypeDefault, Stmt: stmts})
}

// callExpr builds name(k1 = v1, ...) from alternating keys and values.
// Values are strings or string slices; empty values are skipped.
func callExpr(name string, kv ...any) *build.CallExpr {
	c := &build.CallExpr{X: &build.Ident{Name: name}}
	for i := 0; i+1 < len(kv); i += 2 {
		var rhs build.Expr
		switch v := kv[i+1].(type) {
		case string:
			if v == "" {
				continue
			}
			rhs = &build.StringExpr{Value: v}
		case []string:
			if len(v) == 0 {
				continue
			}
			list := &build.ListExpr{}
			for _, s := range v {
				list.List = append(list.List, &build.StringExpr{Value: s})
			}
			rhs = list
		default:
			panic(fmt.Sprintf("unsupported attribute type %T", v))
		}
		c.List = append(c.List, &build.AssignExpr{
			LHS: &build.Ident{Name: kv[i].(string)},
			Op:  "=",
			RHS: rhs,
		})
	}
	return c
}
