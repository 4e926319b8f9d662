package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/depspec"
	"github.com/albertocavalcante/go-lenient/filedeps"
	"github.com/albertocavalcante/go-lenient/graph"
)

// documentPermissions is the file permission mode for written documents.
const documentPermissions = 0o600

// Artifact component kinds used in documents.
const (
	KindModule  = "module"
	KindProject = "project"
	KindOpaque  = "opaque"
)

// ErrInvalidDocument indicates a document that cannot be built into a snapshot.
var ErrInvalidDocument = errors.New("invalid snapshot document")

// Document is the serialized resolution result of one configuration.
type Document struct {
	Configuration    string            `json:"configuration" yaml:"configuration"`
	Path             string            `json:"path,omitempty" yaml:"path,omitempty"`
	Nodes            []NodeEntry       `json:"nodes" yaml:"nodes"`
	Artifacts        []ArtifactEntry   `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Edges            []EdgeEntry       `json:"edges" yaml:"edges"`
	FirstLevel       []RequestEntry    `json:"firstLevel,omitempty" yaml:"firstLevel,omitempty"`
	FileDependencies []FileEntry       `json:"fileDependencies,omitempty" yaml:"fileDependencies,omitempty"`
	Unresolved       []UnresolvedEntry `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`

	// BaseDir anchors relative paths. Read sets it to the document's directory.
	BaseDir string `json:"-" yaml:"-"`
}

// NodeEntry is a resolved module.
type NodeEntry struct {
	ID            string `json:"id" yaml:"id"`
	Group         string `json:"group,omitempty" yaml:"group,omitempty"`
	Name          string `json:"name" yaml:"name"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	Configuration string `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// ArtifactEntry is an artifact referenced by edges.
//
// Kind selects which component fields apply: Group/Module/Version for
// "module", Build/Project for "project", Component for "opaque". Path, when
// set, is the artifact's file; otherwise the file is found by the resolver
// passed to Build.
type ArtifactEntry struct {
	ID         string `json:"id" yaml:"id"`
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
	Module     string `json:"module,omitempty" yaml:"module,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	Build      string `json:"build,omitempty" yaml:"build,omitempty"`
	Project    string `json:"project,omitempty" yaml:"project,omitempty"`
	Component  string `json:"component,omitempty" yaml:"component,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Extension  string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
}

// EdgeEntry is a dependency of Parent on Child. An empty Parent is the
// configuration itself.
type EdgeEntry struct {
	Parent    string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Child     string   `json:"child" yaml:"child"`
	Artifacts []string `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// RequestEntry is a dependency declared on the configuration and the node
// resolution selected for it.
type RequestEntry struct {
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Node    string `json:"node" yaml:"node"`
}

// FileEntry is a file dependency. Without a Node it is declared directly on
// the configuration; with one, by that module.
type FileEntry struct {
	Name  string   `json:"name" yaml:"name"`
	Group string   `json:"group,omitempty" yaml:"group,omitempty"`
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	Node  string   `json:"node,omitempty" yaml:"node,omitempty"`
}

// UnresolvedEntry is a dependency that failed to resolve.
type UnresolvedEntry struct {
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Problem string `json:"problem" yaml:"problem"`
}

// Built is everything a document describes, ready for querying.
type Built struct {
	Configuration string
	Path          string
	Snapshot      *Snapshot

	// Files holds the file dependencies of the configuration.
	Files *filedeps.Results

	// Artifacts is every artifact contributed along any edge of the graph.
	Artifacts []artifact.ResolvedArtifact

	Unresolved []UnresolvedEntry

	// NodeIDs maps document node ids to graph nodes.
	NodeIDs map[string]graph.NodeID
}

// Read reads a document, choosing the format by file extension:
// .json, .yaml/.yml or .star/.bzl.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot document: %w", err)
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		doc, err = ParseJSON(data)
	case ".yaml", ".yml":
		doc, err = ParseYAML(data)
	case ".star", ".bzl":
		doc, err = ParseStarlark(filepath.Base(path), data)
	default:
		return nil, fmt.Errorf("unsupported snapshot document extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		doc.BaseDir = filepath.Dir(abs)
	} else {
		doc.BaseDir = filepath.Dir(path)
	}
	return doc, nil
}

// ParseJSON parses a JSON document. Unknown fields are rejected.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return &doc, nil
}

// ParseYAML parses a YAML document. Unknown fields are rejected.
func ParseYAML(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot YAML: %w", err)
	}
	return &doc, nil
}

// Marshal serializes the document to indented JSON. Output depends only on
// the document contents.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAMLDocument serializes the document to YAML.
func (d *Document) MarshalYAMLDocument() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the document in the format implied by the path's extension.
func (d *Document) WriteFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = d.Marshal()
	case ".yaml", ".yml":
		data, err = d.MarshalYAMLDocument()
	case ".star", ".bzl":
		data = FormatStarlark(d)
	default:
		return fmt.Errorf("unsupported snapshot document extension %q", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, documentPermissions)
}

// Build validates the document and materializes its snapshot.
//
// Artifacts without an explicit path resolve their files through resolver,
// which may be nil; such artifacts then fail to resolve on demand.
func (d *Document) Build(resolver artifact.FileResolver) (*Built, error) {
	if d.Configuration == "" {
		return nil, fmt.Errorf("%w: configuration name is required", ErrInvalidDocument)
	}

	b := graph.NewBuilder(graph.ModuleKey{Name: d.Configuration, Configuration: d.Configuration})
	ids := make(map[string]graph.NodeID, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" || n.Name == "" {
			return nil, fmt.Errorf("%w: node %q: id and name are required", ErrInvalidDocument, n.ID)
		}
		if _, dup := ids[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidDocument, n.ID)
		}
		cfg := n.Configuration
		if cfg == "" {
			cfg = "default"
		}
		ids[n.ID] = b.AddNode(graph.ModuleKey{Group: n.Group, Name: n.Name, Version: n.Version, Configuration: cfg})
	}

	arts := make(map[string]artifact.ResolvedArtifact, len(d.Artifacts))
	for _, a := range d.Artifacts {
		if _, dup := arts[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate artifact id %q", ErrInvalidDocument, a.ID)
		}
		ra, err := d.buildArtifact(a, resolver)
		if err != nil {
			return nil, err
		}
		arts[a.ID] = ra
	}

	for _, e := range d.Edges {
		parent := b.Root()
		if e.Parent != "" {
			p, ok := ids[e.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: edge %s -> %s: parent: %w", ErrInvalidDocument, e.Parent, e.Child, graph.ErrUnknownNode)
			}
			parent = p
		}
		child, ok := ids[e.Child]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s -> %s: child: %w", ErrInvalidDocument, e.Parent, e.Child, graph.ErrUnknownNode)
		}
		contributed := make([]artifact.ResolvedArtifact, 0, len(e.Artifacts))
		for _, ref := range e.Artifacts {
			ra, ok := arts[ref]
			if !ok {
				return nil, fmt.Errorf("%w: edge %s -> %s: unknown artifact %q", ErrInvalidDocument, e.Parent, e.Child, ref)
			}
			contributed = append(contributed, ra)
		}
		b.AddEdge(parent, child, contributed...)
	}

	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	firstLevel, err := d.firstLevel(g, ids)
	if err != nil {
		return nil, err
	}

	files := filedeps.NewResults()
	for _, f := range d.FileDependencies {
		paths := make([]string, len(f.Paths))
		for i, p := range f.Paths {
			paths[i] = d.resolvePath(p)
		}
		coll := filedeps.NewCollection(f.Name, paths...)
		if f.Node == "" {
			files.AddFirstLevel(depspec.Dependency{Kind: depspec.KindFiles, Group: f.Group, Name: f.Name}, coll)
			continue
		}
		node, ok := ids[f.Node]
		if !ok {
			return nil, fmt.Errorf("%w: file dependency %q: node %q: %w", ErrInvalidDocument, f.Name, f.Node, graph.ErrUnknownNode)
		}
		files.AddTransitive(node, coll)
	}

	return &Built{
		Configuration: d.Configuration,
		Path:          d.Path,
		Snapshot:      &Snapshot{Graph: g, FirstLevel: firstLevel},
		Files:         files,
		Artifacts:     g.AllModuleArtifacts(g.Root().ID()),
		Unresolved:    append([]UnresolvedEntry(nil), d.Unresolved...),
		NodeIDs:       ids,
	}, nil
}

func (d *Document) buildArtifact(a ArtifactEntry, resolver artifact.FileResolver) (artifact.ResolvedArtifact, error) {
	if a.ID == "" {
		return artifact.ResolvedArtifact{}, fmt.Errorf("%w: artifact id is required", ErrInvalidDocument)
	}

	id := artifact.ID{Name: a.Name, Type: a.Type, Extension: a.Extension, Classifier: a.Classifier}
	switch a.Kind {
	case "", KindModule:
		c, err := artifact.NewModuleComponentID(a.Group, a.Module, a.Version)
		if err != nil {
			return artifact.ResolvedArtifact{}, fmt.Errorf("%w: artifact %q: %w", ErrInvalidDocument, a.ID, err)
		}
		id.Component = c
		if id.Name == "" {
			id.Name = c.Module
		}
	case KindProject:
		if a.Project == "" {
			return artifact.ResolvedArtifact{}, fmt.Errorf("%w: artifact %q: project is required", ErrInvalidDocument, a.ID)
		}
		id.Component = artifact.ProjectComponentID{Build: a.Build, Project: a.Project}
	case KindOpaque:
		id.Component = artifact.OpaqueComponentID{Name: a.Component}
	default:
		return artifact.ResolvedArtifact{}, fmt.Errorf("%w: artifact %q: unknown kind %q", ErrInvalidDocument, a.ID, a.Kind)
	}
	if id.Name == "" {
		return artifact.ResolvedArtifact{}, fmt.Errorf("%w: artifact %q: name is required", ErrInvalidDocument, a.ID)
	}

	if a.Path != "" {
		return artifact.New(id, artifact.FixedFile(d.resolvePath(a.Path))), nil
	}
	return artifact.New(id, resolver), nil
}

func (d *Document) firstLevel(g *graph.Graph, ids map[string]graph.NodeID) ([]FirstLevel, error) {
	if len(d.FirstLevel) == 0 {
		root := g.Root()
		out := make([]FirstLevel, 0, len(root.Children()))
		for _, id := range root.Children() {
			key := g.Node(id).Key()
			out = append(out, FirstLevel{
				Dependency: depspec.Dependency{Kind: depspec.KindModule, Group: key.Group, Name: key.Name, Version: key.Version},
				Node:       id,
			})
		}
		return out, nil
	}

	out := make([]FirstLevel, 0, len(d.FirstLevel))
	for _, r := range d.FirstLevel {
		kind, err := depspec.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: first-level %s: %w", ErrInvalidDocument, r.Name, err)
		}
		node, ok := ids[r.Node]
		if !ok {
			return nil, fmt.Errorf("%w: first-level %s: node %q: %w", ErrInvalidDocument, r.Name, r.Node, graph.ErrUnknownNode)
		}
		out = append(out, FirstLevel{
			Dependency: depspec.Dependency{Kind: kind, Group: r.Group, Name: r.Name, Version: r.Version},
			Node:       node,
		})
	}
	return out, nil
}

func (d *Document) resolvePath(p string) string {
	if filepath.IsAbs(p) || d.BaseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(d.BaseDir, p)
}
