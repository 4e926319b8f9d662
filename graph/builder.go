package graph

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-lenient/artifact"
)

// Builder constructs a Graph.
//
// Nodes are deduplicated by ModuleKey: adding the same key twice returns the
// same NodeID, which is what keeps node identity stable across diamonds.
// Builder methods record the first error; Build reports it.
type Builder struct {
	nodes []*Node
	byKey map[ModuleKey]NodeID
	err   error
}

// NewBuilder creates a builder whose synthetic root stands for the given configuration.
func NewBuilder(root ModuleKey) *Builder {
	b := &Builder{byKey: make(map[ModuleKey]NodeID)}
	b.nodes = append(b.nodes, &Node{
		id:              0,
		key:             root,
		isRoot:          true,
		parentArtifacts: make(map[NodeID][]artifact.ResolvedArtifact),
	})
	return b
}

// Root returns the id of the synthetic root.
func (b *Builder) Root() NodeID {
	return 0
}

// AddNode adds a node for key, or returns the existing one.
func (b *Builder) AddNode(key ModuleKey) NodeID {
	if id, ok := b.byKey[key]; ok {
		return id
	}
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, &Node{
		id:              id,
		key:             key,
		parentArtifacts: make(map[NodeID][]artifact.ResolvedArtifact),
	})
	b.byKey[key] = id
	return id
}

// Lookup returns the id of the node added for key.
func (b *Builder) Lookup(key ModuleKey) (NodeID, bool) {
	id, ok := b.byKey[key]
	return id, ok
}

// AddEdge records that parent depends on child, contributing artifacts along
// that edge. Adding the same edge again merges the artifacts, deduplicated by id.
func (b *Builder) AddEdge(parent, child NodeID, artifacts ...artifact.ResolvedArtifact) {
	if b.err != nil {
		return
	}
	if !b.valid(parent) {
		b.err = fmt.Errorf("edge %d -> %d: parent: %w", parent, child, ErrUnknownNode)
		return
	}
	if !b.valid(child) {
		b.err = fmt.Errorf("edge %d -> %d: child: %w", parent, child, ErrUnknownNode)
		return
	}
	if child == b.Root() {
		b.err = fmt.Errorf("edge %s -> %s: the configuration root cannot be a dependency: %w",
			b.nodes[parent], b.nodes[child], ErrCycle)
		return
	}

	p, c := b.nodes[parent], b.nodes[child]
	existing, seen := c.parentArtifacts[parent]
	if !seen {
		p.children = append(p.children, child)
		c.parents = append(c.parents, parent)
		existing = []artifact.ResolvedArtifact{}
	}
	for _, a := range artifacts {
		if !containsArtifact(existing, a.ID) {
			existing = append(existing, a)
		}
	}
	c.parentArtifacts[parent] = existing
}

// Build validates the graph and returns it. The builder must not be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := &Graph{root: b.Root(), nodes: b.nodes}
	if cycles := g.FindCycles(); len(cycles) > 0 {
		parts := make([]string, len(cycles[0]))
		for i, id := range cycles[0] {
			parts[i] = g.nodes[id].String()
		}
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(parts, " -> "))
	}
	return g, nil
}

func (b *Builder) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(b.nodes)
}

func containsArtifact(arts []artifact.ResolvedArtifact, id artifact.ID) bool {
	for _, a := range arts {
		if a.ID == id {
			return true
		}
	}
	return false
}
