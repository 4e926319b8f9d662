package graph

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/internal/ordered"
)

var (
	// ErrCycle indicates the dependency relation is not acyclic.
	ErrCycle = errors.New("dependency cycle")

	// ErrUnknownNode indicates a reference to a node id the graph does not own.
	ErrUnknownNode = errors.New("unknown node")
)

// NodeID addresses a node within its owning Graph.
// IDs are only meaningful for the graph (or builder) that issued them.
type NodeID int

// ModuleKey identifies the module version and configuration a node stands for.
type ModuleKey struct {
	Group         string
	Name          string
	Version       string
	Configuration string
}

// String returns "group:name:version".
func (k ModuleKey) String() string {
	return k.Group + ":" + k.Name + ":" + k.Version
}

// Graph is a resolved dependency DAG rooted at a synthetic node for the configuration.
// A Graph is immutable once built and safe for concurrent reads.
type Graph struct {
	root  NodeID
	nodes []*Node
}

// Node is a resolved module in the graph.
type Node struct {
	id       NodeID
	key      ModuleKey
	isRoot   bool
	children []NodeID
	parents  []NodeID

	// parentArtifacts holds the artifacts contributed along each incoming edge.
	parentArtifacts map[NodeID][]artifact.ResolvedArtifact
}

// ID returns the node's identifier.
func (n *Node) ID() NodeID { return n.id }

// Key returns the module the node stands for.
func (n *Node) Key() ModuleKey { return n.key }

// IsRoot reports whether n is the synthetic configuration root.
func (n *Node) IsRoot() bool { return n.isRoot }

// Children returns the direct dependencies of n, in declaration order.
func (n *Node) Children() []NodeID {
	return append([]NodeID(nil), n.children...)
}

// Parents returns the nodes that depend directly on n.
func (n *Node) Parents() []NodeID {
	return append([]NodeID(nil), n.parents...)
}

// ParentArtifacts returns the artifacts n contributes along the edge from parent.
// It returns nil when parent does not depend on n.
func (n *Node) ParentArtifacts(parent NodeID) []artifact.ResolvedArtifact {
	arts := n.parentArtifacts[parent]
	if arts == nil {
		return nil
	}
	return append([]artifact.ResolvedArtifact(nil), arts...)
}

// ModuleArtifacts returns the union of the artifacts n contributes to any
// parent, ordered by parent and deduplicated by artifact id.
func (n *Node) ModuleArtifacts() []artifact.ResolvedArtifact {
	var m ordered.Map[artifact.ID, artifact.ResolvedArtifact]
	for _, p := range n.parents {
		for _, a := range n.parentArtifacts[p] {
			m.PutIfAbsent(a.ID, a)
		}
	}
	return m.Values()
}

// String returns the module key, or the configuration name for the root.
func (n *Node) String() string {
	if n.isRoot {
		return fmt.Sprintf("<%s>", n.key.Name)
	}
	return n.key.String()
}

// Root returns the synthetic configuration root.
func (g *Graph) Root() *Node {
	return g.nodes[g.root]
}

// Node returns the node with the given id, or nil if g does not own it.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Len returns the number of nodes, including the root.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node in id order, root first.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Stats provides statistics about the graph.
type Stats struct {
	// TotalModules is the number of nodes, excluding the root.
	TotalModules int

	// DirectDependencies is the number of children of the root.
	DirectDependencies int

	// TransitiveDependencies is the number of modules not directly under the root.
	TransitiveDependencies int

	// MaxDepth is the length of the longest path from the root.
	MaxDepth int

	// Edges is the number of parent/child pairs, root edges included.
	Edges int

	// Artifacts is the number of distinct artifacts contributed along any edge.
	Artifacts int
}
