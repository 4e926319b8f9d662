package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60 // Width of separator lines in text output

// JSONNode is one node of the JSON rendering produced by ToJSON.
type JSONNode struct {
	Key          string           `json:"key"`
	Dependencies []JSONDependency `json:"dependencies,omitempty"`
	Unexpanded   bool             `json:"unexpanded,omitempty"`
}

// JSONDependency is an edge of the JSON rendering: the child plus the
// artifacts it contributes to its parent.
type JSONDependency struct {
	JSONNode
	Artifacts []string `json:"artifacts,omitempty"`
}

// ToJSON renders the graph as a tree rooted at the configuration.
// Nodes reached a second time are emitted once more, marked unexpanded.
func (g *Graph) ToJSON() ([]byte, error) {
	visited := make(map[NodeID]bool)
	root := g.Root()
	tree := JSONNode{
		Key:          root.String(),
		Dependencies: g.jsonDeps(root, visited),
	}
	return json.MarshalIndent(tree, "", "  ")
}

func (g *Graph) jsonDeps(node *Node, visited map[NodeID]bool) []JSONDependency {
	deps := make([]JSONDependency, 0, len(node.children))
	for _, id := range node.children {
		child := g.nodes[id]
		dep := JSONDependency{JSONNode: JSONNode{Key: child.String()}}
		for _, a := range child.parentArtifacts[node.id] {
			dep.Artifacts = append(dep.Artifacts, a.ID.FileName())
		}
		if visited[id] {
			dep.Unexpanded = true
		} else {
			visited[id] = true
			dep.Dependencies = g.jsonDeps(child, visited)
		}
		deps = append(deps, dep)
	}
	return deps
}

// ToDOT outputs the graph in Graphviz DOT format. Edges are labeled with
// the number of artifacts they contribute.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, node := range g.nodes {
		label := fmt.Sprintf("%s\\n%s", node.key.Name, node.key.Version)
		attrs := fmt.Sprintf(`label="%s"`, label) //nolint:gocritic // DOT format requires this quote style
		if node.isRoot {
			attrs = fmt.Sprintf(`label="%s", style=bold`, node.key.Name) //nolint:gocritic // DOT format requires this quote style
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", node.String(), attrs)
	}

	buf.WriteString("\n")

	for _, node := range g.nodes {
		for _, id := range node.children {
			child := g.nodes[id]
			n := len(child.parentArtifacts[node.id])
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", node.String(), child.String(), n)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable tree of the graph with per-edge artifacts.
func (g *Graph) ToText() string {
	var buf bytes.Buffer
	root := g.Root()

	fmt.Fprintf(&buf, "Dependency Graph (configuration: %s)\n", root.key.Name)
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := g.Stats()
	fmt.Fprintf(&buf, "Total modules: %d\n", stats.TotalModules)
	fmt.Fprintf(&buf, "Direct dependencies: %d\n", stats.DirectDependencies)
	fmt.Fprintf(&buf, "Transitive dependencies: %d\n", stats.TransitiveDependencies)
	fmt.Fprintf(&buf, "Max depth: %d\n", stats.MaxDepth)
	fmt.Fprintf(&buf, "Artifacts: %d\n\n", stats.Artifacts)

	buf.WriteString("Dependency Tree:\n")
	buf.WriteString(root.String() + "\n")
	expanded := make(map[NodeID]bool)
	for i, id := range root.children {
		g.printTree(&buf, root.id, id, "", i == len(root.children)-1, expanded)
	}

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, parent, id NodeID, prefix string, isLast bool, expanded map[NodeID]bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}

	node := g.nodes[id]
	buf.WriteString(prefix + connector + node.String())
	if arts := node.parentArtifacts[parent]; len(arts) > 0 {
		names := make([]string, len(arts))
		for i, a := range arts {
			names[i] = a.ID.FileName()
		}
		buf.WriteString(" [" + strings.Join(names, ", ") + "]")
	}

	if expanded[id] && len(node.children) > 0 {
		buf.WriteString(" (*)\n")
		return
	}
	buf.WriteString("\n")
	expanded[id] = true

	for i, child := range node.children {
		g.printTree(buf, id, child, childPrefix, i == len(node.children)-1, expanded)
	}
}
