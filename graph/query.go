package graph

import (
	"github.com/albertocavalcante/go-lenient/artifact"
	"github.com/albertocavalcante/go-lenient/internal/ordered"
)

// Find returns the first non-root node whose key has the given group and name.
// An empty group matches any group.
func (g *Graph) Find(group, name string) *Node {
	for _, n := range g.nodes {
		if n.isRoot {
			continue
		}
		if n.key.Name == name && (group == "" || n.key.Group == group) {
			return n
		}
	}
	return nil
}

// Reachable returns the seeds and every node reachable from them through the
// children relation, in breadth-first order without duplicates.
func (g *Graph) Reachable(seeds ...NodeID) []*Node {
	result := make([]*Node, 0)
	visited := make(map[NodeID]bool)

	queue := append([]NodeID(nil), seeds...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		node := g.Node(current)
		if node == nil {
			continue
		}
		visited[current] = true
		result = append(result, node)
		queue = append(queue, node.children...)
	}

	return result
}

// TransitiveDeps returns every node reachable from id, excluding id itself.
// The result is in breadth-first order.
func (g *Graph) TransitiveDeps(id NodeID) []*Node {
	node := g.Node(id)
	if node == nil {
		return nil
	}
	return g.Reachable(node.children...)
}

// TransitiveDependents returns every node from which id is reachable,
// excluding id itself, closest dependents first.
func (g *Graph) TransitiveDependents(id NodeID) []*Node {
	result := make([]*Node, 0)
	visited := map[NodeID]bool{id: true}

	queue := []NodeID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Node(current)
		if node == nil {
			continue
		}
		for _, p := range node.parents {
			if !visited[p] {
				visited[p] = true
				result = append(result, g.nodes[p])
				queue = append(queue, p)
			}
		}
	}

	return result
}

// AllModuleArtifacts returns the module artifacts of id and of every node
// reachable from it, deduplicated by artifact id.
func (g *Graph) AllModuleArtifacts(id NodeID) []artifact.ResolvedArtifact {
	var m ordered.Map[artifact.ID, artifact.ResolvedArtifact]
	for _, n := range g.Reachable(id) {
		for _, a := range n.ModuleArtifacts() {
			m.PutIfAbsent(a.ID, a)
		}
	}
	return m.Values()
}

// Path finds the shortest dependency path from one node to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to NodeID) []NodeID {
	if g.Node(from) == nil || g.Node(to) == nil {
		return nil
	}
	if from == to {
		return []NodeID{from}
	}

	type queueItem struct {
		id   NodeID
		path []NodeID
	}

	visited := map[NodeID]bool{from: true}
	queue := []queueItem{{id: from, path: []NodeID{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range g.nodes[current.id].children {
			if child == to {
				return append(current.path, child)
			}
			if !visited[child] {
				visited[child] = true
				next := make([]NodeID, len(current.path)+1)
				copy(next, current.path)
				next[len(current.path)] = child
				queue = append(queue, queueItem{id: child, path: next})
			}
		}
	}

	return nil
}

// Leaves returns every non-root node with no dependencies.
func (g *Graph) Leaves() []*Node {
	var leaves []*Node
	for _, n := range g.nodes {
		if !n.isRoot && len(n.children) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// FindCycles returns the cycles found by a depth-first search from every node.
// A graph produced by Builder.Build never has any.
func (g *Graph) FindCycles() [][]NodeID {
	var cycles [][]NodeID
	visited := make(map[NodeID]bool)
	onStack := make(map[NodeID]bool)
	path := make([]NodeID, 0)

	var visit func(id NodeID)
	visit = func(id NodeID) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, child := range g.nodes[id].children {
			if !visited[child] {
				visit(child)
			} else if onStack[child] {
				for i, k := range path {
					if k == child {
						cycle := make([]NodeID, len(path)-i, len(path)-i+1)
						copy(cycle, path[i:])
						cycles = append(cycles, append(cycle, child))
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		onStack[id] = false
	}

	for _, n := range g.nodes {
		if !visited[n.id] {
			visit(n.id)
		}
	}

	return cycles
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	root := g.Root()
	stats := Stats{
		TotalModules:       len(g.nodes) - 1,
		DirectDependencies: len(root.children),
	}
	stats.TransitiveDependencies = stats.TotalModules - stats.DirectDependencies
	if stats.TransitiveDependencies < 0 {
		stats.TransitiveDependencies = 0
	}

	var arts ordered.Set[artifact.ID]
	for _, n := range g.nodes {
		stats.Edges += len(n.children)
		for _, list := range n.parentArtifacts {
			for _, a := range list {
				arts.Add(a.ID)
			}
		}
	}
	stats.Artifacts = arts.Len()
	stats.MaxDepth = g.maxDepth()

	return stats
}

// maxDepth computes the longest path from the root, memoized per node.
func (g *Graph) maxDepth() int {
	depth := make(map[NodeID]int)

	var longest func(id NodeID) int
	longest = func(id NodeID) int {
		if d, ok := depth[id]; ok {
			return d
		}
		best := 0
		for _, child := range g.nodes[id].children {
			if d := longest(child) + 1; d > best {
				best = d
			}
		}
		depth[id] = best
		return best
	}

	return longest(g.root)
}
