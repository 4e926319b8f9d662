// Package walker implements a caching traversal over a directed graph whose
// nodes and edges carry values.
//
// The walker knows nothing about what the graph represents. A [Graph]
// capability supplies, for each node, its own values and its children, and
// for each edge, the values associated with that edge. [Walker.FindValues]
// visits every node reachable from the seeds once while still collecting the
// values of every distinct edge it crosses, including edges that lead to a
// node it has already visited.
//
// The graph must be acyclic. Cycles are not detected.
package walker

// Graph is the capability a Walker traverses.
type Graph[N comparable, NV, EV any] interface {
	// NodeValues returns the values of node and its direct successors.
	NodeValues(node N) (values []NV, children []N)

	// EdgeValues returns the values associated with the edge from -> to.
	EdgeValues(from, to N) []EV
}

// Values is the output of a traversal.
type Values[NV, EV any] struct {
	// Nodes holds node values in visit order, each node contributing once.
	Nodes []NV

	// Edges holds edge values in traversal order, each edge contributing once.
	Edges []EV
}

// Stats counts calls into the Graph capability.
type Stats struct {
	NodeExpansions  int
	EdgeEvaluations int
}

type edge[N comparable] struct {
	from, to N
}

type expansion[N comparable, NV any] struct {
	values   []NV
	children []N
}

// Walker traverses a Graph from a set of seed nodes.
//
// Node expansions and edge values are cached on the Walker, so calling
// FindValues again after adding more seeds only consults the Graph for nodes
// and edges it has not seen before. A Walker is not safe for concurrent use.
type Walker[N comparable, NV, EV any] struct {
	graph Graph[N, NV, EV]
	seeds []N

	nodes map[N]expansion[N, NV]
	edges map[edge[N]][]EV
	stats Stats
}

// New creates a Walker over g.
func New[N comparable, NV, EV any](g Graph[N, NV, EV]) *Walker[N, NV, EV] {
	return &Walker[N, NV, EV]{
		graph: g,
		nodes: make(map[N]expansion[N, NV]),
		edges: make(map[edge[N]][]EV),
	}
}

// Add appends seed nodes. Seeds are traversed in the order they were added.
func (w *Walker[N, NV, EV]) Add(seeds ...N) {
	w.seeds = append(w.seeds, seeds...)
}

// FindValues traverses everything reachable from the seeds added so far and
// returns the node and edge values found.
//
// The traversal is depth-first and pre-order: a node's values are collected
// before any of its children are expanded.
func (w *Walker[N, NV, EV]) FindValues() Values[NV, EV] {
	var out Values[NV, EV]
	visited := make(map[N]bool)
	crossed := make(map[edge[N]]bool)

	var visit func(node N)
	visit = func(node N) {
		if visited[node] {
			return
		}
		visited[node] = true

		exp := w.expand(node)
		out.Nodes = append(out.Nodes, exp.values...)

		for _, child := range exp.children {
			e := edge[N]{from: node, to: child}
			if !crossed[e] {
				crossed[e] = true
				out.Edges = append(out.Edges, w.edgeValues(e)...)
			}
			visit(child)
		}
	}

	for _, seed := range w.seeds {
		visit(seed)
	}

	return out
}

// Stats returns how often the Graph capability has been consulted.
func (w *Walker[N, NV, EV]) Stats() Stats {
	return w.stats
}

func (w *Walker[N, NV, EV]) expand(node N) expansion[N, NV] {
	if exp, ok := w.nodes[node]; ok {
		return exp
	}
	values, children := w.graph.NodeValues(node)
	exp := expansion[N, NV]{values: values, children: children}
	w.nodes[node] = exp
	w.stats.NodeExpansions++
	return exp
}

func (w *Walker[N, NV, EV]) edgeValues(e edge[N]) []EV {
	if values, ok := w.edges[e]; ok {
		return values
	}
	values := w.graph.EdgeValues(e.from, e.to)
	w.edges[e] = values
	w.stats.EdgeEvaluations++
	return values
}
