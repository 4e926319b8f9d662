// Package graph holds the resolved dependency graph of one configuration.
//
// The graph is an arena: a single [Graph] owns every [Node], and nodes refer
// to each other by [NodeID] rather than by pointer. A synthetic root node
// stands for the configuration itself; its children are the first-level
// dependencies.
//
// Artifacts are attached to edges, not to nodes. The same child can
// contribute different artifacts to different parents, so the artifacts of
// node C reached from A are found with:
//
//	c.ParentArtifacts(a.ID())
//
// # Building a Graph
//
//	b := graph.NewBuilder(graph.ModuleKey{Name: "compileClasspath"})
//	a := b.AddNode(graph.ModuleKey{Group: "org.example", Name: "a", Version: "1.0"})
//	b.AddEdge(b.Root(), a, aJar)
//	g, err := b.Build() // rejects cycles and unknown node ids
//
// # Querying the Graph
//
//	deps := g.Reachable(g.Root().Children()...)
//	path := g.Path(g.Root().ID(), id)
//	stats := g.Stats()
//
// # Output Formats
//
//	jsonBytes, _ := g.ToJSON()
//	dot := g.ToDOT()
//	text := g.ToText()
package graph
