package graph

import "github.com/careermap/pathview/pkg/model"

// FilterByDepth returns a new graph containing only nodes at depth <=
// maxDepth and the edges whose endpoints both survive. Dangling edges are
// dropped, never left referencing missing nodes. maxDepth 0 yields the root
// alone. Never fails.
func FilterByDepth(g model.FlowGraph, maxDepth int) model.FlowGraph {
	var out model.FlowGraph
	kept := make(map[string]bool, len(g.Nodes))

	for i := range g.Nodes {
		if g.Nodes[i].Depth <= maxDepth {
			out.Nodes = append(out.Nodes, g.Nodes[i].Clone())
			kept[g.Nodes[i].ID] = true
		}
	}
	for i := range g.Edges {
		e := g.Edges[i]
		if kept[e.Source] && kept[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// RebuildEdges returns the subset of edges whose endpoints are both present
// in nodes, preserving edge order. Used after a strategy reorders or prunes
// the node set.
func RebuildEdges(edges []model.FlowEdge, nodes []model.FlowNode) []model.FlowEdge {
	kept := make(map[string]bool, len(nodes))
	for i := range nodes {
		kept[nodes[i].ID] = true
	}
	var out []model.FlowEdge
	for i := range edges {
		if kept[edges[i].Source] && kept[edges[i].Target] {
			out = append(out, edges[i])
		}
	}
	return out
}
