package loader

import (
	"fmt"

	"github.com/careermap/pathview/pkg/model"
)

// Arena is a flat, id-indexed view of a tree with explicit adjacency. It
// avoids recursing through owned child slices when walking or rebuilding:
// traversal goes through the index, the node records hold no child pointers.
type Arena struct {
	Nodes    map[string]model.TreeNode // child slices stripped
	Children map[string][]string       // parent id -> child ids, in tree order
	Parent   map[string]string         // child id -> parent id (root absent)
	Order    []string                  // BFS order, root first
	RootID   string
}

// BuildArena flattens a tree into an Arena. Duplicate IDs are rejected.
func BuildArena(tree model.TreeNode) (*Arena, error) {
	a := &Arena{
		Nodes:    make(map[string]model.TreeNode),
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
		RootID:   tree.ID,
	}

	queue := []model.TreeNode{tree}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if _, exists := a.Nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node ID %q", n.ID)
		}
		record := n
		record.Children = nil
		a.Nodes[n.ID] = record
		a.Order = append(a.Order, n.ID)

		for i := range n.Children {
			child := n.Children[i]
			a.Children[n.ID] = append(a.Children[n.ID], child.ID)
			a.Parent[child.ID] = n.ID
			queue = append(queue, child)
		}
	}
	return a, nil
}

// ArenaFromGraph indexes a flow graph into an Arena, validating that it is
// a single rooted tree: exactly one depth-0 node, unique IDs, every edge
// endpoint present. This is the inbound half of the save path; Tree turns
// the result back into the hierarchical form.
func ArenaFromGraph(g model.FlowGraph) (*Arena, error) {
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("cannot rebuild tree from empty graph")
	}

	a := &Arena{
		Nodes:    make(map[string]model.TreeNode, len(g.Nodes)),
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
	}
	for i := range g.Nodes {
		n := g.Nodes[i]
		if _, exists := a.Nodes[n.ID]; exists {
			return nil, fmt.Errorf("duplicate node ID %q", n.ID)
		}
		a.Nodes[n.ID] = model.TreeNode{
			ID:      n.ID,
			Label:   n.Label,
			Kind:    n.Kind,
			Depth:   n.Depth,
			Actions: n.Actions,
		}
		if n.Depth == 0 {
			if a.RootID != "" {
				return nil, fmt.Errorf("multiple depth-0 nodes: %s and %s", a.RootID, n.ID)
			}
			a.RootID = n.ID
		}
	}
	if a.RootID == "" {
		return nil, fmt.Errorf("graph has no depth-0 root")
	}

	for i := range g.Edges {
		e := g.Edges[i]
		if _, ok := a.Nodes[e.Source]; !ok {
			return nil, fmt.Errorf("edge %s references missing source %s", e.ID, e.Source)
		}
		if _, ok := a.Nodes[e.Target]; !ok {
			return nil, fmt.Errorf("edge %s references missing target %s", e.ID, e.Target)
		}
		a.Children[e.Source] = append(a.Children[e.Source], e.Target)
		a.Parent[e.Target] = e.Source
	}

	queue := []string{a.RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		a.Order = append(a.Order, id)
		queue = append(queue, a.Children[id]...)
	}
	return a, nil
}

// Tree reassembles the hierarchical form by walking the adjacency index.
func (a *Arena) Tree() model.TreeNode {
	var build func(id string) model.TreeNode
	build = func(id string) model.TreeNode {
		n := a.Nodes[id]
		for _, childID := range a.Children[id] {
			n.Children = append(n.Children, build(childID))
		}
		return n
	}
	return build(a.RootID)
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.Order)
}
