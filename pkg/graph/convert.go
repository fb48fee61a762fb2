// Package graph converts hierarchical career trees into positioned flow
// graphs and filters them by depth. All functions are pure: the same input
// always yields the same output, positions included.
package graph

import (
	"fmt"
	"math"

	"github.com/careermap/pathview/pkg/model"
)

// Layout constants for the radial ring placement. The root sits at the
// center; each ring's radius shrinks with depth.
const (
	CenterX    = 400.0
	CenterY    = 300.0
	BaseRadius = 220.0
	RingShrink = 0.72
)

// RingRadius returns the radius of the ring at the given depth.
// Depth 0 is the center point.
func RingRadius(depth int) float64 {
	if depth <= 0 {
		return 0
	}
	return BaseRadius * math.Pow(RingShrink, float64(depth-1))
}

// sector is an angular range owned by one node; its children split it.
type sector struct {
	start float64
	width float64
}

// Convert flattens a hierarchical tree into a flow graph with radial
// positions. The root is placed at the center; each node's children are
// evenly distributed across the parent's angular sector at the next ring.
// Returns a MalformedTreeError if the tree violates the structural
// invariants (root kind at depth 0, child depth = parent depth + 1, unique
// IDs).
func Convert(tree model.TreeNode) (model.FlowGraph, error) {
	if err := validateTree(tree); err != nil {
		return model.FlowGraph{}, err
	}

	var graph model.FlowGraph

	type queueItem struct {
		node model.TreeNode
		sec  sector
	}

	queue := []queueItem{{node: tree, sec: sector{start: 0, width: 2 * math.Pi}}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		n := item.node
		pos := model.Position{X: CenterX, Y: CenterY}
		if n.Depth > 0 {
			angle := item.sec.start + item.sec.width/2
			r := RingRadius(n.Depth)
			pos = model.Position{
				X: round2(CenterX + r*math.Cos(angle)),
				Y: round2(CenterY + r*math.Sin(angle)),
			}
		}

		var actions []string
		if len(n.Actions) > 0 {
			actions = append([]string(nil), n.Actions...)
		}
		graph.Nodes = append(graph.Nodes, model.FlowNode{
			ID:       n.ID,
			Position: pos,
			Depth:    n.Depth,
			Kind:     n.Kind,
			Label:    n.Label,
			Actions:  actions,
		})

		if len(n.Children) == 0 {
			continue
		}
		childWidth := item.sec.width / float64(len(n.Children))
		for i := range n.Children {
			child := n.Children[i]
			graph.Edges = append(graph.Edges, model.FlowEdge{
				ID:     EdgeID(n.ID, child.ID),
				Source: n.ID,
				Target: child.ID,
				Weight: 1,
			})
			queue = append(queue, queueItem{
				node: child,
				sec:  sector{start: item.sec.start + float64(i)*childWidth, width: childWidth},
			})
		}
	}

	return graph, nil
}

// EdgeID derives the stable edge identifier for a parent-child link.
func EdgeID(source, target string) string {
	return fmt.Sprintf("e-%s-%s", source, target)
}

// validateTree checks the structural invariants of a source tree.
func validateTree(tree model.TreeNode) error {
	if tree.Depth != 0 {
		return model.Malformed("root node %q has depth %d, want 0", tree.ID, tree.Depth)
	}
	if tree.Kind != model.KindRoot {
		return model.Malformed("root node %q has kind %q, want %q", tree.ID, tree.Kind, model.KindRoot)
	}

	seen := make(map[string]bool)
	var walk func(n model.TreeNode) error
	walk = func(n model.TreeNode) error {
		if n.ID == "" {
			return model.Malformed("node with empty ID at depth %d", n.Depth)
		}
		if seen[n.ID] {
			return model.Malformed("duplicate node ID %q", n.ID)
		}
		seen[n.ID] = true
		if !n.Kind.IsValid() {
			return model.Malformed("node %q has unknown kind %q", n.ID, n.Kind)
		}
		if n.Kind == model.KindRoot && n.Depth != 0 {
			return model.Malformed("root kind on non-root node %q at depth %d", n.ID, n.Depth)
		}
		for i := range n.Children {
			child := n.Children[i]
			if child.Depth != n.Depth+1 {
				return model.Malformed("node %q has depth %d under parent %q at depth %d", child.ID, child.Depth, n.ID, n.Depth)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(tree)
}

// round2 rounds to two decimals so positions survive a JSON round trip
// without float noise.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
