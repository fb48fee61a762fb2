package loader

import (
	"github.com/careermap/pathview/pkg/model"
)

// RebuildTree reconstructs the hierarchical tree form from a flat flow
// graph, the inverse of graph conversion. The save path feeds the result to
// the persistence layer. The graph is indexed through ArenaFromGraph, so
// child order follows edge order, which the converter emits in tree order.
// Fails if the graph has no single depth-0 root or if an edge references a
// missing node.
func RebuildTree(g model.FlowGraph) (model.TreeNode, error) {
	a, err := ArenaFromGraph(g)
	if err != nil {
		return model.TreeNode{}, err
	}
	return a.Tree(), nil
}
