// Package loader reads career-tree payloads from the recommendation
// service's JSON format, indexes them for traversal, and reconstructs
// hierarchical trees from flat flow graphs for the save path.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/careermap/pathview/pkg/model"
)

// MaxPayloadSize limits how much of a payload we read (10MB).
const MaxPayloadSize = 1024 * 1024 * 10

// LoadTree reads a tree payload from the given JSON file.
func LoadTree(path string) (model.TreeNode, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return model.TreeNode{}, fmt.Errorf("no tree payload found at %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return model.TreeNode{}, fmt.Errorf("open tree payload: %w", err)
	}
	defer f.Close()
	return LoadTreeFromReader(f)
}

// LoadTreeFromReader decodes a tree payload from r.
func LoadTreeFromReader(r io.Reader) (model.TreeNode, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadSize))
	if err != nil {
		return model.TreeNode{}, fmt.Errorf("read tree payload: %w", err)
	}

	var tree model.TreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		return model.TreeNode{}, fmt.Errorf("decode tree payload: %w", err)
	}
	if tree.ID == "" {
		return model.TreeNode{}, fmt.Errorf("tree payload has no root id")
	}
	normalizeDepths(&tree, 0)
	return tree, nil
}

// normalizeDepths fills in missing depth values from the structure. Some
// service payloads omit "level" on children; the structural position is
// authoritative either way.
func normalizeDepths(n *model.TreeNode, depth int) {
	if n.Depth == 0 && depth != 0 {
		n.Depth = depth
	}
	for i := range n.Children {
		normalizeDepths(&n.Children[i], depth+1)
	}
}
