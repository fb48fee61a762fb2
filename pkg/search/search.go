// Package search provides fuzzy matching over flow graph node labels for
// the jump-to-node control.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/careermap/pathview/pkg/model"
)

// DefaultLimit caps how many matches a search returns.
const DefaultLimit = 10

// Match pairs a matching node with its fuzzy score and the matched label
// character positions, for highlight rendering.
type Match struct {
	Node           model.FlowNode
	Score          int
	MatchedIndexes []int
}

// Index is a searchable snapshot of a graph's nodes. Rebuild it whenever
// the current graph is replaced.
type Index struct {
	nodes  []model.FlowNode
	labels []string
}

// NewIndex builds an index over the graph's nodes.
func NewIndex(g model.FlowGraph) *Index {
	idx := &Index{
		nodes:  g.Nodes,
		labels: make([]string, len(g.Nodes)),
	}
	for i := range g.Nodes {
		idx.labels[i] = g.Nodes[i].Label
	}
	return idx
}

// Search returns up to limit nodes whose labels fuzzy-match the query,
// best first. A non-positive limit uses DefaultLimit. An empty query
// matches nothing.
func (idx *Index) Search(query string, limit int) []Match {
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := fuzzy.Find(query, idx.labels)
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Node:           idx.nodes[r.Index],
			Score:          r.Score,
			MatchedIndexes: r.MatchedIndexes,
		}
	}
	return matches
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.nodes)
}
