package model

import "fmt"

// TreeNode is the hierarchical career/skill tree as delivered by the
// recommendation service. The JSON field names match the service payload
// ("type" for kind, "level" for depth).
type TreeNode struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Kind     NodeKind   `json:"type"`
	Depth    int        `json:"level"`
	Actions  []string   `json:"actions,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// Clone creates a deep copy of the tree rooted at n.
func (n TreeNode) Clone() TreeNode {
	clone := n
	if n.Actions != nil {
		clone.Actions = make([]string, len(n.Actions))
		copy(clone.Actions, n.Actions)
	}
	if n.Children != nil {
		clone.Children = make([]TreeNode, len(n.Children))
		for i := range n.Children {
			clone.Children[i] = n.Children[i].Clone()
		}
	}
	return clone
}

// CountNodes returns the total number of nodes in the tree rooted at n.
func (n TreeNode) CountNodes() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].CountNodes()
	}
	return total
}

// NodeKind classifies a tree or flow node.
type NodeKind string

const (
	KindRoot    NodeKind = "root"
	KindSkill   NodeKind = "skill"
	KindOutcome NodeKind = "outcome"
	KindCareer  NodeKind = "career"
)

// IsValid returns true if the kind is a recognized value.
func (k NodeKind) IsValid() bool {
	switch k {
	case KindRoot, KindSkill, KindOutcome, KindCareer:
		return true
	}
	return false
}

// Position is a 2-D layout coordinate. Only meaningful to a renderer.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FlowNode is a positioned node in a flow graph.
type FlowNode struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Depth    int      `json:"depth"`
	Kind     NodeKind `json:"kind"`
	Label    string   `json:"label"`
	Actions  []string `json:"actions,omitempty"`
}

// Clone creates a deep copy of the node.
func (n FlowNode) Clone() FlowNode {
	clone := n
	if n.Actions != nil {
		clone.Actions = make([]string, len(n.Actions))
		copy(clone.Actions, n.Actions)
	}
	return clone
}

// FlowEdge connects two flow nodes by ID. Both endpoints must exist in the
// same graph; constructors enforce this, consumers may rely on it.
type FlowEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// FlowGraph is the flattened node+edge form handed to the rendering layer.
// Node and edge slices are replaced wholesale on every recalculation, never
// mutated in place, so consumers can use slice identity to detect "no change".
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// Clone creates a deep copy of the graph.
func (g FlowGraph) Clone() FlowGraph {
	clone := FlowGraph{}
	if g.Nodes != nil {
		clone.Nodes = make([]FlowNode, len(g.Nodes))
		for i := range g.Nodes {
			clone.Nodes[i] = g.Nodes[i].Clone()
		}
	}
	if g.Edges != nil {
		clone.Edges = make([]FlowEdge, len(g.Edges))
		copy(clone.Edges, g.Edges)
	}
	return clone
}

// MaxDepth returns the largest node depth present in the graph, or 0 for an
// empty graph.
func (g FlowGraph) MaxDepth() int {
	max := 0
	for i := range g.Nodes {
		if g.Nodes[i].Depth > max {
			max = g.Nodes[i].Depth
		}
	}
	return max
}

// NodeByID returns the node with the given ID, or nil if absent.
func (g FlowGraph) NodeByID(id string) *FlowNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Validate checks the referential invariant: every edge endpoint must name a
// node present in the graph, and node IDs must be unique.
func (g FlowGraph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" {
			return fmt.Errorf("node %d has empty ID", i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate node ID: %s", id)
		}
		seen[id] = true
	}
	for i := range g.Edges {
		e := g.Edges[i]
		if !seen[e.Source] {
			return fmt.Errorf("edge %s references missing source node %s", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return fmt.Errorf("edge %s references missing target node %s", e.ID, e.Target)
		}
		if e.Weight < 0 {
			return fmt.Errorf("edge %s has negative weight %f", e.ID, e.Weight)
		}
	}
	return nil
}

// AlternativePath is a strategy-specific reordered projection of a source
// graph, with an aggregate score and summary metadata.
type AlternativePath struct {
	ID             string     `json:"id"` // strategy identifier
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Nodes          []FlowNode `json:"nodes"`
	Edges          []FlowEdge `json:"edges"`
	Score          float64    `json:"score"`
	TopSkills      []string   `json:"topSkills"`
	EstimatedTime  string     `json:"estimatedTime"`
	CareerOutcomes []string   `json:"careerOutcomes"`
}

// PerformanceMetrics tracks recalculation timing for one session.
// Times are in milliseconds.
type PerformanceMetrics struct {
	LastRecalculationMs    float64 `json:"lastRecalculationMs"`
	AverageRecalculationMs float64 `json:"averageRecalculationMs"`
	TotalRecalculations    int     `json:"totalRecalculations"`
	ErrorCount             int     `json:"errorCount"`
}

// Parameters is the user-adjustable recalculation parameter set.
type Parameters struct {
	Depth                int  `json:"depth"`
	ShowAlternativePaths bool `json:"showAlternativePaths"`
}
