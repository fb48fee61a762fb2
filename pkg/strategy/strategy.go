// Package strategy defines the five prioritization heuristics used to
// reorder and score career-tree nodes.
package strategy

import (
	"strings"

	"github.com/careermap/pathview/pkg/model"
)

// ID names one of the five fixed prioritization strategies.
type ID string

const (
	Speed      ID = "speed"
	Expertise  ID = "expertise"
	Diversity  ID = "diversity"
	Demand     ID = "demand"
	Innovation ID = "innovation"
)

// All lists the strategies in generation order. This order is the tie-break
// for equal path scores.
var All = []ID{Speed, Expertise, Diversity, Demand, Innovation}

// IsValid returns true if the ID is a recognized strategy.
func (id ID) IsValid() bool {
	switch id {
	case Speed, Expertise, Diversity, Demand, Innovation:
		return true
	}
	return false
}

// Name returns the display name for the strategy.
func (id ID) Name() string {
	switch id {
	case Speed:
		return "Fast Track"
	case Expertise:
		return "Deep Expertise"
	case Diversity:
		return "Broad Foundation"
	case Demand:
		return "Market Demand"
	case Innovation:
		return "Innovation Edge"
	}
	return string(id)
}

// Description returns the one-line explanation shown in the explorer.
func (id ID) Description() string {
	switch id {
	case Speed:
		return "Prioritizes skills with the fewest learning actions for the quickest wins"
	case Expertise:
		return "Prioritizes deeper, more specialized skills over foundational ones"
	case Diversity:
		return "Spreads effort evenly across branches to build a broad base"
	case Demand:
		return "Prioritizes skills matching current high-demand market keywords"
	case Innovation:
		return "Prioritizes skills tied to emerging technologies"
	}
	return ""
}

// DefaultDemandKeywords is the built-in high-demand vocabulary. Matching is
// case-insensitive substring over the node label.
var DefaultDemandKeywords = []string{
	"data", "cloud", "security", "ai", "machine learning",
	"devops", "kubernetes", "python", "analytics", "sql",
}

// DefaultInnovationKeywords is the built-in emerging-technology vocabulary.
var DefaultInnovationKeywords = []string{
	"ai", "blockchain", "quantum", "ar", "vr",
	"iot", "edge", "web3", "robotics", "genai",
}

// Scorer computes per-node priorities for each strategy. The zero value is
// not usable; construct with NewScorer, optionally overriding vocabularies.
type Scorer struct {
	demand     []string
	innovation []string
}

// NewScorer returns a Scorer with the default vocabularies.
func NewScorer() *Scorer {
	return &Scorer{
		demand:     DefaultDemandKeywords,
		innovation: DefaultInnovationKeywords,
	}
}

// WithVocabulary overrides the demand and/or innovation keyword lists.
// A nil list keeps the default.
func (s *Scorer) WithVocabulary(demand, innovation []string) *Scorer {
	if demand != nil {
		s.demand = demand
	}
	if innovation != nil {
		s.innovation = innovation
	}
	return s
}

// Score returns the node's priority contribution under the given strategy.
// Higher is better. A node matching no keywords under demand or innovation
// scores 0, not an error.
func (s *Scorer) Score(node model.FlowNode, id ID) float64 {
	switch id {
	case Speed:
		v := 10 - len(node.Actions)
		if v < 0 {
			v = 0
		}
		return float64(v)
	case Expertise:
		return float64(node.Depth * 2)
	case Diversity:
		// Equal weight; ordering variety comes from the generator's
		// within-ring shuffle, not from the score.
		return 5
	case Demand:
		return 3 * float64(countMatches(node.Label, s.demand))
	case Innovation:
		return 2 * float64(countMatches(node.Label, s.innovation))
	}
	return 0
}

// countMatches counts how many vocabulary terms the label contains,
// case-insensitively.
func countMatches(label string, vocab []string) int {
	lower := strings.ToLower(label)
	n := 0
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}
