// Package paths generates and scores alternative prioritizations of a flow
// graph under the five fixed strategies.
package paths

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/careermap/pathview/pkg/graph"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/strategy"
)

// maxTopSkills caps the skill labels surfaced in path metadata.
const maxTopSkills = 5

// weeksPerMonth converts an estimated duration from weeks to months.
const weeksPerMonth = 4.33

// Generator builds alternative paths from a source graph. The random source
// drives only the diversity strategy's within-ring shuffle; inject a seeded
// source for reproducible output.
type Generator struct {
	scorer *strategy.Scorer
	rng    *rand.Rand
}

// NewGenerator creates a Generator with the given scorer and random source.
// A nil scorer uses the defaults; a nil rng falls back to a fixed seed so
// output is reproducible unless the caller opts into real randomness.
func NewGenerator(scorer *strategy.Scorer, rng *rand.Rand) *Generator {
	if scorer == nil {
		scorer = strategy.NewScorer()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{scorer: scorer, rng: rng}
}

// Generate produces up to five alternative paths from the graph truncated to
// the given depth, sorted by score descending. Strategies with no eligible
// nodes at that depth are skipped; an empty result is a valid, displayable
// state, not an error. profileContext is carried into path descriptions when
// non-empty.
func (g *Generator) Generate(source model.FlowGraph, depth int, profileContext string) []model.AlternativePath {
	var out []model.AlternativePath
	for _, id := range strategy.All {
		filtered := graph.FilterByDepth(source, depth)
		if len(filtered.Nodes) == 0 {
			continue
		}
		out = append(out, g.buildPath(id, filtered, profileContext))
	}

	// Stable: equal scores preserve generation order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// buildPath reorders the filtered graph under one strategy and derives the
// path metadata.
func (g *Generator) buildPath(id strategy.ID, filtered model.FlowGraph, profileContext string) model.AlternativePath {
	nodes := filtered.Nodes
	if id == strategy.Diversity {
		g.shuffleWithinRings(nodes)
	} else {
		// Highest priority first; the stable sort keeps original tree
		// order for ties.
		scores := make([]float64, len(nodes))
		for i := range nodes {
			scores[i] = g.scorer.Score(nodes[i], id)
		}
		order := make([]int, len(nodes))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return scores[order[a]] > scores[order[b]]
		})
		reordered := make([]model.FlowNode, len(nodes))
		for i, idx := range order {
			reordered[i] = nodes[idx]
		}
		nodes = reordered
	}

	total := 0.0
	actionCount := 0
	var topSkills, outcomes []string
	for i := range nodes {
		total += g.scorer.Score(nodes[i], id)
		actionCount += len(nodes[i].Actions)
		switch nodes[i].Kind {
		case model.KindSkill:
			if len(topSkills) < maxTopSkills {
				topSkills = append(topSkills, nodes[i].Label)
			}
		case model.KindCareer:
			outcomes = append(outcomes, nodes[i].Label)
		}
	}

	desc := id.Description()
	if profileContext != "" {
		desc = fmt.Sprintf("%s (tailored for %s)", desc, profileContext)
	}

	return model.AlternativePath{
		ID:             string(id),
		Name:           id.Name(),
		Description:    desc,
		Nodes:          nodes,
		Edges:          graph.RebuildEdges(filtered.Edges, nodes),
		Score:          total,
		TopSkills:      topSkills,
		EstimatedTime:  EstimateTime(actionCount),
		CareerOutcomes: outcomes,
	}
}

// shuffleWithinRings randomizes node order inside each depth ring while
// keeping the rings themselves in depth order. This keeps the diversity
// strategy from always favoring a single branch.
func (g *Generator) shuffleWithinRings(nodes []model.FlowNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Depth < nodes[j].Depth
	})
	start := 0
	for start < len(nodes) {
		end := start
		for end < len(nodes) && nodes[end].Depth == nodes[start].Depth {
			end++
		}
		ring := nodes[start:end]
		g.rng.Shuffle(len(ring), func(a, b int) {
			ring[a], ring[b] = ring[b], ring[a]
		})
		start = end
	}
}

// EstimateTime converts a total action count into a human-readable duration:
// ceil(actions x 1.5) weeks, expressed in months once it reaches 12 weeks.
func EstimateTime(actionCount int) string {
	weeks := int(math.Ceil(float64(actionCount) * 1.5))
	if weeks < 12 {
		return fmt.Sprintf("~%d weeks", weeks)
	}
	months := float64(weeks) / weeksPerMonth
	return fmt.Sprintf("~%.1f months", math.Round(months*10)/10)
}
