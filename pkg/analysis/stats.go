// Package analysis computes display statistics over flow graphs and
// alternative paths: ring occupancy, action totals, and score
// distributions. Everything here is read-only derivation for the stats
// panel and export metadata.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/strategy"
)

// RingStat describes one depth ring of a graph.
type RingStat struct {
	Depth      int
	NodeCount  int
	SkillCount int
	Actions    int
}

// ScoreSummary is the distribution of per-node scores under one strategy.
type ScoreSummary struct {
	Strategy strategy.ID
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
	Total    float64
}

// GraphStats is the full statistics bundle for one graph.
type GraphStats struct {
	NodeCount    int
	EdgeCount    int
	MaxDepth     int
	TotalActions int
	SkillCount   int
	CareerCount  int
	Rings        []RingStat
	Scores       []ScoreSummary
}

// Analyze computes statistics for a graph using the given scorer. A nil
// scorer uses the defaults.
func Analyze(g model.FlowGraph, scorer *strategy.Scorer) GraphStats {
	if scorer == nil {
		scorer = strategy.NewScorer()
	}

	stats := GraphStats{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
		MaxDepth:  g.MaxDepth(),
	}

	rings := make(map[int]*RingStat)
	for i := range g.Nodes {
		n := g.Nodes[i]
		r, ok := rings[n.Depth]
		if !ok {
			r = &RingStat{Depth: n.Depth}
			rings[n.Depth] = r
		}
		r.NodeCount++
		r.Actions += len(n.Actions)
		stats.TotalActions += len(n.Actions)
		switch n.Kind {
		case model.KindSkill:
			r.SkillCount++
			stats.SkillCount++
		case model.KindCareer:
			stats.CareerCount++
		}
	}
	for _, r := range rings {
		stats.Rings = append(stats.Rings, *r)
	}
	sort.Slice(stats.Rings, func(i, j int) bool {
		return stats.Rings[i].Depth < stats.Rings[j].Depth
	})

	if len(g.Nodes) > 0 {
		for _, id := range strategy.All {
			scores := make([]float64, len(g.Nodes))
			for i := range g.Nodes {
				scores[i] = scorer.Score(g.Nodes[i], id)
			}
			stats.Scores = append(stats.Scores, summarize(id, scores))
		}
	}
	return stats
}

// summarize reduces a score vector to its distribution summary.
func summarize(id strategy.ID, scores []float64) ScoreSummary {
	s := ScoreSummary{
		Strategy: id,
		Mean:     stat.Mean(scores, nil),
		Min:      scores[0],
		Max:      scores[0],
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	for _, v := range scores {
		s.Total += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}
