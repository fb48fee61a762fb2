package paths

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/careermap/pathview/pkg/graph"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/strategy"
)

func sampleTree() model.TreeNode {
	return model.TreeNode{
		ID: "root", Label: "Data Engineering", Kind: model.KindRoot, Depth: 0,
		Children: []model.TreeNode{
			{
				ID: "s1", Label: "SQL Fundamentals", Kind: model.KindSkill, Depth: 1,
				Children: []model.TreeNode{
					{ID: "c1", Label: "Data Engineer", Kind: model.KindCareer, Depth: 2},
				},
			},
			{ID: "s2", Label: "Python", Kind: model.KindSkill, Depth: 1, Actions: []string{"Course", "Project"}},
			{ID: "s3", Label: "Cloud Platforms", Kind: model.KindSkill, Depth: 1, Actions: []string{"a", "b", "c", "d", "e"}},
		},
	}
}

func sampleGraph(t *testing.T) model.FlowGraph {
	t.Helper()
	g, err := graph.Convert(sampleTree())
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	return g
}

func TestGenerate_CountAndOrdering(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(42)))
	paths := gen.Generate(sampleGraph(t), 2, "")

	if len(paths) == 0 || len(paths) > 5 {
		t.Fatalf("expected 1..5 paths, got %d", len(paths))
	}
	for i := 1; i < len(paths); i++ {
		if paths[i].Score > paths[i-1].Score {
			t.Errorf("paths not sorted by score descending: %f before %f", paths[i-1].Score, paths[i].Score)
		}
	}
}

func TestGenerate_SpeedRanking(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(1)))
	paths := gen.Generate(sampleGraph(t), 1, "")

	var speed *model.AlternativePath
	for i := range paths {
		if paths[i].ID == string(strategy.Speed) {
			speed = &paths[i]
		}
	}
	if speed == nil {
		t.Fatalf("speed path missing")
	}

	// Root and s1 both have 0 actions (score 10); root wins the tie by
	// original order. s3 with 5 actions (score 5) comes last.
	if speed.Nodes[0].ID != "root" || speed.Nodes[1].ID != "s1" {
		t.Errorf("speed order starts %s, %s; want root, s1", speed.Nodes[0].ID, speed.Nodes[1].ID)
	}
	last := speed.Nodes[len(speed.Nodes)-1]
	if last.ID != "s3" {
		t.Errorf("speed order ends with %s, want s3 (5 actions)", last.ID)
	}
}

func TestGenerate_EdgesReferenceSurvivingNodes(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(7)))
	for depth := 0; depth <= 2; depth++ {
		for _, p := range gen.Generate(sampleGraph(t), depth, "") {
			g := model.FlowGraph{Nodes: p.Nodes, Edges: p.Edges}
			if err := g.Validate(); err != nil {
				t.Errorf("strategy %s depth %d: %v", p.ID, depth, err)
			}
		}
	}
}

func TestGenerate_Metadata(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(3)))
	paths := gen.Generate(sampleGraph(t), 2, "")

	for _, p := range paths {
		if len(p.TopSkills) > 5 {
			t.Errorf("strategy %s: %d top skills, want <=5", p.ID, len(p.TopSkills))
		}
		if p.EstimatedTime == "" {
			t.Errorf("strategy %s: empty estimated time", p.ID)
		}
		found := false
		for _, o := range p.CareerOutcomes {
			if o == "Data Engineer" {
				found = true
			}
		}
		if !found {
			t.Errorf("strategy %s: career outcome missing", p.ID)
		}
	}
}

func TestGenerate_ProfileContextInDescription(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(3)))
	paths := gen.Generate(sampleGraph(t), 1, "backend developers")
	if len(paths) == 0 {
		t.Fatalf("no paths generated")
	}
	if want := "backend developers"; !strings.Contains(paths[0].Description, want) {
		t.Errorf("description %q does not mention profile context", paths[0].Description)
	}
}

func TestGenerate_EmptyGraph(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(5)))
	paths := gen.Generate(model.FlowGraph{}, 3, "")
	if len(paths) != 0 {
		t.Errorf("expected no paths for empty graph, got %d", len(paths))
	}
}

func TestGenerate_DiversitySeededShuffleReproducible(t *testing.T) {
	a := NewGenerator(nil, rand.New(rand.NewSource(99))).Generate(sampleGraph(t), 2, "")
	b := NewGenerator(nil, rand.New(rand.NewSource(99))).Generate(sampleGraph(t), 2, "")

	da := pathByID(a, string(strategy.Diversity))
	db := pathByID(b, string(strategy.Diversity))
	if da == nil || db == nil {
		t.Fatalf("diversity path missing")
	}
	for i := range da.Nodes {
		if da.Nodes[i].ID != db.Nodes[i].ID {
			t.Fatalf("same seed produced different diversity orders at %d: %s vs %s", i, da.Nodes[i].ID, db.Nodes[i].ID)
		}
	}
}

func TestGenerate_DiversityKeepsRingOrder(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(11)))
	p := pathByID(gen.Generate(sampleGraph(t), 2, ""), string(strategy.Diversity))
	if p == nil {
		t.Fatalf("diversity path missing")
	}
	for i := 1; i < len(p.Nodes); i++ {
		if p.Nodes[i].Depth < p.Nodes[i-1].Depth {
			t.Errorf("diversity shuffle broke ring ordering at %d", i)
		}
	}
}

func TestEstimateTime(t *testing.T) {
	cases := []struct {
		actions int
		want    string
	}{
		{0, "~0 weeks"},
		{2, "~3 weeks"},
		{7, "~11 weeks"},
		{8, "~2.8 months"},  // 12 weeks
		{20, "~6.9 months"}, // 30 weeks
	}
	for _, tc := range cases {
		if got := EstimateTime(tc.actions); got != tc.want {
			t.Errorf("EstimateTime(%d) = %q, want %q", tc.actions, got, tc.want)
		}
	}
}

func pathByID(paths []model.AlternativePath, id string) *model.AlternativePath {
	for i := range paths {
		if paths[i].ID == id {
			return &paths[i]
		}
	}
	return nil
}
