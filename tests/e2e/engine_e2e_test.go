package e2e

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/careermap/pathview/pkg/export"
	"github.com/careermap/pathview/pkg/graph"
	"github.com/careermap/pathview/pkg/loader"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/persist"
	"github.com/careermap/pathview/pkg/store"
	"github.com/careermap/pathview/pkg/strategy"
)

const payload = `{
  "id": "root",
  "label": "Cloud Engineering",
  "type": "root",
  "level": 0,
  "children": [
    {
      "id": "s-linux",
      "label": "Linux Administration",
      "type": "skill",
      "actions": ["Set up a home server", "Pass LFCS"],
      "children": [
        {
          "id": "s-k8s",
          "label": "Kubernetes",
          "type": "skill",
          "actions": ["Deploy a cluster", "CKA certification", "Run a production workload"],
          "children": [
            {"id": "c-platform", "label": "Platform Engineer", "type": "career"}
          ]
        }
      ]
    },
    {
      "id": "s-iac",
      "label": "Infrastructure as Code",
      "type": "skill",
      "actions": ["Terraform a VPC"],
      "children": [
        {"id": "c-devops", "label": "DevOps Engineer", "type": "career"}
      ]
    },
    {"id": "s-sec", "label": "Cloud Security", "type": "skill"}
  ]
}`

// writePayload drops the sample payload into a temp dir and returns its path.
func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return path
}

// TestFullSessionWorkflow drives the whole pipeline the way the TUI does:
// load, convert, explore depths and alternatives, recover state, export.
func TestFullSessionWorkflow(t *testing.T) {
	tree, err := loader.LoadTree(writePayload(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	g, err := graph.Convert(tree)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(g.Nodes) != 7 {
		t.Fatalf("converted %d nodes, want 7", len(g.Nodes))
	}

	session := store.New(rand.New(rand.NewSource(7)))
	if err := session.InitializeTree(g, "career changer"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if session.MaxDepth() != 3 {
		t.Fatalf("maxDepth = %d, want 3", session.MaxDepth())
	}
	original := session.OriginalGraph()

	// Truncate to depth 1: root plus the three top-level skills.
	if err := session.UpdateDepth(1); err != nil {
		t.Fatalf("update depth: %v", err)
	}
	current := session.CurrentGraph()
	if len(current.Nodes) != 4 || len(current.Edges) != 3 {
		t.Fatalf("depth 1 graph = %d nodes / %d edges, want 4/3", len(current.Nodes), len(current.Edges))
	}
	if err := current.Validate(); err != nil {
		t.Fatalf("depth 1 graph invalid: %v", err)
	}

	// Open the explorer and pick the speed path.
	if err := session.ToggleAlternativePathsExplorer(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := session.TriggerRecalculation(false); err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	alts := session.AlternativePaths()
	if len(alts) != len(strategy.All) {
		t.Fatalf("alternatives = %d, want %d", len(alts), len(strategy.All))
	}
	for i := 1; i < len(alts); i++ {
		if alts[i].Score > alts[i-1].Score {
			t.Errorf("alternatives not sorted by score")
		}
	}
	if err := session.SelectAlternativePath(alts[0]); err != nil {
		t.Fatalf("select: %v", err)
	}

	// Reset restores the initial graph exactly, positions included.
	if err := session.ResetToOriginal(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reflect.DeepEqual(session.CurrentGraph(), original) {
		t.Fatalf("reset did not restore original graph")
	}

	// Export the final state in all formats.
	dir := t.TempDir()
	outs := []string{
		filepath.Join(dir, "g.svg"),
		filepath.Join(dir, "g.png"),
		filepath.Join(dir, "g.json"),
	}
	err = export.SaveAll(export.SnapshotOptions{
		Graph: session.CurrentGraph(),
		Title: tree.Label,
		Paths: session.AlternativePaths(),
	}, outs...)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, out := range outs {
		info, err := os.Stat(out)
		if err != nil || info.Size() == 0 {
			t.Errorf("snapshot %s missing or empty", out)
		}
	}
}

// TestSaveRoundTrip exercises the persistence boundary: rebuild the
// hierarchical form from the displayed graph and store it.
func TestSaveRoundTrip(t *testing.T) {
	tree, err := loader.LoadTree(writePayload(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g, err := graph.Convert(tree)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	rebuilt, err := loader.RebuildTree(g)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !reflect.DeepEqual(rebuilt, tree) {
		t.Fatalf("rebuild is not the inverse of convert")
	}

	db, err := persist.OpenDB(filepath.Join(t.TempDir(), "pathview.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	id, err := db.SaveTree("cloud track", "career", "career changer", rebuilt)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, meta, err := db.GetTree(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if meta.TreeType != "career" {
		t.Errorf("tree type = %q", meta.TreeType)
	}
	if !reflect.DeepEqual(stored, tree) {
		t.Errorf("stored tree does not match source")
	}
}

// TestErrorRecoveryKeepsGraphVisible reproduces a failing recalculation and
// checks the session never blanks the view.
func TestErrorRecoveryKeepsGraphVisible(t *testing.T) {
	tree, err := loader.LoadTree(writePayload(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g, err := graph.Convert(tree)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	session := store.New(rand.New(rand.NewSource(1)))
	if err := session.InitializeTree(g, ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	// A graph with a depth-0 node carrying a dangling edge cannot be
	// initialized at all: construction-time enforcement.
	bad := model.FlowGraph{
		Nodes: []model.FlowNode{{ID: "x", Depth: 0}},
		Edges: []model.FlowEdge{{ID: "e", Source: "x", Target: "ghost"}},
	}
	fresh := store.New(rand.New(rand.NewSource(1)))
	if err := fresh.InitializeTree(bad, ""); err == nil {
		t.Fatalf("invalid graph accepted at initialization")
	}

	// The good session keeps working.
	if err := session.UpdateDepth(2); err != nil {
		t.Fatalf("update depth: %v", err)
	}
	if len(session.CurrentGraph().Nodes) == 0 {
		t.Fatalf("graph blanked")
	}
}
