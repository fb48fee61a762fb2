package persist

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/careermap/pathview/pkg/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "pathview.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testTree() model.TreeNode {
	return model.TreeNode{
		ID: "root", Label: "Backend Development", Kind: model.KindRoot,
		Children: []model.TreeNode{
			{ID: "s1", Label: "Go", Kind: model.KindSkill, Depth: 1, Actions: []string{"Build an API"}},
		},
	}
}

func TestSaveAndGetTree(t *testing.T) {
	db := testDB(t)

	id, err := db.SaveTree("my path", "career", "junior dev", testTree())
	if err != nil {
		t.Fatalf("SaveTree: %v", err)
	}

	tree, meta, err := db.GetTree(id)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if meta.Name != "my path" || meta.TreeType != "career" || meta.Profile != "junior dev" {
		t.Errorf("meta = %+v", meta)
	}
	if !reflect.DeepEqual(tree, testTree()) {
		t.Errorf("tree did not round-trip:\n got %+v\nwant %+v", tree, testTree())
	}
}

func TestSaveTree_RequiresName(t *testing.T) {
	db := testDB(t)
	if _, err := db.SaveTree("", "career", "", testTree()); err == nil {
		t.Errorf("nameless tree accepted")
	}
}

func TestListAndDeleteTrees(t *testing.T) {
	db := testDB(t)
	first, err := db.SaveTree("first", "career", "", testTree())
	if err != nil {
		t.Fatalf("SaveTree: %v", err)
	}
	if _, err := db.SaveTree("second", "skill", "", testTree()); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}

	trees, err := db.ListTrees()
	if err != nil {
		t.Fatalf("ListTrees: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("listed %d trees, want 2", len(trees))
	}

	if err := db.DeleteTree(first); err != nil {
		t.Fatalf("DeleteTree: %v", err)
	}
	trees, err = db.ListTrees()
	if err != nil {
		t.Fatalf("ListTrees: %v", err)
	}
	if len(trees) != 1 || trees[0].Name != "second" {
		t.Errorf("after delete: %+v", trees)
	}

	if err := db.DeleteTree(9999); err == nil {
		t.Errorf("deleting unknown tree succeeded")
	}
}

func TestNotes_Upsert(t *testing.T) {
	db := testDB(t)

	if note, err := db.GetNote("s1"); err != nil || note != "" {
		t.Fatalf("GetNote on empty table = %q, %v", note, err)
	}

	if err := db.SaveNote("s1", "start here"); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if err := db.SaveNote("s1", "revised"); err != nil {
		t.Fatalf("SaveNote upsert: %v", err)
	}

	note, err := db.GetNote("s1")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note != "revised" {
		t.Errorf("note = %q, want revised", note)
	}

	if err := db.SaveNote("", "x"); err == nil {
		t.Errorf("note without node id accepted")
	}
}
