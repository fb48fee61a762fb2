package search

import (
	"testing"

	"github.com/careermap/pathview/pkg/model"
)

func testIndex() *Index {
	return NewIndex(model.FlowGraph{
		Nodes: []model.FlowNode{
			{ID: "root", Label: "Data Engineering"},
			{ID: "s1", Label: "SQL Fundamentals"},
			{ID: "s2", Label: "Python"},
			{ID: "s3", Label: "Cloud Platforms"},
			{ID: "c1", Label: "Data Engineer"},
		},
	})
}

func TestSearch_ExactWord(t *testing.T) {
	matches := testIndex().Search("python", 0)
	if len(matches) == 0 {
		t.Fatalf("no match for python")
	}
	if matches[0].Node.ID != "s2" {
		t.Errorf("best match = %s, want s2", matches[0].Node.ID)
	}
}

func TestSearch_FuzzyAbbreviation(t *testing.T) {
	matches := testIndex().Search("sqlf", 0)
	if len(matches) == 0 {
		t.Fatalf("no match for sqlf")
	}
	if matches[0].Node.ID != "s1" {
		t.Errorf("best match = %s, want s1", matches[0].Node.ID)
	}
	if len(matches[0].MatchedIndexes) == 0 {
		t.Errorf("matched indexes empty")
	}
}

func TestSearch_Limit(t *testing.T) {
	matches := testIndex().Search("a", 2)
	if len(matches) > 2 {
		t.Errorf("limit ignored: %d matches", len(matches))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	if got := testIndex().Search("", 0); got != nil {
		t.Errorf("empty query matched %d nodes", len(got))
	}
}

func TestSearch_NoMatch(t *testing.T) {
	if got := testIndex().Search("zzzzzz", 0); len(got) != 0 {
		t.Errorf("nonsense query matched %d nodes", len(got))
	}
}
