package core

import (
	"reflect"
	"testing"
)

func TestNewGraphValidation(t *testing.T) {
	kw := func(id string) *KeywordNode { return &KeywordNode{ID: id, Label: id} }

	t.Run("DuplicateKeyword", func(t *testing.T) {
		_, err := NewGraph([]*KeywordNode{kw("a"), kw("a")}, nil, nil)
		if err == nil {
			t.Fatal("expected error for duplicate keyword id")
		}
	})

	t.Run("EdgeUnknownTarget", func(t *testing.T) {
		_, err := NewGraph([]*KeywordNode{kw("a")}, nil, []SimilarityEdge{{Source: "a", Target: "ghost", Similarity: 0.5}})
		if err == nil {
			t.Fatal("expected error for edge to unknown keyword")
		}
	})

	t.Run("EdgeSimilarityOutOfRange", func(t *testing.T) {
		_, err := NewGraph([]*KeywordNode{kw("a"), kw("b")}, nil, []SimilarityEdge{{Source: "a", Target: "b", Similarity: 1.2}})
		if err == nil {
			t.Fatal("expected error for similarity > 1")
		}
	})

	t.Run("ParentDedup", func(t *testing.T) {
		g, err := NewGraph(
			[]*KeywordNode{kw("a"), kw("b")},
			[]*ContentNode{{ID: "c1", ParentIDs: []string{"b", "a", "b"}}},
			nil,
		)
		if err != nil {
			t.Fatalf("NewGraph failed: %v", err)
		}
		got := g.Content("c1").ParentIDs
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("expected deduplicated sorted parents, got %v", got)
		}
	})

	t.Run("UnknownParentTolerated", func(t *testing.T) {
		// A content node whose parent was filtered out stays loadable; it
		// just has no anchor until the parent comes back.
		g, err := NewGraph(
			[]*KeywordNode{kw("a")},
			[]*ContentNode{{ID: "c1", ParentIDs: []string{"missing"}}},
			nil,
		)
		if err != nil {
			t.Fatalf("NewGraph failed: %v", err)
		}
		if len(g.ParentsOf(g.Content("c1"))) != 0 {
			t.Error("expected no resolvable parents")
		}
	})
}

func TestGraphDeterministicIteration(t *testing.T) {
	// Insertion order must not leak into iteration order.
	g1, _ := NewGraph([]*KeywordNode{{ID: "z"}, {ID: "a"}, {ID: "m"}}, nil, nil)
	g2, _ := NewGraph([]*KeywordNode{{ID: "m"}, {ID: "z"}, {ID: "a"}}, nil, nil)

	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(g1.KeywordIDs(), want) {
		t.Errorf("g1 order: got %v", g1.KeywordIDs())
	}
	if !reflect.DeepEqual(g2.KeywordIDs(), want) {
		t.Errorf("g2 order: got %v", g2.KeywordIDs())
	}
}

func TestSiblingCount(t *testing.T) {
	g, err := NewGraph(
		[]*KeywordNode{{ID: "k1"}, {ID: "k2"}},
		[]*ContentNode{
			{ID: "c1", ParentIDs: []string{"k1"}},
			{ID: "c2", ParentIDs: []string{"k1", "k2"}},
			{ID: "c3", ParentIDs: []string{"k2"}},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	if got := g.SiblingCount("k1"); got != 2 {
		t.Errorf("k1 siblings: got %d, want 2", got)
	}
	if got := g.SiblingCount("k2"); got != 2 {
		t.Errorf("k2 siblings: got %d, want 2", got)
	}
	if got := g.SiblingCount("nope"); got != 0 {
		t.Errorf("unknown keyword siblings: got %d, want 0", got)
	}
}
