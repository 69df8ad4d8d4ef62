package focus

import (
	"reflect"
	"testing"
)

func TestTierOpacity(t *testing.T) {
	cases := []struct {
		tier Tier
		want float64
	}{
		{TierSelected, 1.0},
		{1, 0.85},
		{2, 0.65},
		{3, 0.45},
		{5, 0.2}, // floor
	}
	for _, c := range cases {
		if got := c.tier.Opacity(); got != c.want {
			t.Errorf("tier %d opacity: got %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestNewIsolatedKeyword(t *testing.T) {
	all := []string{"alpha", "beta", "gamma"}
	cbk := map[string][]string{
		"beta":  {"c1"},
		"gamma": {"c1"},
	}

	st := New("alpha", all, cbk, 3)

	if st.FocusedKeywordID != "alpha" {
		t.Errorf("focused id: got %q", st.FocusedKeywordID)
	}
	if len(st.FocusedNodeIDs) != 1 || !st.Focused("alpha") {
		t.Errorf("expected only the selected id focused, got %v", st.FocusedNodeIDs)
	}
	if len(st.MarginNodeIDs) != 2 {
		t.Errorf("expected beta and gamma in the margin, got %v", st.MarginNodeIDs)
	}
	if st.KeywordTiers["alpha"] != TierSelected {
		t.Errorf("selected tier: got %v", st.KeywordTiers["alpha"])
	}
}

func TestNewTwoHopChain(t *testing.T) {
	// a -c1- b -c2- c -c3- d: a chain where each link is one shared content.
	all := []string{"a", "b", "c", "d"}
	cbk := map[string][]string{
		"a": {"c1"},
		"b": {"c1", "c2"},
		"c": {"c2", "c3"},
		"d": {"c3"},
	}

	st := New("a", all, cbk, 2)

	wantTiers := map[string]Tier{"a": TierSelected, "b": 1, "c": 2}
	if !reflect.DeepEqual(st.KeywordTiers, wantTiers) {
		t.Errorf("tiers: got %v, want %v", st.KeywordTiers, wantTiers)
	}
	if st.Focused("d") {
		t.Error("d is three hops away, must not be focused at maxHops=2")
	}
	if _, ok := st.MarginNodeIDs["d"]; !ok {
		t.Error("d must be in the margin")
	}
}

func TestNewZeroHops(t *testing.T) {
	all := []string{"a", "b"}
	cbk := map[string][]string{"a": {"c1"}, "b": {"c1"}}

	st := New("a", all, cbk, 0)

	if len(st.FocusedNodeIDs) != 1 {
		t.Errorf("maxHops=0 must focus only the selected id, got %v", st.FocusedNodeIDs)
	}
}

func TestNewEqualHopDiamond(t *testing.T) {
	// Two equal-length paths a->b->d and a->c->d meet at d. Whichever side
	// expands first, d lands on tier 2 and appears exactly once.
	all := []string{"a", "b", "c", "d"}
	cbk := map[string][]string{
		"a": {"ab", "ac"},
		"b": {"ab", "bd"},
		"c": {"ac", "cd"},
		"d": {"bd", "cd"},
	}

	st := New("a", all, cbk, 3)

	if st.KeywordTiers["d"] != 2 {
		t.Errorf("diamond merge tier: got %v, want 2", st.KeywordTiers["d"])
	}
	if len(st.FocusedNodeIDs) != 4 {
		t.Errorf("focused set size: got %d, want 4", len(st.FocusedNodeIDs))
	}
}

func TestNewShorterPathWins(t *testing.T) {
	// b is reachable both directly (one shared content with a) and through
	// c in two hops; the tier must be the minimum.
	all := []string{"a", "b", "c"}
	cbk := map[string][]string{
		"a": {"ab", "ac"},
		"b": {"ab", "bc"},
		"c": {"ac", "bc"},
	}

	st := New("a", all, cbk, 3)

	if st.KeywordTiers["b"] != 1 {
		t.Errorf("b tier: got %v, want 1", st.KeywordTiers["b"])
	}
	if st.KeywordTiers["c"] != 1 {
		t.Errorf("c tier: got %v, want 1", st.KeywordTiers["c"])
	}
}

func TestNewOrderIndependence(t *testing.T) {
	all := []string{"k1", "k2", "k3", "k4", "k5"}
	build := func(order []string) map[string][]string {
		links := map[string][]string{
			"k1": {"s1", "s2"},
			"k2": {"s1", "s3"},
			"k3": {"s2", "s3", "s4"},
			"k4": {"s4", "s5"},
			"k5": {"s5"},
		}
		m := make(map[string][]string)
		for _, k := range order {
			m[k] = links[k]
		}
		return m
	}

	a := New("k1", all, build([]string{"k1", "k2", "k3", "k4", "k5"}), 2)
	b := New("k1", all, build([]string{"k5", "k3", "k1", "k4", "k2"}), 2)

	if !reflect.DeepEqual(a.KeywordTiers, b.KeywordTiers) {
		t.Errorf("tiers differ across insertion orders: %v vs %v", a.KeywordTiers, b.KeywordTiers)
	}
	if !reflect.DeepEqual(a.MarginNodeIDs, b.MarginNodeIDs) {
		t.Errorf("margins differ across insertion orders: %v vs %v", a.MarginNodeIDs, b.MarginNodeIDs)
	}
}

func TestFocusedNilState(t *testing.T) {
	var st *State
	if st.Focused("anything") {
		t.Error("nil state must report nothing focused")
	}
}
