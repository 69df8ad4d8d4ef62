// Package focus computes the semantic neighborhood of a selected keyword.
//
// Two keywords are neighbors when they share at least one content fragment.
// The traversal is a plain breadth-first search over that implicit adjacency,
// bounded by a hop limit; a node's tier is fixed the first time it is
// dequeued, which is its minimum hop distance regardless of expansion order.
package focus

import (
	"fmt"
	"sort"
)

// Tier classifies a keyword relative to the focused one.
type Tier int

const (
	// TierSelected is the focused keyword itself.
	TierSelected Tier = 0
	// Positive values are neighbor-<hop> tiers.
)

func (t Tier) String() string {
	if t == TierSelected {
		return "selected"
	}
	return fmt.Sprintf("neighbor-%d", int(t))
}

// Opacity returns the tier's base label opacity: selected 1.0, first
// neighbors 0.85, second 0.65, then dimming down to a 0.2 floor.
func (t Tier) Opacity() float64 {
	switch t {
	case TierSelected:
		return 1.0
	case 1:
		return 0.85
	}
	op := 0.65 - 0.2*float64(t-2)
	if op < 0.2 {
		op = 0.2
	}
	return op
}

// State is the result of one focus interaction. It is immutable: the next
// interaction replaces it wholesale, and clearing focus drops it to nil.
type State struct {
	FocusedKeywordID string
	// FocusedNodeIDs includes the focused id and every keyword reached
	// within the hop limit.
	FocusedNodeIDs map[string]struct{}
	// MarginNodeIDs is everything else.
	MarginNodeIDs map[string]struct{}
	// KeywordTiers maps each focused id to its hop tier.
	KeywordTiers map[string]Tier
}

// Focused reports whether id was reached within the hop limit.
func (s *State) Focused(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.FocusedNodeIDs[id]
	return ok
}

// New runs the hop-limited traversal from selectedID.
//
// The adjacency is derived from contentByKeyword: keyword ids sharing a
// content id are neighbors. Expansion order is sorted at every step, so the
// output is identical under any iteration order of the input map. A selected
// id with no content yields only itself focused; maxHops 0 does the same
// regardless of connectivity.
func New(selectedID string, allKeywordIDs []string, contentByKeyword map[string][]string, maxHops int) *State {
	adj := buildAdjacency(contentByKeyword)

	st := &State{
		FocusedKeywordID: selectedID,
		FocusedNodeIDs:   map[string]struct{}{selectedID: {}},
		MarginNodeIDs:    make(map[string]struct{}),
		KeywordTiers:     map[string]Tier{selectedID: TierSelected},
	}

	type hop struct {
		id string
		h  int
	}
	queue := []hop{{id: selectedID, h: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.h == maxHops {
			continue
		}
		for _, next := range adj[cur.id] {
			if _, seen := st.KeywordTiers[next]; seen {
				continue
			}
			st.KeywordTiers[next] = Tier(cur.h + 1)
			st.FocusedNodeIDs[next] = struct{}{}
			queue = append(queue, hop{id: next, h: cur.h + 1})
		}
	}

	for _, id := range allKeywordIDs {
		if _, ok := st.FocusedNodeIDs[id]; !ok {
			st.MarginNodeIDs[id] = struct{}{}
		}
	}
	return st
}

// buildAdjacency inverts contentByKeyword into keyword -> sorted unique
// neighbor ids. Sorting both the inversion keys and the neighbor lists is
// what makes the BFS order-independent.
func buildAdjacency(contentByKeyword map[string][]string) map[string][]string {
	keywordsByContent := make(map[string][]string)
	for kw, contentIDs := range contentByKeyword {
		for _, cid := range contentIDs {
			keywordsByContent[cid] = append(keywordsByContent[cid], kw)
		}
	}

	neighborSets := make(map[string]map[string]struct{})
	for _, kws := range keywordsByContent {
		for _, a := range kws {
			for _, b := range kws {
				if a == b {
					continue
				}
				set, ok := neighborSets[a]
				if !ok {
					set = make(map[string]struct{})
					neighborSets[a] = set
				}
				set[b] = struct{}{}
			}
		}
	}

	adj := make(map[string][]string, len(neighborSets))
	for kw, set := range neighborSets {
		list := make([]string, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		sort.Strings(list)
		adj[kw] = list
	}
	return adj
}
