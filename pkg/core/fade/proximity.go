package fade

import "github.com/tidwall/btree"

// Candidate is a label-bearing node at its render position for this frame
// (the pulled position when the node is clamped).
type Candidate struct {
	ID   string
	X, Y float64
}

// rankItem orders candidates by squared cursor distance; id breaks exact
// ties so the ranking stays deterministic.
type rankItem struct {
	d2 float64
	id string
}

func rankItemLess(a, b rankItem) bool {
	if a.d2 != b.d2 {
		return a.d2 < b.d2
	}
	return a.id < b.id
}

// tailFadeCount is how many of the visible K get the soft boundary.
const tailFadeCount = 3

// tailFloor is the opacity the last ranked label fades down to.
const tailFloor = 0.3

// Ranker marks the K labels nearest the cursor as visible, with a linear
// tail fade on the last few so the visible set's boundary stays soft as the
// cursor moves. The distance-ordered tree and the output map are reused
// across frames.
type Ranker struct {
	k       int
	tree    *btree.BTreeG[rankItem]
	weights map[string]float64
}

// NewRanker builds a ranker keeping the nearest k labels visible.
func NewRanker(k int) *Ranker {
	if k <= 0 {
		k = 12
	}
	return &Ranker{
		k:       k,
		tree:    btree.NewBTreeG(rankItemLess),
		weights: make(map[string]float64, k),
	}
}

// Rank computes per-id proximity weights for this frame: the nearest K get
// weight 1.0 except the bottom tailFadeCount of them, which fade linearly
// down to tailFloor. Everything else is absent from the returned map (weight
// 0). The map is valid until the next Rank call.
func (r *Ranker) Rank(cursorX, cursorY float64, candidates []Candidate) map[string]float64 {
	r.tree.Clear()
	clear(r.weights)

	for _, c := range candidates {
		dx := c.X - cursorX
		dy := c.Y - cursorY
		r.tree.Set(rankItem{d2: dx*dx + dy*dy, id: c.ID})
	}

	rank := 0
	r.tree.Scan(func(it rankItem) bool {
		if rank >= r.k {
			return false
		}
		r.weights[it.id] = r.weight(rank)
		rank++
		return true
	})
	return r.weights
}

func (r *Ranker) weight(rank int) float64 {
	fadeStart := r.k - tailFadeCount
	if fadeStart < 0 {
		fadeStart = 0
	}
	if rank < fadeStart {
		return 1.0
	}
	span := r.k - fadeStart
	if span == 0 {
		return 1.0
	}
	// rank == fadeStart is the first faded slot; the last slot lands on
	// tailFloor.
	step := (1.0 - tailFloor) / float64(span)
	return 1.0 - step*float64(rank-fadeStart+1)
}
