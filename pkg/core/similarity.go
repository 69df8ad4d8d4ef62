package core

import (
	"fmt"
	"sort"

	"github.com/sanonone/kartograph/pkg/core/distance"
)

// SimilarityParams controls edge derivation from keyword embeddings.
type SimilarityParams struct {
	// Threshold is the minimum cosine similarity for a visible edge.
	Threshold float64
	// KNN is the number of nearest-neighbor connectivity edges added per
	// keyword whose visible degree would otherwise fall below it. Those
	// edges are flagged IsKNN. 0 disables the fill.
	KNN int
	// Precision selects which embedding representation to compare.
	Precision distance.Precision
}

// DefaultSimilarityParams mirrors the thresholds commonly produced by the
// upstream clustering step.
func DefaultSimilarityParams() SimilarityParams {
	return SimilarityParams{
		Threshold: 0.6,
		KNN:       3,
		Precision: distance.Float32,
	}
}

type scoredPair struct {
	id  string
	sim float64
}

// DeriveSimilarityEdges computes similarity edges between all keyword pairs
// that carry embeddings, replacing the graph's current edge list. Keywords
// without an embedding keep whatever explicit edges the loader provided for
// them. The full pairwise pass is fine at the intended scale; it runs once
// per load or filter, never per frame.
func (g *Graph) DeriveSimilarityEdges(params SimilarityParams) error {
	ids := g.KeywordIDs()

	simFn := func(a, b *KeywordNode) (float64, bool, error) {
		switch params.Precision {
		case distance.Float16:
			if len(a.EmbeddingF16) == 0 || len(b.EmbeddingF16) == 0 {
				return 0, false, nil
			}
			s, err := distance.CosineSimilarityF16(a.EmbeddingF16, b.EmbeddingF16)
			return s, true, err
		default:
			if len(a.EmbeddingF32) == 0 || len(b.EmbeddingF32) == 0 {
				return 0, false, nil
			}
			s, err := distance.CosineSimilarityF32(a.EmbeddingF32, b.EmbeddingF32)
			return s, true, err
		}
	}

	var kept []SimilarityEdge
	for _, e := range g.edges {
		a, b := g.keywords[e.Source], g.keywords[e.Target]
		embedded := len(a.EmbeddingF32) > 0 || len(a.EmbeddingF16) > 0
		embeddedB := len(b.EmbeddingF32) > 0 || len(b.EmbeddingF16) > 0
		if !embedded || !embeddedB {
			kept = append(kept, e)
		}
	}
	g.edges = kept

	// neighbors[id] collects every comparable pair's score so the kNN fill
	// can reuse the pass instead of recomputing distances.
	neighbors := make(map[string][]scoredPair, len(ids))
	degree := make(map[string]int, len(ids))

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := g.keywords[ids[i]], g.keywords[ids[j]]
			sim, ok, err := simFn(a, b)
			if err != nil {
				return fmt.Errorf("similarity %s-%s: %w", a.ID, b.ID, err)
			}
			if !ok {
				continue
			}
			neighbors[a.ID] = append(neighbors[a.ID], scoredPair{id: b.ID, sim: sim})
			neighbors[b.ID] = append(neighbors[b.ID], scoredPair{id: a.ID, sim: sim})
			if sim >= params.Threshold {
				g.edges = append(g.edges, SimilarityEdge{Source: a.ID, Target: b.ID, Similarity: sim})
				degree[a.ID]++
				degree[b.ID]++
			}
		}
	}

	if params.KNN <= 0 {
		return nil
	}

	// Connectivity fill: keywords under the target degree adopt their
	// nearest neighbors as hidden kNN edges so no embedded keyword floats
	// free of the layout.
	seen := make(map[[2]string]bool, len(g.edges))
	for _, e := range g.edges {
		seen[pairKey(e.Source, e.Target)] = true
	}
	for _, id := range ids {
		cand := neighbors[id]
		if degree[id] >= params.KNN || len(cand) == 0 {
			continue
		}
		sort.Slice(cand, func(i, j int) bool {
			if cand[i].sim != cand[j].sim {
				return cand[i].sim > cand[j].sim
			}
			return cand[i].id < cand[j].id
		})
		for _, c := range cand {
			if degree[id] >= params.KNN {
				break
			}
			key := pairKey(id, c.id)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.edges = append(g.edges, SimilarityEdge{Source: id, Target: c.id, Similarity: c.sim, IsKNN: true})
			degree[id]++
			degree[c.id]++
		}
	}
	return nil
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
