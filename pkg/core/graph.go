// Package core provides the in-memory data model for the Kartograph engine.
//
// This file defines the Graph container, which holds the keyword nodes, the
// content fragments filed under them, and the weighted similarity edges that
// connect keywords. The container is deliberately dumb: it owns no I/O and no
// derived per-frame state. Loading the data is the job of an external
// collaborator; the navigation pipeline (sim, view, focus, fade) reads and
// writes node positions through the accessors here.
package core

import (
	"fmt"
	"sort"

	"github.com/tidwall/btree"
)

// NodeKind tags the two node variants of the graph.
type NodeKind int

const (
	// KindKeyword is a topic label vertex.
	KindKeyword NodeKind = iota
	// KindContent is a text fragment filed under one or more keywords.
	KindContent
)

func (k NodeKind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// Node is the common surface shared by keyword and content nodes. Consumers
// must switch on Kind() exhaustively instead of probing optional fields.
type Node interface {
	Kind() NodeKind
	NodeID() string
	// Pos returns the current true (un-clamped) world position.
	Pos() (x, y float64)
}

// KeywordNode is a topic label vertex. Position and velocity are owned
// exclusively by the force simulation while it runs; everything else is
// immutable after load.
type KeywordNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	CommunityID string `json:"community_id,omitempty"`

	// Embedding is optional. Exactly one of the two representations is
	// populated, depending on the precision the graph was opened with.
	// Explicitly typed fields keep decoders from silently widening to
	// float64, same trap as with gob.
	EmbeddingF32 []float32 `json:"embedding_f32,omitempty"`
	EmbeddingF16 []uint16  `json:"embedding_f16,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX, VY float64 `json:"-"`

	// HasPosition is false until the simulation (or a loader) seeds X/Y.
	// Positions persist across simulation restarts to avoid visual jumps.
	HasPosition bool `json:"-"`
}

func (n *KeywordNode) Kind() NodeKind          { return KindKeyword }
func (n *KeywordNode) NodeID() string          { return n.ID }
func (n *KeywordNode) Pos() (float64, float64) { return n.X, n.Y }

// ContentNode is a text fragment. A fragment may be filed under several
// keywords after de-duplication; ParentIDs is kept sorted so iteration order
// never depends on load order.
type ContentNode struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	ParentIDs []string `json:"parent_ids"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX, VY float64 `json:"-"`

	// HasPosition flips to true the first time at least one parent has a
	// resolvable position and the centroid seed runs. A content node
	// without it is excluded from both simulation and rendering.
	HasPosition bool `json:"-"`
}

func (n *ContentNode) Kind() NodeKind          { return KindContent }
func (n *ContentNode) NodeID() string          { return n.ID }
func (n *ContentNode) Pos() (float64, float64) { return n.X, n.Y }

// HasParent reports whether keywordID is among the node's parents.
// ParentIDs is sorted, so binary search.
func (n *ContentNode) HasParent(keywordID string) bool {
	i := sort.SearchStrings(n.ParentIDs, keywordID)
	return i < len(n.ParentIDs) && n.ParentIDs[i] == keywordID
}

// SimilarityEdge is a weighted undirected edge between two keyword nodes.
type SimilarityEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`

	// IsKNN marks edges added purely for connectivity. They are hidden by
	// default but still pull in the layout.
	IsKNN bool `json:"is_knn,omitempty"`
}

// keywordItem is the B-Tree entry keeping keywords ordered by ID, so every
// full scan of the graph is deterministic regardless of insertion order.
type keywordItem struct {
	id   string
	node *KeywordNode
}

func keywordItemLess(a, b keywordItem) bool { return a.id < b.id }

// Graph holds one loaded semantic graph. It is not safe for concurrent
// mutation; the engine's single-threaded frame contract covers it.
type Graph struct {
	keywords  map[string]*KeywordNode
	keywordBT *btree.BTreeG[keywordItem]
	contents  map[string]*ContentNode
	edges     []SimilarityEdge

	// contentByKeyword maps a keyword ID to the IDs of the content nodes
	// filed under it. This is the adjacency substrate for focus traversal.
	contentByKeyword map[string][]string
}

// NewGraph builds a Graph from loaded records. Content parent sets are
// de-duplicated and sorted; edges referencing unknown keywords are rejected
// here rather than silently dropped, since a malformed edge list is a loader
// bug, not a per-frame condition.
func NewGraph(keywords []*KeywordNode, contents []*ContentNode, edges []SimilarityEdge) (*Graph, error) {
	g := &Graph{
		keywords:         make(map[string]*KeywordNode, len(keywords)),
		keywordBT:        btree.NewBTreeG(keywordItemLess),
		contents:         make(map[string]*ContentNode, len(contents)),
		contentByKeyword: make(map[string][]string),
	}

	for _, kw := range keywords {
		if kw.ID == "" {
			return nil, fmt.Errorf("keyword node with empty id (label %q)", kw.Label)
		}
		if _, dup := g.keywords[kw.ID]; dup {
			return nil, fmt.Errorf("duplicate keyword id %q", kw.ID)
		}
		g.keywords[kw.ID] = kw
		g.keywordBT.Set(keywordItem{id: kw.ID, node: kw})
	}

	for _, cn := range contents {
		if cn.ID == "" {
			return nil, fmt.Errorf("content node with empty id")
		}
		if _, dup := g.contents[cn.ID]; dup {
			return nil, fmt.Errorf("duplicate content id %q", cn.ID)
		}
		cn.ParentIDs = dedupSorted(cn.ParentIDs)
		g.contents[cn.ID] = cn
		for _, pid := range cn.ParentIDs {
			// Unknown parents are tolerated: the content node simply has
			// fewer resolvable anchors. The simulation skips it until at
			// least one parent exists with a position.
			g.contentByKeyword[pid] = append(g.contentByKeyword[pid], cn.ID)
		}
	}
	for pid := range g.contentByKeyword {
		sort.Strings(g.contentByKeyword[pid])
	}

	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) addEdge(e SimilarityEdge) error {
	if _, ok := g.keywords[e.Source]; !ok {
		return fmt.Errorf("edge references unknown source %q", e.Source)
	}
	if _, ok := g.keywords[e.Target]; !ok {
		return fmt.Errorf("edge references unknown target %q", e.Target)
	}
	if e.Similarity < 0 || e.Similarity > 1 {
		return fmt.Errorf("edge %s-%s similarity %f out of [0,1]", e.Source, e.Target, e.Similarity)
	}
	g.edges = append(g.edges, e)
	return nil
}

// Keyword returns the keyword node for id, or nil.
func (g *Graph) Keyword(id string) *KeywordNode { return g.keywords[id] }

// Content returns the content node for id, or nil.
func (g *Graph) Content(id string) *ContentNode { return g.contents[id] }

// KeywordCount returns the number of keyword nodes.
func (g *Graph) KeywordCount() int { return len(g.keywords) }

// ContentCount returns the number of content nodes.
func (g *Graph) ContentCount() int { return len(g.contents) }

// Edges returns the similarity edge list. Callers must not mutate it.
func (g *Graph) Edges() []SimilarityEdge { return g.edges }

// ContentByKeyword exposes the keyword -> content-ID adjacency. The inner
// slices are sorted; callers must not mutate them.
func (g *Graph) ContentByKeyword() map[string][]string { return g.contentByKeyword }

// KeywordIDs returns all keyword IDs in ascending order.
func (g *Graph) KeywordIDs() []string {
	ids := make([]string, 0, g.keywordBT.Len())
	g.keywordBT.Scan(func(it keywordItem) bool {
		ids = append(ids, it.id)
		return true
	})
	return ids
}

// ScanKeywords walks keyword nodes in ascending ID order. Returning false
// from fn stops the scan.
func (g *Graph) ScanKeywords(fn func(*KeywordNode) bool) {
	g.keywordBT.Scan(func(it keywordItem) bool {
		return fn(it.node)
	})
}

// ScanContents walks content nodes in ascending ID order.
func (g *Graph) ScanContents(fn func(*ContentNode) bool) {
	ids := make([]string, 0, len(g.contents))
	for id := range g.contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !fn(g.contents[id]) {
			return
		}
	}
}

// ParentsOf resolves the parent keyword nodes of a content node, skipping
// ids that are not in the current keyword set (filtered out, for instance).
func (g *Graph) ParentsOf(cn *ContentNode) []*KeywordNode {
	parents := make([]*KeywordNode, 0, len(cn.ParentIDs))
	for _, pid := range cn.ParentIDs {
		if kw, ok := g.keywords[pid]; ok {
			parents = append(parents, kw)
		}
	}
	return parents
}

// SiblingCount returns the number of content nodes filed under keywordID.
func (g *Graph) SiblingCount(keywordID string) int {
	return len(g.contentByKeyword[keywordID])
}

func dedupSorted(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	sort.Strings(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
