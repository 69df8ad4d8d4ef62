package mcp

// --- Tool Arguments ---

type FocusKeywordArgs struct {
	KeywordID string `json:"keyword_id" jsonschema:"The keyword node to focus. The engine computes its semantic neighborhood through shared content,required"`
}

type FocusKeywordResult struct {
	FocusedKeywordID string `json:"focused_keyword_id"`
	Status           string `json:"status"`
}

type ClearFocusArgs struct{}

type ClearFocusResult struct {
	Status string `json:"status"`
}

type ViewportStateArgs struct {
	// MaxNodes caps how many render nodes are returned, most opaque first.
	MaxNodes int `json:"max_nodes,omitempty" jsonschema:"Max number of nodes to return (default 50)"`
}

type ViewportNode struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
	Pulled  bool    `json:"pulled,omitempty"`
}

type ViewportStateResult struct {
	Seq     uint64         `json:"seq"`
	Focused string         `json:"focused_keyword_id,omitempty"`
	Nodes   []ViewportNode `json:"nodes"`
}

type ExploreArgs struct {
	KeywordID string `json:"keyword_id" jsonschema:"The keyword to explore from,required"`
	MaxHops   int    `json:"max_hops,omitempty" jsonschema:"Hop limit for the shared-content traversal (default 2)"`
}

type ExploreResult struct {
	KeywordID string            `json:"keyword_id"`
	Tiers     map[string]string `json:"tiers"`
	Margin    int               `json:"margin_count"`
}
