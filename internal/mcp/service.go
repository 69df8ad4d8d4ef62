package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kartograph/pkg/core/focus"
	"github.com/sanonone/kartograph/pkg/nav"
)

type Service struct {
	engine *nav.Engine
	latest SnapshotFunc
}

func NewService(eng *nav.Engine, latest SnapshotFunc) *Service {
	return &Service{engine: eng, latest: latest}
}

// --- Tool Handlers ---

func (s *Service) FocusKeyword(ctx context.Context, req *mcp.CallToolRequest, args FocusKeywordArgs) (*mcp.CallToolResult, FocusKeywordResult, error) {
	if err := s.engine.Focus(args.KeywordID); err != nil {
		return nil, FocusKeywordResult{}, err
	}
	return nil, FocusKeywordResult{FocusedKeywordID: args.KeywordID, Status: "queued"}, nil
}

func (s *Service) ClearFocus(ctx context.Context, req *mcp.CallToolRequest, args ClearFocusArgs) (*mcp.CallToolResult, ClearFocusResult, error) {
	s.engine.ClearFocus()
	return nil, ClearFocusResult{Status: "cleared"}, nil
}

func (s *Service) ViewportState(ctx context.Context, req *mcp.CallToolRequest, args ViewportStateArgs) (*mcp.CallToolResult, ViewportStateResult, error) {
	out := s.latest()
	if out == nil {
		return nil, ViewportStateResult{}, fmt.Errorf("no frame computed yet")
	}

	limit := args.MaxNodes
	if limit <= 0 {
		limit = 50
	}

	nodes := append([]nav.RenderNode(nil), out.Nodes...)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Opacity != nodes[j].Opacity {
			return nodes[i].Opacity > nodes[j].Opacity
		}
		return nodes[i].ID < nodes[j].ID
	})
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}

	res := ViewportStateResult{Seq: out.Seq}
	if out.Focus != nil {
		res.Focused = out.Focus.FocusedKeywordID
	}
	g := s.engine.Graph()
	for _, n := range nodes {
		vn := ViewportNode{
			ID: n.ID, Kind: n.Kind,
			X: n.X, Y: n.Y,
			Opacity: n.Opacity,
			Pulled:  n.Pulled,
		}
		if kw := g.Keyword(n.ID); kw != nil {
			vn.Label = kw.Label
		}
		res.Nodes = append(res.Nodes, vn)
	}
	return nil, res, nil
}

func (s *Service) Explore(ctx context.Context, req *mcp.CallToolRequest, args ExploreArgs) (*mcp.CallToolResult, ExploreResult, error) {
	g := s.engine.Graph()
	if g.Keyword(args.KeywordID) == nil {
		return nil, ExploreResult{}, fmt.Errorf("unknown keyword %q", args.KeywordID)
	}
	hops := args.MaxHops
	if hops <= 0 {
		hops = 2
	}

	st := focus.New(args.KeywordID, g.KeywordIDs(), g.ContentByKeyword(), hops)
	res := ExploreResult{
		KeywordID: args.KeywordID,
		Tiers:     make(map[string]string, len(st.KeywordTiers)),
		Margin:    len(st.MarginNodeIDs),
	}
	for id, tier := range st.KeywordTiers {
		res.Tiers[id] = tier.String()
	}
	return nil, res, nil
}
