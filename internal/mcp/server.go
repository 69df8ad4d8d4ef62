// Package mcp exposes a navigation session as MCP tools, so an agent can
// steer the camera's semantic attention: focus a keyword, read back what the
// viewport currently shows, and explore shared-content neighborhoods.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kartograph/pkg/nav"
)

// SnapshotFunc returns the latest published frame snapshot, nil before the
// first frame. The daemon wires this to the HTTP server's publish cell.
type SnapshotFunc func() *nav.FrameOutput

// NewMCPServer registers the navigation tools over an opened engine.
func NewMCPServer(eng *nav.Engine, latest SnapshotFunc) *mcp.Server {
	service := NewService(eng, latest)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "Kartograph Navigator",
		Version: "0.2.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "focus_keyword",
		Description: "Focus a keyword node; the engine highlights its semantic neighborhood reached through shared content fragments.",
	}, service.FocusKeyword)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "clear_focus",
		Description: "Exit focus mode and return to cursor-proximity label visibility.",
	}, service.ClearFocus)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_viewport_state",
		Description: "Read the latest frame: which nodes are visible, their positions, opacities, and whether they are clamped to the viewport edge.",
	}, service.ViewportState)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "explore_neighborhood",
		Description: "Run the hop-limited shared-content traversal from a keyword without changing the current focus.",
	}, service.Explore)

	return s
}
