package view

import (
	"math"

	"github.com/sanonone/kartograph/pkg/core"
)

// PulledPosition is the on-screen substitute position for an off-screen
// node: clamped to the viewport boundary along the ray from the viewport
// center toward the node's true position. ConnectedPrimaryIDs lists the
// in-view neighbors that justified pulling the node in, so edges to it can
// be drawn without retaining the true off-screen coordinate.
type PulledPosition struct {
	X, Y                float64
	ConnectedPrimaryIDs []string
}

// PullParams tunes the clamp.
type PullParams struct {
	// EdgeInset keeps a pulled node strictly inside the viewport rather
	// than exactly on its edge.
	EdgeInset float64 `yaml:"edge_inset"`
	// CliffZoneFrac widens the Extended rectangle by this fraction of its
	// half-span before a node counts as off-screen. Sub-pixel camera pans
	// then never toggle a node between clamped and natural.
	CliffZoneFrac float64 `yaml:"cliff_zone_frac"`
}

// DefaultPullParams matches the label sizes the renderer draws at the edge.
func DefaultPullParams() PullParams {
	return PullParams{EdgeInset: 12, CliffZoneFrac: 0.08}
}

// Clamper computes pull state frame after frame, reusing its internal
// primary-set buffer so the per-frame pass allocates nothing.
type Clamper struct {
	params    PullParams
	primaries map[string]struct{}
}

// NewClamper builds a Clamper with the given parameters.
func NewClamper(params PullParams) *Clamper {
	return &Clamper{params: params, primaries: make(map[string]struct{})}
}

// Primaries returns the keyword ids that counted as on-screen in the last
// Compute pass. Valid until the next pass.
func (c *Clamper) Primaries() map[string]struct{} { return c.primaries }

// Compute classifies every content node against the zones and fills out
// with the nodes that must be pulled to the viewport edge: nodes outside the
// Extended rectangle (past the cliff zone) that still have at least one
// parent keyword inside it. Nodes beyond PullBounds are dropped entirely;
// nodes already inside the viewport never appear in the map.
//
// out is a reusable buffer: it is cleared and refilled, not reallocated.
func (c *Clamper) Compute(g *core.Graph, zones Zones, out map[string]PulledPosition) {
	clear(out)
	clear(c.primaries)
	if !zones.Valid {
		return
	}
	params := c.params
	primaries := c.primaries

	// Primary set: keywords that count as on-screen this frame.
	g.ScanKeywords(func(kw *core.KeywordNode) bool {
		if kw.HasPosition && zones.Extended.Contains(kw.X, kw.Y) {
			primaries[kw.ID] = struct{}{}
		}
		return true
	})

	cliff := zones.Extended.expand(1 + params.CliffZoneFrac)

	g.ScanContents(func(cn *core.ContentNode) bool {
		if !cn.HasPosition {
			return true
		}
		if cliff.Contains(cn.X, cn.Y) {
			// Inside the viewport, the extended zone, or the cliff band:
			// rendered at its natural position, never clamped.
			return true
		}
		if !zones.PullBounds.Contains(cn.X, cn.Y) {
			// Too far to be worth pulling in.
			return true
		}
		var connected []string
		for _, pid := range cn.ParentIDs {
			if _, ok := primaries[pid]; ok {
				connected = append(connected, pid)
			}
		}
		if len(connected) == 0 {
			return true
		}
		x, y, ok := clampToRect(zones.Viewport, params.EdgeInset, cn.X, cn.Y)
		if !ok {
			return true
		}
		out[cn.ID] = PulledPosition{X: x, Y: y, ConnectedPrimaryIDs: connected}
		return true
	})
}

// clampToRect intersects the ray from the rectangle center toward (x, y)
// with the rectangle shrunk by inset, returning the intersection point.
func clampToRect(r Rect, inset float64, x, y float64) (float64, float64, bool) {
	cx, cy := r.Center()
	dx := x - cx
	dy := y - cy
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}

	hw := r.Width()/2 - inset
	hh := r.Height()/2 - inset
	if hw <= 0 || hh <= 0 {
		return 0, 0, false
	}

	// Scale factor to the first boundary hit on either axis.
	t := math.Inf(1)
	if dx != 0 {
		t = hw / math.Abs(dx)
	}
	if dy != 0 {
		if ty := hh / math.Abs(dy); ty < t {
			t = ty
		}
	}
	if math.IsInf(t, 1) || t >= 1 {
		// Already inside the inset rectangle; nothing to clamp.
		return x, y, false
	}
	return cx + dx*t, cy + dy*t, true
}
