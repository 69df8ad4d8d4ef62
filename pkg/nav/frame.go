package nav

import (
	"time"

	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/core/fade"
	"github.com/sanonone/kartograph/pkg/core/focus"
	"github.com/sanonone/kartograph/pkg/core/view"
	"github.com/sanonone/kartograph/pkg/metrics"
)

// FrameInput is everything the pipeline reads from the outside world for one
// frame. Cursor coordinates are in the same world space as node positions.
type FrameInput struct {
	Camera  view.Camera `json:"camera"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	CursorX float64     `json:"cursor_x"`
	CursorY float64     `json:"cursor_y"`
}

// RenderNode is one node as the renderer should draw it this frame.
type RenderNode struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Pulled  bool    `json:"pulled,omitempty"`
}

// FrameOutput is the versioned snapshot handed to the renderer. The engine
// double-buffers outputs: a snapshot stays readable until the frame after
// next, which is enough for a renderer consuming frames in order.
type FrameOutput struct {
	Seq    uint64                         `json:"seq"`
	Scales view.Scales                    `json:"scales"`
	Zones  view.Zones                     `json:"-"`
	Focus  *focus.State                   `json:"-"`
	Nodes  []RenderNode                   `json:"nodes"`
	Pulled map[string]view.PulledPosition `json:"-"`
}

// Clone deep-copies the snapshot so it can outlive the double-buffer cycle,
// e.g. when handed to the HTTP surface while the frame loop keeps running.
func (o *FrameOutput) Clone() *FrameOutput {
	if o == nil {
		return nil
	}
	c := &FrameOutput{
		Seq:    o.Seq,
		Scales: o.Scales,
		Zones:  o.Zones,
		Focus:  o.Focus, // immutable by contract
		Nodes:  append([]RenderNode(nil), o.Nodes...),
		Pulled: make(map[string]view.PulledPosition, len(o.Pulled)),
	}
	for id, pp := range o.Pulled {
		c.Pulled[id] = pp
	}
	return c
}

func newFrameOutput() *FrameOutput {
	return &FrameOutput{
		Nodes:  make([]RenderNode, 0, 256),
		Pulled: make(map[string]view.PulledPosition),
	}
}

// Frame runs one pipeline pass. Stage order is load-bearing: the simulation
// must run before viewport classification, which must run before the fade
// manager, since each stage consumes the previous stage's positions.
func (e *Engine) Frame(in FrameInput) *FrameOutput {
	start := time.Now()
	e.consumePending(&in)

	// 1. Advance the layout.
	e.simulation.SetEnergy(in.Camera.Distance)
	for i := 0; i < e.opts.TicksPerFrame; i++ {
		if !e.simulation.Tick() {
			break
		}
	}

	// 2. Zoom phases.
	scales := view.CalculateScales(in.Camera.Distance, e.opts.ZoomRanges)

	// 3. Viewport zones and edge-magnet clamp.
	zones := view.ComputeViewportZones(in.Camera, in.Width, in.Height)
	e.clamper.Compute(e.graph, zones, e.pulled)
	primaries := e.clamper.Primaries()

	// 4. Active set for the membership fade.
	clear(e.active)
	if zones.Valid {
		if scales.KeywordLabelOpacity > 0 {
			for id := range primaries {
				if e.focusState != nil && !e.focusState.Focused(id) {
					continue // margin nodes decay out in focus mode
				}
				e.active[id] = struct{}{}
			}
		}
		if scales.ContentScale > 0 {
			e.graph.ScanContents(func(cn *core.ContentNode) bool {
				if cn.HasPosition && zones.Extended.Contains(cn.X, cn.Y) {
					e.active[cn.ID] = struct{}{}
				}
				return true
			})
			for id := range e.pulled {
				e.active[id] = struct{}{}
			}
		}
	}
	e.fader.Step(e.active)

	// 5. Proximity ranking, bypassed entirely in focus mode. Every
	// label-bearing node competes at its render position: keywords and
	// natural contents at their true coordinates, pulled contents at the
	// clamped ones.
	var weights map[string]float64
	if e.focusState == nil && zones.Valid {
		e.candidates = e.candidates[:0]
		for id := range primaries {
			kw := e.graph.Keyword(id)
			e.candidates = append(e.candidates, fade.Candidate{ID: id, X: kw.X, Y: kw.Y})
		}
		e.graph.ScanContents(func(cn *core.ContentNode) bool {
			if pp, ok := e.pulled[cn.ID]; ok {
				e.candidates = append(e.candidates, fade.Candidate{ID: cn.ID, X: pp.X, Y: pp.Y})
			} else if cn.HasPosition && zones.Extended.Contains(cn.X, cn.Y) {
				e.candidates = append(e.candidates, fade.Candidate{ID: cn.ID, X: cn.X, Y: cn.Y})
			}
			return true
		})
		weights = e.ranker.Rank(in.CursorX, in.CursorY, e.candidates)
	}

	// 6. Compose the output snapshot.
	out := e.outputs[e.seq%2]
	e.seq++
	out.Seq = e.seq
	out.Scales = scales
	out.Zones = zones
	out.Focus = e.focusState
	out.Nodes = out.Nodes[:0]
	clear(out.Pulled)

	visible := 0
	if zones.Valid {
		for id := range primaries {
			kw := e.graph.Keyword(id)
			op := e.keywordOpacity(id, scales, weights)
			if op > 0 {
				visible++
			}
			out.Nodes = append(out.Nodes, RenderNode{
				ID: id, Kind: core.KindKeyword.String(),
				X: kw.X, Y: kw.Y,
				Scale:   scales.KeywordScale,
				Opacity: op,
			})
		}
		e.graph.ScanContents(func(cn *core.ContentNode) bool {
			if !cn.HasPosition {
				return true
			}
			if pp, ok := e.pulled[cn.ID]; ok {
				op := e.contentOpacity(cn.ID, scales, weights)
				if op > 0 {
					visible++
				}
				out.Nodes = append(out.Nodes, RenderNode{
					ID: cn.ID, Kind: core.KindContent.String(),
					X: pp.X, Y: pp.Y,
					Scale:   scales.ContentScale,
					Opacity: op,
					Pulled:  true,
				})
				out.Pulled[cn.ID] = pp
				return true
			}
			if zones.Extended.Contains(cn.X, cn.Y) {
				op := e.contentOpacity(cn.ID, scales, weights)
				if op > 0 {
					visible++
				}
				out.Nodes = append(out.Nodes, RenderNode{
					ID: cn.ID, Kind: core.KindContent.String(),
					X: cn.X, Y: cn.Y,
					Scale:   scales.ContentScale,
					Opacity: op,
				})
			}
			return true
		})
	}

	metrics.FramesTotal.Inc()
	metrics.FrameDuration.Observe(time.Since(start).Seconds())
	metrics.VisibleNodes.Set(float64(visible))
	metrics.PulledNodes.Set(float64(len(out.Pulled)))
	return out
}

// keywordOpacity composes the three signals for a keyword label: animated
// membership fade, focus tier base (or proximity weight outside focus mode),
// and the zoom-derived label opacity.
func (e *Engine) keywordOpacity(id string, scales view.Scales, weights map[string]float64) float64 {
	op := e.fader.Opacity(id) * scales.KeywordLabelOpacity
	if e.focusState != nil {
		tier, ok := e.focusState.KeywordTiers[id]
		if !ok {
			return 0
		}
		return op * tier.Opacity()
	}
	return op * weights[id]
}

// contentOpacity composes a content label's opacity: animated membership fade,
// zoom-derived label opacity, and (outside focus mode) the proximity weight at
// the node's render position.
func (e *Engine) contentOpacity(id string, scales view.Scales, weights map[string]float64) float64 {
	op := e.fader.Opacity(id) * scales.ContentLabelOpacity
	if e.focusState != nil {
		return op
	}
	return op * weights[id]
}
