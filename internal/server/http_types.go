package server

import (
	"math"

	"github.com/sanonone/kartograph/pkg/core/view"
)

// FocusRequest selects a keyword to focus. An empty keyword_id clears
// focus mode.
type FocusRequest struct {
	KeywordID string `json:"keyword_id"`
}

// CameraRequest updates the camera read at the top of the next frame.
type CameraRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	FOV      float64 `json:"fov,omitempty"`
}

// CursorRequest updates the world-space cursor position.
type CursorRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphSummary describes the loaded graph.
type GraphSummary struct {
	Keywords int `json:"keywords"`
	Contents int `json:"contents"`
	Edges    int `json:"edges"`
}

// FocusResponse reports the focus state after an action.
type FocusResponse struct {
	FocusedKeywordID string            `json:"focused_keyword_id,omitempty"`
	Tiers            map[string]string `json:"tiers,omitempty"`
	MarginCount      int               `json:"margin_count"`
}

// StateResponse wraps the latest frame snapshot plus pulled positions in a
// JSON-friendly shape.
type StateResponse struct {
	Seq     uint64                `json:"seq"`
	Scales  view.Scales           `json:"scales"`
	Nodes   interface{}           `json:"nodes"`
	Pulled  map[string]PulledJSON `json:"pulled,omitempty"`
	Focused string                `json:"focused_keyword_id,omitempty"`
}

// PulledJSON is the wire form of a pulled position.
type PulledJSON struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Connected []string `json:"connected_primary_ids"`
}

// cameraFromRequest fills the fov default for clients that only send
// position and distance.
func cameraFromRequest(req CameraRequest) view.Camera {
	fov := req.FOV
	if fov == 0 {
		fov = math.Pi / 3
	}
	return view.Camera{X: req.X, Y: req.Y, Distance: req.Distance, FOV: fov}
}
