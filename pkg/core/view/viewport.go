package view

import "math"

// Camera is the navigator's view of the host camera: a world position on the
// viewing plane, the distance along the viewing axis, and a vertical field of
// view in radians.
type Camera struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	FOV      float64 `json:"fov"`
}

// Rect is an axis-aligned world-space rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Width and Height of the rectangle.
func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// expand grows the rectangle around its center by the given factor.
func (r Rect) expand(factor float64) Rect {
	cx, cy := r.Center()
	hw := r.Width() / 2 * factor
	hh := r.Height() / 2 * factor
	return Rect{MinX: cx - hw, MinY: cy - hh, MaxX: cx + hw, MaxY: cy + hh}
}

// Zones are the three nested world-space rectangles the clamp works with:
// the tight visible rectangle, the slightly larger "counts as on-screen"
// rectangle, and the pull bounds beyond which a node is dropped entirely.
type Zones struct {
	// Valid is false for degenerate geometry (zero-area viewport,
	// non-positive camera distance). Nothing is visible and nothing is
	// pulled in that case; callers must check before classifying.
	Valid bool

	Viewport   Rect
	Extended   Rect
	PullBounds Rect
}

const (
	extendedFactor = 1.15
	pullFactor     = 1.9
)

// ComputeViewportZones projects the camera frustum onto the layout plane.
// Degenerate inputs classify as "not visible" instead of dividing by zero.
func ComputeViewportZones(cam Camera, width, height float64) Zones {
	if width <= 0 || height <= 0 || cam.Distance <= 0 || cam.FOV <= 0 || cam.FOV >= math.Pi {
		return Zones{}
	}

	halfH := cam.Distance * math.Tan(cam.FOV/2)
	halfW := halfH * (width / height)

	vp := Rect{
		MinX: cam.X - halfW,
		MinY: cam.Y - halfH,
		MaxX: cam.X + halfW,
		MaxY: cam.Y + halfH,
	}
	return Zones{
		Valid:      true,
		Viewport:   vp,
		Extended:   vp.expand(extendedFactor),
		PullBounds: vp.expand(pullFactor),
	}
}
