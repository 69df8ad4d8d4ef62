// Package view holds the camera-derived geometry of the navigator: the zoom
// phase calculator, the nested viewport zones, and the edge-magnet clamp
// that keeps off-screen but relevant nodes reachable.
package view

// Range describes one zoom phase: the camera distance where a feature starts
// appearing and the distance where it is fully active. Start > Full means the
// feature activates while zooming in; Start < Full activates while zooming
// out. Both directions behave symmetrically.
type Range struct {
	Start float64 `yaml:"start" json:"start"`
	Full  float64 `yaml:"full" json:"full"`
}

// At evaluates the phase at the given camera distance: 0 at Start, 1 at
// Full, linear in between, clamped outside. Continuous and monotone in the
// distance, so nothing pops. A degenerate Start == Full acts as a step that
// is active once the camera is at or past the shared threshold, without
// dividing by zero.
func (r Range) At(cameraDistance float64) float64 {
	if r.Start == r.Full {
		if cameraDistance == r.Start {
			return 1
		}
		// Direction is unknowable for a zero-width range; treat the near
		// side (zoom-in) as active, matching how these configs are used.
		if cameraDistance < r.Start {
			return 1
		}
		return 0
	}
	t := (cameraDistance - r.Start) / (r.Full - r.Start)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Ranges configures every zoom phase.
type Ranges struct {
	KeywordScale          Range `yaml:"keyword_scale" json:"keyword_scale"`
	KeywordLabelOpacity   Range `yaml:"keyword_label_opacity" json:"keyword_label_opacity"`
	CommunityLabelOpacity Range `yaml:"community_label_opacity" json:"community_label_opacity"`
	ContentScale          Range `yaml:"content_scale" json:"content_scale"`
	ContentEdgeOpacity    Range `yaml:"content_edge_opacity" json:"content_edge_opacity"`
	ContentLabelOpacity   Range `yaml:"content_label_opacity" json:"content_label_opacity"`
}

// DefaultRanges: community labels live at the city-wide overview, keyword
// labels through the mid range, content detail only close up.
func DefaultRanges() Ranges {
	return Ranges{
		KeywordScale:          Range{Start: 2400, Full: 800},
		KeywordLabelOpacity:   Range{Start: 1800, Full: 700},
		CommunityLabelOpacity: Range{Start: 1200, Full: 2200},
		ContentScale:          Range{Start: 1000, Full: 350},
		ContentEdgeOpacity:    Range{Start: 800, Full: 400},
		ContentLabelOpacity:   Range{Start: 900, Full: 300},
	}
}

// Scales is the per-frame zoom phase vector.
type Scales struct {
	KeywordScale          float64 `json:"keyword_scale"`
	KeywordLabelOpacity   float64 `json:"keyword_label_opacity"`
	CommunityLabelOpacity float64 `json:"community_label_opacity"`
	ContentScale          float64 `json:"content_scale"`
	ContentEdgeOpacity    float64 `json:"content_edge_opacity"`
	ContentLabelOpacity   float64 `json:"content_label_opacity"`
}

// CalculateScales converts the camera distance into the zoom phase vector.
// Pure; every output is an independent interpolation of its Range.
func CalculateScales(cameraDistance float64, ranges Ranges) Scales {
	return Scales{
		KeywordScale:          ranges.KeywordScale.At(cameraDistance),
		KeywordLabelOpacity:   ranges.KeywordLabelOpacity.At(cameraDistance),
		CommunityLabelOpacity: ranges.CommunityLabelOpacity.At(cameraDistance),
		ContentScale:          ranges.ContentScale.At(cameraDistance),
		ContentEdgeOpacity:    ranges.ContentEdgeOpacity.At(cameraDistance),
		ContentLabelOpacity:   ranges.ContentLabelOpacity.At(cameraDistance),
	}
}
