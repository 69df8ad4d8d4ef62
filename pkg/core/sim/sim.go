// Package sim implements the force-based layout for the navigation graph.
//
// The integrator follows the d3-force model: per-tick forces accumulate into
// node velocities, velocities decay, alpha cools geometrically toward a
// target, and the whole thing can be "reheated" by retuning the energy from
// the camera distance. It is not a general physics engine; the force set is
// exactly what keyword/content navigation needs.
package sim

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/metrics"
)

// Params configures the simulation. All values have working defaults; see
// DefaultParams.
type Params struct {
	// Link force: rest length interpolates from LinkFarDistance at
	// similarity 0 down to LinkNearDistance at similarity 1, and strength
	// from LinkMinStrength up to LinkMaxStrength. Higher similarity means
	// shorter and stronger.
	LinkFarDistance  float64 `yaml:"link_far_distance"`
	LinkNearDistance float64 `yaml:"link_near_distance"`
	LinkMinStrength  float64 `yaml:"link_min_strength"`
	LinkMaxStrength  float64 `yaml:"link_max_strength"`

	// ChargeStrength is the magnitude of the uniform many-body repulsion
	// between keyword nodes.
	ChargeStrength float64 `yaml:"charge_strength"`

	// CenterStrength pulls the keyword layout toward the origin.
	CenterStrength float64 `yaml:"center_strength"`

	// SpringStrength scales the content tether toward parent keywords.
	SpringStrength float64 `yaml:"spring_strength"`

	// BaseDistance and SpreadFactor bound how far a content node may sit
	// from its closest parent: BaseDistance + log(siblings)*SpreadFactor.
	BaseDistance float64 `yaml:"base_distance"`
	SpreadFactor float64 `yaml:"spread_factor"`

	// EnergyNearDistance and EnergyFarDistance bound the camera-distance
	// band over which SetEnergy retunes the layout: at or inside the near
	// distance the layout stays warmest, at or beyond the far distance it
	// settles completely.
	EnergyNearDistance float64 `yaml:"energy_near_distance"`
	EnergyFarDistance  float64 `yaml:"energy_far_distance"`

	// AlphaDecay is the per-tick geometric approach factor toward
	// AlphaTarget; AlphaMin is the cooled threshold below which ticks stop
	// moving anything.
	AlphaDecay    float64 `yaml:"alpha_decay"`
	AlphaMin      float64 `yaml:"alpha_min"`
	VelocityDecay float64 `yaml:"velocity_decay"`

	// SafetyTimeout hard-stops the simulation regardless of alpha, bounding
	// worst-case CPU on pathological inputs.
	SafetyTimeout time.Duration `yaml:"safety_timeout"`
}

// DefaultParams returns the tuning used by the navigator.
func DefaultParams() Params {
	return Params{
		LinkFarDistance:    320,
		LinkNearDistance:   60,
		LinkMinStrength:    0.1,
		LinkMaxStrength:    1.0,
		ChargeStrength:     180,
		CenterStrength:     0.02,
		SpringStrength:     0.35,
		BaseDistance:       55,
		SpreadFactor:       22,
		EnergyNearDistance: 200,
		EnergyFarDistance:  2000,
		AlphaDecay:         0.0228, // d3 default: reaches alphaMin in ~300 ticks
		AlphaMin:           0.001,
		VelocityDecay:      0.4,
		SafetyTimeout:      20 * time.Second,
	}
}

type link struct {
	source, target *core.KeywordNode
	distance       float64
	strength       float64
}

// Simulation owns node positions and velocities while it runs. It is an
// explicit handle: whoever owns the navigation session owns its lifetime and
// must call Stop when done.
type Simulation struct {
	params Params
	graph  *core.Graph

	keywords []*core.KeywordNode
	contents []*core.ContentNode
	links    []link

	alpha       float64
	alphaTarget float64
	velDecay    float64

	running atomic.Bool
	safety  *time.Timer
}

// New builds a simulation over the graph's current node set. Keyword nodes
// that already carry a position keep it, so re-simulating after a filter does
// not make the layout jump. Fresh nodes are seeded on a phyllotaxis spiral,
// which spreads them evenly without randomness.
func New(g *core.Graph, params Params) *Simulation {
	s := &Simulation{
		params:      params,
		graph:       g,
		alpha:       1,
		alphaTarget: 0,
		velDecay:    params.VelocityDecay,
	}

	i := 0
	g.ScanKeywords(func(kw *core.KeywordNode) bool {
		if !kw.HasPosition {
			// initialRadius/initialAngle per d3-force.
			radius := 10 * math.Sqrt(0.5+float64(i))
			angle := float64(i) * math.Pi * (3 - math.Sqrt(5))
			kw.X = radius * math.Cos(angle)
			kw.Y = radius * math.Sin(angle)
			kw.HasPosition = true
		}
		s.keywords = append(s.keywords, kw)
		i++
		return true
	})
	g.ScanContents(func(cn *core.ContentNode) bool {
		s.contents = append(s.contents, cn)
		return true
	})

	for _, e := range g.Edges() {
		src, dst := g.Keyword(e.Source), g.Keyword(e.Target)
		if src == nil || dst == nil {
			continue
		}
		s.links = append(s.links, link{
			source:   src,
			target:   dst,
			distance: lerp(params.LinkFarDistance, params.LinkNearDistance, e.Similarity),
			strength: lerp(params.LinkMinStrength, params.LinkMaxStrength, e.Similarity),
		})
	}

	s.running.Store(true)
	if params.SafetyTimeout > 0 {
		s.safety = time.AfterFunc(params.SafetyTimeout, func() {
			s.running.Store(false)
			metrics.SimSafetyStops.Inc()
		})
	}
	return s
}

// Alpha returns the current cooling factor.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Running reports whether the simulation still advances on Tick.
func (s *Simulation) Running() bool { return s.running.Load() }

// Stop halts the simulation and cancels the safety timer. Idempotent.
func (s *Simulation) Stop() {
	s.running.Store(false)
	if s.safety != nil {
		s.safety.Stop()
	}
}

// SetEnergy retunes alpha target and velocity decay from the camera
// distance, so zoom changes reheat the layout continuously instead of
// snapping. A far camera wants a calm layout (high decay, near-zero
// target); a close camera keeps a little residual motion.
func (s *Simulation) SetEnergy(cameraDistance float64) {
	// Normalize distance into [0,1] over the band where reheating matters.
	near, far := s.params.EnergyNearDistance, s.params.EnergyFarDistance
	if far <= near {
		// Degenerate band: treat everything at or past near as settled.
		far = near + 1
	}
	t := clamp01((cameraDistance - near) / (far - near))

	s.alphaTarget = lerp(0.08, 0, t)
	s.velDecay = lerp(0.3, 0.6, t)
	if s.alpha < s.alphaTarget {
		s.alpha = s.alphaTarget
	}
}

// Tick advances one integration step. Returns false once the simulation has
// cooled below AlphaMin or was stopped.
func (s *Simulation) Tick() bool {
	if !s.running.Load() {
		return false
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay
	if s.alpha < s.params.AlphaMin && s.alphaTarget < s.params.AlphaMin {
		s.running.Store(false)
		if s.safety != nil {
			s.safety.Stop()
		}
		return false
	}

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.integrateKeywords()
	s.tickContents()

	metrics.SimAlpha.Set(s.alpha)
	return true
}

// --- Keyword forces ---

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		dx := l.target.X - l.source.X
		dy := l.target.Y - l.source.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			// Coincident endpoints get a tiny deterministic separation.
			dx, dy, dist = 1e-6, 1e-6, math.Sqrt2*1e-6
		}
		// Spring displacement relative to rest length, d3-style.
		f := (dist - l.distance) / dist * s.alpha * l.strength
		fx, fy := dx*f, dy*f
		l.target.VX -= fx / 2
		l.target.VY -= fy / 2
		l.source.VX += fx / 2
		l.source.VY += fy / 2
	}
}

func (s *Simulation) applyCharge() {
	// Direct O(n^2) pass. At tens of thousands of nodes this is the frame
	// budget's biggest item but still tractable; isolated keywords are
	// covered here too, so they never stack on top of each other.
	n := len(s.keywords)
	for i := 0; i < n; i++ {
		a := s.keywords[i]
		for j := i + 1; j < n; j++ {
			b := s.keywords[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			d2 := dx*dx + dy*dy
			if d2 < 1 {
				d2 = 1
			}
			f := s.params.ChargeStrength * s.alpha / d2
			fx, fy := dx*f, dy*f
			a.VX -= fx
			a.VY -= fy
			b.VX += fx
			b.VY += fy
		}
	}
}

func (s *Simulation) applyCenter() {
	for _, kw := range s.keywords {
		kw.VX -= kw.X * s.params.CenterStrength * s.alpha
		kw.VY -= kw.Y * s.params.CenterStrength * s.alpha
	}
}

func (s *Simulation) integrateKeywords() {
	damp := 1 - s.velDecay
	for _, kw := range s.keywords {
		kw.VX *= damp
		kw.VY *= damp
		kw.X += kw.VX
		kw.Y += kw.VY
	}
}

// --- Content tether ---

func (s *Simulation) tickContents() {
	damp := 1 - s.velDecay
	for _, cn := range s.contents {
		parents := s.graph.ParentsOf(cn)
		// Only parents that actually have a position anchor anything.
		anchored := parents[:0]
		for _, p := range parents {
			if p.HasPosition {
				anchored = append(anchored, p)
			}
		}
		if len(anchored) == 0 {
			// No resolvable parent this tick; revisit once one appears.
			continue
		}

		if !cn.HasPosition {
			var cx, cy float64
			for _, p := range anchored {
				cx += p.X
				cy += p.Y
			}
			cn.X = cx / float64(len(anchored))
			cn.Y = cy / float64(len(anchored))
			// Deterministic nudge off the exact centroid so siblings
			// seeded the same tick do not coincide.
			h := idHash(cn.ID)
			cn.X += math.Cos(h) * 4
			cn.Y += math.Sin(h) * 4
			cn.HasPosition = true
		}

		var closest *core.KeywordNode
		closestD2 := math.Inf(1)
		for _, p := range anchored {
			dx := p.X - cn.X
			dy := p.Y - cn.Y
			cn.VX += dx * s.params.SpringStrength * s.alpha
			cn.VY += dy * s.params.SpringStrength * s.alpha
			if d2 := dx*dx + dy*dy; d2 < closestD2 {
				closestD2 = d2
				closest = p
			}
		}

		cn.VX *= damp
		cn.VY *= damp
		cn.X += cn.VX
		cn.Y += cn.VY

		// Hard radius around the closest parent. log(siblings) keeps the
		// halo of a popular keyword from densifying without bound.
		siblings := s.graph.SiblingCount(closest.ID)
		maxR := s.params.BaseDistance
		if siblings > 1 {
			maxR += math.Log(float64(siblings)) * s.params.SpreadFactor
		}
		dx := cn.X - closest.X
		dy := cn.Y - closest.Y
		dist := math.Hypot(dx, dy)
		if dist > maxR && dist > 0 {
			// Pull back radially onto the boundary, not merely damped.
			scale := maxR / dist
			cn.X = closest.X + dx*scale
			cn.Y = closest.Y + dy*scale
			cn.VX = 0
			cn.VY = 0
		}
	}
}

// --- helpers ---

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// idHash maps an id onto an angle; cheap and stable across runs.
func idHash(id string) float64 {
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	return float64(h%3600) / 3600 * 2 * math.Pi
}
