// Package nav provides the high-level navigation engine for Kartograph.
//
// It orchestrates the force simulation, the zoom phase calculator, the
// viewport clamp, focus traversal, and the fade manager into one per-frame
// pipeline, and owns their shared state. The engine is an explicit handle:
// whoever owns the navigation session calls Open, drives Frame at the host
// renderer's refresh rate, and calls Close on teardown.
//
// Basic usage:
//
//	eng, err := nav.Open(graph, nav.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//	for running {
//	    out := eng.Frame(input)
//	    render(out)
//	}
package nav

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/core/fade"
	"github.com/sanonone/kartograph/pkg/core/focus"
	"github.com/sanonone/kartograph/pkg/core/sim"
	"github.com/sanonone/kartograph/pkg/core/view"
	"github.com/sanonone/kartograph/pkg/metrics"
)

// Options bundles every numeric threshold of the pipeline. Zero-value
// sub-structs and non-positive scalars are replaced by DefaultOptions values
// at Open, with the exception of MaxHops, whose zero is meaningful.
type Options struct {
	// Sim tunes the force layout.
	Sim sim.Params `yaml:"sim"`

	// ZoomRanges configures the per-feature zoom phases.
	ZoomRanges view.Ranges `yaml:"zoom_ranges"`

	// Pull tunes the edge-magnet clamp.
	Pull view.PullParams `yaml:"pull"`

	// Fade tunes the animated membership fade.
	Fade fade.Options `yaml:"fade"`

	// ProximityK is how many labels near the cursor stay legible outside
	// focus mode.
	ProximityK int `yaml:"proximity_k"`

	// MaxHops bounds the focus traversal. 0 is honored literally (focus
	// keeps only the selected keyword); start from DefaultOptions or
	// LoadOptions for the documented default.
	MaxHops int `yaml:"max_hops"`

	// TicksPerFrame is how many integration steps run per rendered frame.
	TicksPerFrame int `yaml:"ticks_per_frame"`
}

// DefaultOptions returns the documented defaults for every threshold.
func DefaultOptions() Options {
	return Options{
		Sim:           sim.DefaultParams(),
		ZoomRanges:    view.DefaultRanges(),
		Pull:          view.DefaultPullParams(),
		Fade:          fade.DefaultOptions(),
		ProximityK:    12,
		MaxHops:       3,
		TicksPerFrame: 1,
	}
}

// Engine is the navigation session. All per-frame state lives here; the
// contract is single-threaded and frame-driven. Interaction mutators
// (Focus, SetCamera, SetCursor) may be called from other goroutines: they
// write into a pending-input cell that the next Frame picks up, eventually
// consistent within one frame's latency.
type Engine struct {
	SessionID string

	log   *slog.Logger
	opts  Options
	graph *core.Graph

	simulation *sim.Simulation
	clamper    *view.Clamper
	fader      *fade.Manager
	ranker     *fade.Ranker

	// Interaction state written outside the frame loop, folded into the
	// input at the top of the next Frame. Camera and cursor overrides
	// persist until replaced; the focus request is consumed once.
	mu         sync.Mutex
	cameraCell *view.Camera
	cursorCell *[2]float64
	focusReq   *string // nil = none, empty string = clear

	focusState *focus.State

	seq uint64

	// Reusable per-frame buffers.
	pulled     map[string]view.PulledPosition
	active     map[string]struct{}
	candidates []fade.Candidate

	// Double-buffered outputs: one frame's snapshot stays readable while
	// the next is being filled.
	outputs [2]*FrameOutput

	closeOnce sync.Once
}

// Open validates the options and builds an engine over the graph. The
// simulation starts hot (alpha 1) and cools on its own.
func Open(graph *core.Graph, opts Options) (*Engine, error) {
	if graph == nil {
		return nil, fmt.Errorf("nav: nil graph")
	}
	def := DefaultOptions()
	if opts.ProximityK <= 0 {
		opts.ProximityK = def.ProximityK
	}
	if opts.MaxHops < 0 {
		return nil, fmt.Errorf("nav: negative max hops %d", opts.MaxHops)
	}
	if opts.TicksPerFrame <= 0 {
		opts.TicksPerFrame = def.TicksPerFrame
	}
	if opts.Sim == (sim.Params{}) {
		opts.Sim = def.Sim
	}
	if opts.ZoomRanges == (view.Ranges{}) {
		opts.ZoomRanges = def.ZoomRanges
	}
	if opts.Pull == (view.PullParams{}) {
		opts.Pull = def.Pull
	}
	if opts.Fade == (fade.Options{}) {
		opts.Fade = def.Fade
	}

	e := &Engine{
		SessionID:  uuid.NewString(),
		opts:       opts,
		graph:      graph,
		simulation: sim.New(graph, opts.Sim),
		clamper:    view.NewClamper(opts.Pull),
		fader:      fade.NewManager(opts.Fade),
		ranker:     fade.NewRanker(opts.ProximityK),
		pulled:     make(map[string]view.PulledPosition),
		active:     make(map[string]struct{}),
	}
	e.log = slog.Default().With("session", e.SessionID[:8])
	e.outputs[0] = newFrameOutput()
	e.outputs[1] = newFrameOutput()

	e.log.Info("navigation session opened",
		"keywords", graph.KeywordCount(),
		"contents", graph.ContentCount(),
		"edges", len(graph.Edges()),
	)
	return e, nil
}

// Graph returns the underlying graph.
func (e *Engine) Graph() *core.Graph { return e.graph }

// Options returns the effective options after defaulting.
func (e *Engine) Options() Options { return e.opts }

// Focus replaces the focus state with a fresh traversal from keywordID.
// Takes effect on the next Frame.
func (e *Engine) Focus(keywordID string) error {
	if e.graph.Keyword(keywordID) == nil {
		return fmt.Errorf("nav: unknown keyword %q", keywordID)
	}
	e.mu.Lock()
	id := keywordID
	e.focusReq = &id
	e.mu.Unlock()
	return nil
}

// ClearFocus exits focus mode on the next Frame.
func (e *Engine) ClearFocus() {
	e.mu.Lock()
	empty := ""
	e.focusReq = &empty
	e.mu.Unlock()
}

// FocusState returns the current focus state, nil outside focus mode. Safe
// to call from outside the frame loop: the state pointer is swapped under the
// interaction lock and the State itself is immutable.
func (e *Engine) FocusState() *focus.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focusState
}

// SetCamera updates the camera read at the top of the next Frame. Callers
// that drive Frame directly can instead pass the camera in FrameInput.
func (e *Engine) SetCamera(cam view.Camera) {
	e.mu.Lock()
	e.cameraCell = &cam
	e.mu.Unlock()
}

// SetCursor updates the world-space cursor position for proximity ranking.
func (e *Engine) SetCursor(x, y float64) {
	e.mu.Lock()
	e.cursorCell = &[2]float64{x, y}
	e.mu.Unlock()
}

// Simulation exposes the layout handle, mainly for tests and tooling.
func (e *Engine) Simulation() *sim.Simulation { return e.simulation }

// Close stops the simulation and cancels its safety timer. Idempotent;
// there is no partial-completion state to roll back since every frame is
// self-contained.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.simulation.Stop()
		e.log.Info("navigation session closed", "frames", e.seq)
	})
}

// consumePending folds queued interaction state into the frame input.
func (e *Engine) consumePending(in *FrameInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cameraCell != nil {
		in.Camera = *e.cameraCell
	}
	if e.cursorCell != nil {
		in.CursorX, in.CursorY = e.cursorCell[0], e.cursorCell[1]
	}
	if e.focusReq != nil {
		id := *e.focusReq
		e.focusReq = nil
		if id == "" {
			e.focusState = nil
		} else {
			e.focusState = focus.New(id, e.graph.KeywordIDs(), e.graph.ContentByKeyword(), e.opts.MaxHops)
		}
		metrics.FocusChanges.Inc()
	}
}
