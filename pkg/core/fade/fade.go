// Package fade decides, every frame, how opaque each label is and animates
// transitions so nothing pops.
//
// Two independent mechanisms compose multiplicatively: an animated
// membership fade that carries opacity across frames, and a cursor-proximity
// ranking that caps how many labels are legible at once. Focus mode swaps
// the ranking for tier-based base opacities; that composition happens in the
// engine, not here.
package fade

// Options tunes the membership fade.
type Options struct {
	// LerpFactor is the per-frame exponential approach toward 1 (active)
	// or 0 (inactive).
	LerpFactor float64 `yaml:"lerp_factor"`
	// EvictBelow removes an inactive entry once its opacity decays under
	// this threshold, so the map only holds ids that still render.
	EvictBelow float64 `yaml:"evict_below"`
}

// DefaultOptions: ~0.99 opacity after 28 active frames at 60 Hz.
func DefaultOptions() Options {
	return Options{LerpFactor: 0.15, EvictBelow: 0.01}
}

// Manager carries per-id animated opacities across frames. This is the only
// per-frame structure in the navigator that is deliberately NOT recomputed
// from scratch; its whole purpose is smooth enter/exit.
type Manager struct {
	opts    Options
	entries map[string]float64
	// evict is a reusable scratch list for opportunistic garbage
	// collection during Step.
	evict []string
}

// NewManager builds an empty fade manager.
func NewManager(opts Options) *Manager {
	if opts.LerpFactor <= 0 || opts.LerpFactor > 1 {
		opts.LerpFactor = DefaultOptions().LerpFactor
	}
	if opts.EvictBelow <= 0 {
		opts.EvictBelow = DefaultOptions().EvictBelow
	}
	return &Manager{opts: opts, entries: make(map[string]float64)}
}

// Step advances every entry one frame toward its target: 1 for ids in the
// active set, 0 otherwise. New active ids enter the map at their first
// increment; inactive entries under the eviction threshold are removed.
func (m *Manager) Step(active map[string]struct{}) {
	for id := range active {
		if _, ok := m.entries[id]; !ok {
			m.entries[id] = 0
		}
	}

	m.evict = m.evict[:0]
	for id, op := range m.entries {
		target := 0.0
		if _, ok := active[id]; ok {
			target = 1.0
		}
		op += (target - op) * m.opts.LerpFactor
		if target == 0 && op < m.opts.EvictBelow {
			m.evict = append(m.evict, id)
			continue
		}
		m.entries[id] = op
	}
	for _, id := range m.evict {
		delete(m.entries, id)
	}
}

// Opacity returns the animated opacity for id, 0 if untracked.
func (m *Manager) Opacity(id string) float64 { return m.entries[id] }

// Tracked reports whether id currently holds a fade entry.
func (m *Manager) Tracked(id string) bool {
	_, ok := m.entries[id]
	return ok
}

// Len returns the number of live entries.
func (m *Manager) Len() int { return len(m.entries) }
