package view

import (
	"math"
	"reflect"
	"testing"

	"github.com/sanonone/kartograph/pkg/core"
)

// clampGraph builds a graph with an on-screen anchor keyword and content
// nodes placed per the test's coordinates.
func clampGraph(t *testing.T, contents []*core.ContentNode) *core.Graph {
	t.Helper()
	keywords := []*core.KeywordNode{
		{ID: "anchor", Label: "anchor", X: 0, Y: 0, HasPosition: true},
		{ID: "offscreen", Label: "offscreen", X: 5000, Y: 0, HasPosition: true},
	}
	g, err := core.NewGraph(keywords, contents, nil)
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	return g
}

func TestClamperCompute(t *testing.T) {
	// Square viewport [-500,500], extended ±575, cliff ±621, pull ±950.
	zones := ComputeViewportZones(squareCam(), 1000, 1000)
	clamper := NewClamper(DefaultPullParams())
	out := make(map[string]PulledPosition)

	t.Run("OffscreenConnectedIsPulled", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-far", ParentIDs: []string{"anchor"}, X: 900, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, zones, out)

		pp, ok := out["c-far"]
		if !ok {
			t.Fatal("expected c-far to be pulled")
		}
		// Clamped along the +x ray at the inset boundary.
		if math.Abs(pp.X-488) > 1e-9 || pp.Y != 0 {
			t.Errorf("pulled position: got (%v, %v), want (488, 0)", pp.X, pp.Y)
		}
		if !zones.Viewport.Contains(pp.X, pp.Y) {
			t.Error("pulled position must be strictly inside the viewport")
		}
		if !reflect.DeepEqual(pp.ConnectedPrimaryIDs, []string{"anchor"}) {
			t.Errorf("connected primaries: got %v", pp.ConnectedPrimaryIDs)
		}
	})

	t.Run("InViewStaysNatural", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-in", ParentIDs: []string{"anchor"}, X: 100, Y: 100, HasPosition: true},
		})
		clamper.Compute(g, zones, out)
		if _, ok := out["c-in"]; ok {
			t.Error("in-view content must not be clamped")
		}
	})

	t.Run("CliffZoneStaysNatural", func(t *testing.T) {
		// Just past the extended zone (575) but inside the cliff band (621):
		// still rendered naturally, so a sub-pixel pan cannot flip it.
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-cliff", ParentIDs: []string{"anchor"}, X: 600, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, zones, out)
		if _, ok := out["c-cliff"]; ok {
			t.Error("content inside the cliff band must not be clamped")
		}
	})

	t.Run("BeyondPullBoundsDropped", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-gone", ParentIDs: []string{"anchor"}, X: 960, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, zones, out)
		if _, ok := out["c-gone"]; ok {
			t.Error("content beyond the pull bounds must be dropped, not pulled")
		}
	})

	t.Run("NoOnscreenParentNotPulled", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-orphan", ParentIDs: []string{"offscreen"}, X: 900, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, zones, out)
		if _, ok := out["c-orphan"]; ok {
			t.Error("content with no on-screen parent must not be pulled")
		}
	})

	t.Run("OnlyOnscreenParentsListed", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-mixed", ParentIDs: []string{"anchor", "offscreen"}, X: 900, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, zones, out)
		pp, ok := out["c-mixed"]
		if !ok {
			t.Fatal("expected c-mixed to be pulled")
		}
		if !reflect.DeepEqual(pp.ConnectedPrimaryIDs, []string{"anchor"}) {
			t.Errorf("connected primaries: got %v, want only the on-screen parent", pp.ConnectedPrimaryIDs)
		}
	})

	t.Run("UnresolvedPositionSkipped", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-unseeded", ParentIDs: []string{"anchor"}},
		})
		clamper.Compute(g, zones, out)
		if _, ok := out["c-unseeded"]; ok {
			t.Error("content without a resolved position must be skipped")
		}
	})

	t.Run("InvalidZonesPullNothing", func(t *testing.T) {
		g := clampGraph(t, []*core.ContentNode{
			{ID: "c-far", ParentIDs: []string{"anchor"}, X: 900, Y: 0, HasPosition: true},
		})
		clamper.Compute(g, Zones{}, out)
		if len(out) != 0 {
			t.Errorf("invalid zones must clear the pull map, got %v", out)
		}
		if len(clamper.Primaries()) != 0 {
			t.Error("invalid zones must clear the primary set")
		}
	})
}

func TestClamperIdempotent(t *testing.T) {
	// A node sitting where the clamp would put it is inside the viewport,
	// so re-running the classification never moves it again.
	zones := ComputeViewportZones(squareCam(), 1000, 1000)
	clamper := NewClamper(DefaultPullParams())
	out := make(map[string]PulledPosition)

	g := clampGraph(t, []*core.ContentNode{
		{ID: "c-far", ParentIDs: []string{"anchor"}, X: 900, Y: 0, HasPosition: true},
	})
	clamper.Compute(g, zones, out)
	first := out["c-far"]

	clamper.Compute(g, zones, out)
	second, ok := out["c-far"]
	if !ok || second.X != first.X || second.Y != first.Y {
		t.Errorf("repeated compute moved the pulled position: %+v vs %+v", second, first)
	}

	g2 := clampGraph(t, []*core.ContentNode{
		{ID: "c-at-clamp", ParentIDs: []string{"anchor"}, X: first.X, Y: first.Y, HasPosition: true},
	})
	clamper.Compute(g2, zones, out)
	if _, ok := out["c-at-clamp"]; ok {
		t.Error("a node at the clamped position must render naturally")
	}
}

func TestClamperPrimaries(t *testing.T) {
	zones := ComputeViewportZones(squareCam(), 1000, 1000)
	clamper := NewClamper(DefaultPullParams())
	out := make(map[string]PulledPosition)

	g := clampGraph(t, nil)
	clamper.Compute(g, zones, out)

	primaries := clamper.Primaries()
	if _, ok := primaries["anchor"]; !ok {
		t.Error("anchor keyword must be primary")
	}
	if _, ok := primaries["offscreen"]; ok {
		t.Error("off-screen keyword must not be primary")
	}
}
