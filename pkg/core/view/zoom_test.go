package view

import "testing"

func TestRangeAt(t *testing.T) {
	t.Run("ZoomInActivation", func(t *testing.T) {
		// Start > Full: the feature appears while the camera closes in.
		r := Range{Start: 2400, Full: 800}
		if got := r.At(3000); got != 0 {
			t.Errorf("beyond start: got %v, want 0", got)
		}
		if got := r.At(2400); got != 0 {
			t.Errorf("at start: got %v, want 0", got)
		}
		if got := r.At(1600); got != 0.5 {
			t.Errorf("midpoint: got %v, want 0.5", got)
		}
		if got := r.At(800); got != 1 {
			t.Errorf("at full: got %v, want 1", got)
		}
		if got := r.At(100); got != 1 {
			t.Errorf("past full: got %v, want 1", got)
		}
	})

	t.Run("ZoomOutActivation", func(t *testing.T) {
		// Start < Full: community labels appear while zooming out.
		r := Range{Start: 1200, Full: 2200}
		if got := r.At(1000); got != 0 {
			t.Errorf("closer than start: got %v, want 0", got)
		}
		if got := r.At(1700); got != 0.5 {
			t.Errorf("midpoint: got %v, want 0.5", got)
		}
		if got := r.At(2500); got != 1 {
			t.Errorf("past full: got %v, want 1", got)
		}
	})

	t.Run("Monotone", func(t *testing.T) {
		r := Range{Start: 2400, Full: 800}
		prev := r.At(3000)
		for d := 3000.0; d >= 100; d -= 10 {
			cur := r.At(d)
			if cur < prev {
				t.Fatalf("phase regressed while zooming in at distance %v: %v -> %v", d, prev, cur)
			}
			prev = cur
		}
	})

	t.Run("DegenerateZeroWidth", func(t *testing.T) {
		r := Range{Start: 500, Full: 500}
		if got := r.At(500); got != 1 {
			t.Errorf("at threshold: got %v, want 1", got)
		}
		if got := r.At(400); got != 1 {
			t.Errorf("near side: got %v, want 1", got)
		}
		if got := r.At(600); got != 0 {
			t.Errorf("far side: got %v, want 0", got)
		}
	})
}

func TestCalculateScales(t *testing.T) {
	ranges := DefaultRanges()

	far := CalculateScales(3000, ranges)
	if far.KeywordLabelOpacity != 0 || far.ContentScale != 0 {
		t.Errorf("far overview must hide labels and content: %+v", far)
	}
	if far.CommunityLabelOpacity != 1 {
		t.Errorf("far overview must show community labels: %+v", far)
	}

	near := CalculateScales(300, ranges)
	if near.KeywordLabelOpacity != 1 || near.ContentLabelOpacity != 1 {
		t.Errorf("close-up must show keyword and content labels: %+v", near)
	}
	if near.CommunityLabelOpacity != 0 {
		t.Errorf("close-up must hide community labels: %+v", near)
	}
}
