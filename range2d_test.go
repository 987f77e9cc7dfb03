package quadworld

import (
	"math"
	"testing"
)

func TestRange2DWidthHeight(t *testing.T) {
	r := NewRange2D(-2, -2, 1, 1)
	mustEqual(t, r.Width(), uint64(4), "width")
	mustEqual(t, r.Height(), uint64(4), "height")
}

func TestRange2DContains(t *testing.T) {
	r := NewRange2D(0, 0, 9, 9)
	if !r.Contains(Vec2{0, 0}) || !r.Contains(Vec2{9, 9}) || !r.Contains(Vec2{5, 5}) {
		t.Fatal("expected corner and interior points to be contained")
	}
	if r.Contains(Vec2{10, 0}) || r.Contains(Vec2{-1, 0}) {
		t.Fatal("expected out-of-range points to be rejected")
	}
}

func TestRange2DOverlapAndCombine(t *testing.T) {
	a := NewRange2D(0, 0, 9, 9)
	b := NewRange2D(5, 5, 14, 14)
	ov, ok := a.Overlap(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	mustEqual(t, ov, NewRange2D(5, 5, 9, 9), "overlap rect")

	c := NewRange2D(100, 100, 200, 200)
	if _, ok := a.Overlap(c); ok {
		t.Fatal("expected no overlap")
	}

	combined := a.Combine(b)
	mustEqual(t, combined, NewRange2D(0, 0, 14, 14), "combine rect")
}

func TestRange2DSplitIntoQuarters(t *testing.T) {
	r := NewRange2D(-2, -2, 1, 1)
	quarters := r.SplitIntoQuarters()
	mustEqual(t, quarters[QuadBL], NewRange2D(-2, -2, -1, -1), "BL quarter")
	mustEqual(t, quarters[QuadBR], NewRange2D(0, -2, 1, -1), "BR quarter")
	mustEqual(t, quarters[QuadTL], NewRange2D(-2, 0, -1, 1), "TL quarter")
	mustEqual(t, quarters[QuadTR], NewRange2D(0, 0, 1, 1), "TR quarter")
}

func TestRange2DQuadrantOf(t *testing.T) {
	r := NewRange2D(-2, -2, 1, 1)
	mustEqual(t, r.QuadrantOf(Vec2{-2, -2}), QuadBL, "bottom-left corner")
	mustEqual(t, r.QuadrantOf(Vec2{1, -2}), QuadBR, "bottom-right corner")
	mustEqual(t, r.QuadrantOf(Vec2{-2, 1}), QuadTL, "top-left corner")
	mustEqual(t, r.QuadrantOf(Vec2{1, 1}), QuadTR, "top-right corner")
}

func TestRangeFromCenterSquare(t *testing.T) {
	r := RangeFromCenterSquare(10, 10, 3)
	mustEqual(t, r, NewRange2D(7, 7, 13, 13), "centered square range")
}

// TestRange2DSplitIntoQuartersFullWidthWorld exercises the single case
// where Width()/Height() overflow to 0 (the full signed-64 world): halfOf
// must still recover the true half-side of 2^63 rather than treating the
// overflowed 0 as an actual zero-width range, or every quarter collapses
// onto the whole world and splitting never converges.
func TestRange2DSplitIntoQuartersFullWidthWorld(t *testing.T) {
	r := Range2D{Min: Vec2{math.MinInt64, math.MinInt64}, Max: Vec2{math.MaxInt64, math.MaxInt64}}
	mustEqual(t, r.Width(), uint64(0), "full world width overflows to 0")
	mustEqual(t, r.Height(), uint64(0), "full world height overflows to 0")

	quarters := r.SplitIntoQuarters()
	want := [4]Range2D{
		QuadBL: NewRange2D(math.MinInt64, math.MinInt64, -1, -1),
		QuadBR: NewRange2D(0, math.MinInt64, math.MaxInt64, -1),
		QuadTL: NewRange2D(math.MinInt64, 0, -1, math.MaxInt64),
		QuadTR: NewRange2D(0, 0, math.MaxInt64, math.MaxInt64),
	}
	for q := range quarters {
		mustEqual(t, quarters[q], want[q], "full world quarter")
		// Every quarter must shrink relative to the parent, or SetRange's
		// descent into a quarter never reaches its containment base case.
		if quarters[q].Width() == 0 || quarters[q].Height() == 0 {
			t.Fatalf("quarter %d did not shrink: width=%d height=%d", q, quarters[q].Width(), quarters[q].Height())
		}
	}

	mustEqual(t, r.QuadrantOf(Vec2{math.MinInt64, math.MinInt64}), QuadBL, "full world bottom-left corner")
	mustEqual(t, r.QuadrantOf(Vec2{0, math.MinInt64}), QuadBR, "full world bottom-right corner")
	mustEqual(t, r.QuadrantOf(Vec2{math.MinInt64, 0}), QuadTL, "full world top-left corner")
	mustEqual(t, r.QuadrantOf(Vec2{0, 0}), QuadTR, "full world top-right corner")
	mustEqual(t, r.QuadrantOf(Vec2{math.MaxInt64, math.MaxInt64}), QuadTR, "full world opposite corner")
}

func TestRange2DArea(t *testing.T) {
	r := NewRange2D(0, 0, 9, 9)
	area := r.Area()
	mustEqual(t, area.Hi, uint64(0), "area hi")
	mustEqual(t, area.Lo, uint64(100), "area lo")
}
