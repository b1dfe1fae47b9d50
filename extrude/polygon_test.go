package extrude

import (
	"math"
	"testing"
)

func square(x0, y0, size float64) []Point {
	return []Point{
		{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size},
	}
}

func TestPointInPolygon(t *testing.T) {
	poly := square(0, 0, 10)

	for _, test := range []struct {
		p        Point
		expected bool
	}{
		{Point{5, 5}, true},    // interior
		{Point{15, 5}, false},  // outside, to the right
		{Point{-1, 5}, false},  // outside, to the left
		{Point{5, -3}, false},  // outside, above
		{Point{0, 0}, true},    // vertex
		{Point{10, 10}, true},  // vertex
		{Point{5, 0}, true},    // on a horizontal edge
		{Point{5, 10}, true},   // on a horizontal edge
		{Point{20, 20}, false}, // far away
	} {
		if got := PointInPolygon(test.p, poly); got != test.expected {
			t.Fatalf("PointInPolygon(%v) = %v, expected %v", test.p, got, test.expected)
		}
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// a U shape: the notch is outside
	poly := []Point{
		{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30},
	}
	if PointInPolygon(Point{15, 20}, poly) {
		t.Fatal("the notch of the U must be outside")
	}
	if !PointInPolygon(Point{5, 20}, poly) {
		t.Fatal("the left arm of the U must be inside")
	}
	if !PointInPolygon(Point{25, 20}, poly) {
		t.Fatal("the right arm of the U must be inside")
	}
}

func TestBBox(t *testing.T) {
	sub := newSubpath(square(2, 3, 10), true)
	want := BBox{Xmin: 2, Xmax: 12, Ymin: 3, Ymax: 13}
	if sub.BBox != want {
		t.Fatalf("unexpected bbox %v", sub.BBox)
	}

	cx, cy := sub.BBox.Center()
	if cx != 7 || cy != 8 {
		t.Fatalf("unexpected center (%g, %g)", cx, cy)
	}

	inner := newSubpath(square(4, 5, 2), true)
	if !inner.BBox.Within(sub.BBox) {
		t.Fatal("inner bbox must be within the outer one")
	}
	if sub.BBox.Within(inner.BBox) {
		t.Fatal("outer bbox must not be within the inner one")
	}
	// non strict: a bbox is within itself
	if !sub.BBox.Within(sub.BBox) {
		t.Fatal("a bbox must be within itself")
	}
}

func TestArea(t *testing.T) {
	sub := newSubpath(square(0, 0, 10), true)
	if a := sub.area(); math.Abs(a-100) > 1e-9 {
		t.Fatalf("unexpected area %g", a)
	}
	// reversed orientation must not flip the sign
	rev := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if a := newSubpath(rev, true).area(); math.Abs(a-100) > 1e-9 {
		t.Fatalf("unexpected area %g", a)
	}
	if a := newSubpath([]Point{{0, 0}, {1, 1}}, false).area(); a != 0 {
		t.Fatalf("a segment has no area, got %g", a)
	}
}

func TestEncloses(t *testing.T) {
	outer := newSubpath(square(0, 0, 100), true)
	inner := newSubpath(square(25, 25, 50), true)
	if !outer.encloses(inner) {
		t.Fatal("expected containment")
	}
	if inner.encloses(outer) {
		t.Fatal("containment must be antisymmetric")
	}

	// overlapping squares contain each other in neither direction
	left := newSubpath(square(0, 0, 10), true)
	right := newSubpath(square(5, 0, 10), true)
	if left.encloses(right) || right.encloses(left) {
		t.Fatal("overlapping squares must not be nested")
	}

	// matching bboxes with disjoint interiors: a diamond inside
	// the bbox of a square, but poking outside the square itself
	diamond := newSubpath([]Point{{5, -2}, {12, 5}, {5, 12}, {-2, 5}}, true)
	sq := newSubpath(square(0, 0, 10), true)
	if sq.encloses(diamond) {
		t.Fatal("the diamond corners are outside the square")
	}
}
