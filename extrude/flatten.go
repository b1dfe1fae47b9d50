package extrude

import (
	"errors"
	"math"
)

// ErrBadTolerance is returned when a flattening tolerance
// is zero or negative.
var ErrBadTolerance = errors.New("flattening tolerance must be positive")

// CubicBez is one cubic bezier segment: start point, two control
// points and end point.
type CubicBez [4]Point

// maxDist returns the deviation metric used to decide when a segment
// is flat enough: the larger of the perpendicular distances of the two
// control points from the chord joining the end points. When the end
// points coincide the plain distances to that point are used instead.
func (b CubicBez) maxDist() float64 {
	p0, p1, p2, p3 := b[0], b[1], b[2], b[3]
	ux, uy := p3.X-p0.X, p3.Y-p0.Y
	norm := math.Hypot(ux, uy)
	if norm == 0 {
		return math.Max(math.Hypot(p1.X-p0.X, p1.Y-p0.Y),
			math.Hypot(p2.X-p0.X, p2.Y-p0.Y))
	}
	d1 := math.Abs((p1.X-p0.X)*uy-(p1.Y-p0.Y)*ux) / norm
	d2 := math.Abs((p2.X-p0.X)*uy-(p2.Y-p0.Y)*ux) / norm
	return math.Max(d1, d2)
}

func midpoint(a, c Point) Point {
	return Point{(a.X + c.X) / 2, (a.Y + c.Y) / 2}
}

// split divides the segment at t=0.5 using de Casteljau's scheme.
// Both halves trace exactly the same curve as the original.
func (b CubicBez) split() (left, right CubicBez) {
	m01 := midpoint(b[0], b[1])
	m12 := midpoint(b[1], b[2])
	m23 := midpoint(b[2], b[3])
	m012 := midpoint(m01, m12)
	m123 := midpoint(m12, m23)
	m := midpoint(m012, m123)
	left = CubicBez{b[0], m01, m012, m}
	right = CubicBez{m, m123, m23, b[3]}
	return left, right
}

// FlattenCubic approximates the bezier segment by a polyline whose
// deviation from the true curve is bounded by tol, appending the
// resulting points to dst. The start point b[0] is not emitted, so
// that consecutive segments chain without duplicates; the exact end
// point b[3] always is.
//
// The subdivision is iterative: a worklist of pending segments is
// processed in curve order, each segment either emitted (flat enough)
// or split at its midpoint.
func FlattenCubic(dst []Point, b CubicBez, tol float64) ([]Point, error) {
	if tol <= 0 {
		return dst, ErrBadTolerance
	}
	work := []CubicBez{b}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if cur.maxDist() <= tol {
			dst = append(dst, cur[3])
			continue
		}
		left, right := cur.split()
		// the left half must be processed first to keep curve order
		work = append(work, right, left)
	}
	return dst, nil
}

// elevateQuad converts a quadratic bezier to the equivalent cubic.
func elevateQuad(p0, ctrl, p1 Point) CubicBez {
	c1 := Point{p0.X + 2.0/3.0*(ctrl.X-p0.X), p0.Y + 2.0/3.0*(ctrl.Y-p0.Y)}
	c2 := Point{p1.X + 2.0/3.0*(ctrl.X-p1.X), p1.Y + 2.0/3.0*(ctrl.Y-p1.Y)}
	return CubicBez{p0, c1, c2, p1}
}
