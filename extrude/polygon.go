// Package extrude implements the geometry pipeline turning an SVG
// document into a nested polygon model suitable for 3D extrusion:
// curve flattening, subpath decomposition, polygon containment
// analysis and extrusion attribute resolution.
package extrude

import "math"

// Point is a pair of coordinates in document pixels,
// before global centering.
type Point struct {
	X, Y float64
}

// BBox is an axis aligned bounding box.
type BBox struct {
	Xmin, Xmax, Ymin, Ymax float64
}

// newBBox returns the empty bounding box, which contains nothing
// and is the neutral element of union.
func newBBox() BBox {
	return BBox{
		Xmin: math.Inf(1), Xmax: math.Inf(-1),
		Ymin: math.Inf(1), Ymax: math.Inf(-1),
	}
}

func (b *BBox) add(p Point) {
	if p.X < b.Xmin {
		b.Xmin = p.X
	}
	if p.X > b.Xmax {
		b.Xmax = p.X
	}
	if p.Y < b.Ymin {
		b.Ymin = p.Y
	}
	if p.Y > b.Ymax {
		b.Ymax = p.Y
	}
}

func (b *BBox) union(other BBox) {
	if other.Xmin < b.Xmin {
		b.Xmin = other.Xmin
	}
	if other.Xmax > b.Xmax {
		b.Xmax = other.Xmax
	}
	if other.Ymin < b.Ymin {
		b.Ymin = other.Ymin
	}
	if other.Ymax > b.Ymax {
		b.Ymax = other.Ymax
	}
}

// Center returns the middle point of the box.
func (b BBox) Center() (x, y float64) {
	return (b.Xmin + b.Xmax) / 2, (b.Ymin + b.Ymax) / 2
}

// ContainsPoint reports whether the point lies on or within the box.
func (b BBox) ContainsPoint(p Point) bool {
	return !(p.X < b.Xmin || p.X > b.Xmax || p.Y < b.Ymin || p.Y > b.Ymax)
}

// Within reports whether b lies on or within outer.
// Note that this is not a strict enclosure test.
func (b BBox) Within(outer BBox) bool {
	return !(b.Xmin < outer.Xmin || b.Xmax > outer.Xmax ||
		b.Ymin < outer.Ymin || b.Ymax > outer.Ymax)
}

// Subpath is one polyline extracted from a drawing element, with
// its bounding box cached at creation time. It is immutable once
// built.
type Subpath struct {
	Points []Point
	BBox   BBox
	Closed bool
}

func newSubpath(points []Point, closed bool) Subpath {
	bbox := newBBox()
	for _, p := range points {
		bbox.add(p)
	}
	return Subpath{Points: points, BBox: bbox, Closed: closed}
}

// area returns the unsigned area of the polygon, by the
// shoelace formula.
func (s Subpath) area() float64 {
	var sum float64
	n := len(s.Points)
	if n < 3 {
		return 0
	}
	for i := 0; i < n; i++ {
		p1, p2 := s.Points[i], s.Points[(i+1)%n]
		sum += p1.X*p2.Y - p2.X*p1.Y
	}
	return math.Abs(sum) / 2
}

// PointInPolygon uses a ray casting algorithm to see if the point
// lies within the polygon. A point matching a vertex exactly, or
// lying on a horizontal edge strictly between its x extents, is
// counted as inside.
func PointInPolygon(p Point, poly []Point) bool {
	if len(poly) == 0 {
		return false
	}

	// vertex match
	for _, v := range poly {
		if v == p {
			return true
		}
	}

	// boundary case: the point lies on a horizontal edge
	for i := range poly {
		p1 := poly[0]
		p2 := poly[1%len(poly)]
		if i != 0 {
			p1 = poly[i-1]
			p2 = poly[i]
		}
		if p.Y == p1.Y && p1.Y == p2.Y &&
			p.X > math.Min(p1.X, p2.X) && p.X < math.Max(p1.X, p2.X) {
			return true
		}
	}

	n := len(poly)
	inside := false
	p1 := poly[0]
	for i := 0; i <= n; i++ {
		p2 := poly[i%n]
		if p.Y > math.Min(p1.Y, p2.Y) && p.Y <= math.Max(p1.Y, p2.Y) && p.X <= math.Max(p1.X, p2.X) {
			if p1.Y != p2.Y {
				intersect := p1.X + (p.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
				if p.X <= intersect {
					inside = !inside
				}
			} else {
				inside = !inside
			}
		}
		p1 = p2
	}
	return inside
}

// encloses reports whether every vertex of inner lies on or within
// outer. The bounding boxes are used to perform fast rejections:
// one box containing another is necessary, but not sufficient.
func (outer Subpath) encloses(inner Subpath) bool {
	if !inner.BBox.Within(outer.BBox) {
		return false
	}
	for _, p := range inner.Points {
		if !outer.BBox.ContainsPoint(p) {
			return false
		}
		if !PointInPolygon(p, outer.Points) {
			return false
		}
	}
	return true
}
