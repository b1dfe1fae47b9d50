package extrude

import (
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgscad/svgpath"
)

func fromFixed(p fixed.Point26_6) Point {
	return Point{float64(p.X) / 64, float64(p.Y) / 64}
}

// Decompose splits the path into its subpaths, transforms the
// coordinates by mat and flattens the curved segments to polylines
// with deviation at most tol.
//
// A Close operation appends the subpath start point, so that closed
// subpaths carry an explicit final vertex equal to their first.
// Subpaths left with a single point (a bare MoveTo) are dropped.
func Decompose(path svgpath.Path, mat svgpath.Matrix2D, tol float64) ([]Subpath, error) {
	if tol <= 0 {
		return nil, ErrBadTolerance
	}

	var (
		subpaths []Subpath
		points   []Point
		closed   bool
		cursor   Point
		start    Point
	)
	flush := func() {
		if len(points) > 1 {
			subpaths = append(subpaths, newSubpath(points, closed))
		}
		points = nil
		closed = false
	}

	for _, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			flush()
			cursor = fromFixed(mat.TFixed(fixed.Point26_6(op)))
			start = cursor
			points = append(points, cursor)
		case svgpath.LineTo:
			if len(points) == 0 { // drawing after a close restarts at the close point
				points = append(points, cursor)
			}
			cursor = fromFixed(mat.TFixed(fixed.Point26_6(op)))
			points = append(points, cursor)
		case svgpath.QuadTo:
			if len(points) == 0 {
				points = append(points, cursor)
			}
			b, c := mat.TFixed(op[0]), mat.TFixed(op[1])
			end := fromFixed(c)
			var err error
			points, err = FlattenCubic(points, elevateQuad(cursor, fromFixed(b), end), tol)
			if err != nil {
				return nil, err
			}
			cursor = end
		case svgpath.CubicTo:
			if len(points) == 0 {
				points = append(points, cursor)
			}
			b, c, d := mat.TFixed(op[0]), mat.TFixed(op[1]), mat.TFixed(op[2])
			end := fromFixed(d)
			var err error
			points, err = FlattenCubic(points, CubicBez{cursor, fromFixed(b), fromFixed(c), end}, tol)
			if err != nil {
				return nil, err
			}
			cursor = end
		case svgpath.Close:
			if len(points) != 0 {
				points = append(points, start)
				closed = true
				cursor = start
			}
			flush()
		}
	}
	flush()
	return subpaths, nil
}
