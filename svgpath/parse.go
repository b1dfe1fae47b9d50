package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file implements the compilation of the "d" path attribute,
// of the "points" lists and of the "transform" attribute.

var (
	errParamMismatch  = errors.New("param mismatch")
	errCommandUnknown = errors.New("unknown command")
)

// ParsePoints reads a set of floating point values from the SVG format number string,
// accepting comma and white space separators, as well as compressed
// forms like "1.5.5" or "1-2".
func ParsePoints(dataPoints string) ([]float64, error) {
	lastIndex := -1
	var points []float64
	lr := ' '
	for i, r := range dataPoints {
		if !unicodeIsNumeric(r) || (r == '-' && lr != 'e' && lr != 'E') || (r == '.' && strings.ContainsRune(dataPoints[lastIndex+1:i], '.')) {
			if lastIndex != -1 && lastIndex != i {
				value, err := strconv.ParseFloat(dataPoints[lastIndex:i], 64)
				if err != nil {
					return nil, err
				}
				points = append(points, value)
			}
			if unicodeIsNumeric(r) {
				lastIndex = i
			} else {
				lastIndex = -1
			}
		} else if lastIndex == -1 {
			lastIndex = i
		}
		lr = r
	}
	if lastIndex != -1 && lastIndex != len(dataPoints) {
		value, err := strconv.ParseFloat(dataPoints[lastIndex:], 64)
		if err != nil {
			return nil, err
		}
		points = append(points, value)
	}
	return points, nil
}

func unicodeIsNumeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E'
}

// pathParser accumulates the state needed while
// compiling a "d" attribute into a Path.
type pathParser struct {
	path             Path
	placeX, placeY   float64
	startX, startY   float64
	cntlPtX, cntlPtY float64 // reflection point for the smooth commands
	lastKey          byte
	inPath           bool
}

// ParsePath compiles the SVG "d" attribute value into a Path.
// An empty or blank attribute yields an empty path and no error.
func ParsePath(svg string) (Path, error) {
	c := &pathParser{lastKey: ' '}
	lastIndex := -1
	for i, v := range svg {
		if v >= 'A' && v <= 'Z' || v >= 'a' && v <= 'z' {
			if lastIndex != -1 {
				if err := c.addSeg(svg[lastIndex:i]); err != nil {
					return nil, err
				}
			}
			lastIndex = i
		}
	}
	if lastIndex != -1 {
		if err := c.addSeg(svg[lastIndex:]); err != nil {
			return nil, err
		}
	}
	return c.path, nil
}

// reflectControl returns the reflection of the last control point
// around the current point, as used by the S and T commands.
func (c *pathParser) reflectControl() (px, py float64) {
	switch c.lastKey {
	case 'c', 'C', 's', 'S', 'q', 'Q', 't', 'T':
		return c.placeX*2 - c.cntlPtX, c.placeY*2 - c.cntlPtY
	default:
		return c.placeX, c.placeY
	}
}

func (c *pathParser) moveTo(x, y float64) {
	c.path.Start(ToFixedP(x, y))
	c.placeX, c.placeY = x, y
	c.startX, c.startY = x, y
	c.inPath = true
}

func (c *pathParser) lineTo(x, y float64) {
	c.path.Line(ToFixedP(x, y))
	c.placeX, c.placeY = x, y
}

func (c *pathParser) cubicTo(x1, y1, x2, y2, x, y float64) {
	c.path.CubeBezier(ToFixedP(x1, y1), ToFixedP(x2, y2), ToFixedP(x, y))
	c.cntlPtX, c.cntlPtY = x2, y2
	c.placeX, c.placeY = x, y
}

func (c *pathParser) quadTo(x1, y1, x, y float64) {
	c.path.QuadBezier(ToFixedP(x1, y1), ToFixedP(x, y))
	c.cntlPtX, c.cntlPtY = x1, y1
	c.placeX, c.placeY = x, y
}

// addSeg decodes one command (the letter plus its parameter list)
// and appends the equivalent operations to the path.
func (c *pathParser) addSeg(segString string) error {
	cmd := segString[0]
	points, err := ParsePoints(segString[1:])
	if err != nil {
		return err
	}
	l := len(points)
	rel := cmd >= 'a' // lowercase commands use relative coordinates
	var dx, dy float64
	if rel {
		dx, dy = c.placeX, c.placeY
	}
	switch cmd {
	case 'Z', 'z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.placeX, c.placeY = c.startX, c.startY
			c.inPath = false
		}
	case 'M', 'm':
		if l < 2 || l%2 != 0 {
			return errParamMismatch
		}
		c.moveTo(points[0]+dx, points[1]+dy)
		for i := 2; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.lineTo(points[i]+dx, points[i+1]+dy)
		}
	case 'L', 'l':
		if l < 2 || l%2 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.lineTo(points[i]+dx, points[i+1]+dy)
		}
	case 'H', 'h':
		if l < 1 {
			return errParamMismatch
		}
		for i := 0; i < l; i++ {
			if rel {
				dx = c.placeX
			}
			c.lineTo(points[i]+dx, c.placeY)
		}
	case 'V', 'v':
		if l < 1 {
			return errParamMismatch
		}
		for i := 0; i < l; i++ {
			if rel {
				dy = c.placeY
			}
			c.lineTo(c.placeX, points[i]+dy)
		}
	case 'C', 'c':
		if l < 6 || l%6 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 6 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.cubicTo(points[i]+dx, points[i+1]+dy,
				points[i+2]+dx, points[i+3]+dy,
				points[i+4]+dx, points[i+5]+dy)
		}
	case 'S', 's':
		if l < 4 || l%4 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 4 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			x1, y1 := c.reflectControl()
			c.cubicTo(x1, y1,
				points[i]+dx, points[i+1]+dy,
				points[i+2]+dx, points[i+3]+dy)
			c.lastKey = cmd
		}
	case 'Q', 'q':
		if l < 4 || l%4 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 4 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.quadTo(points[i]+dx, points[i+1]+dy,
				points[i+2]+dx, points[i+3]+dy)
		}
	case 'T', 't':
		if l < 2 || l%2 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			x1, y1 := c.reflectControl()
			c.quadTo(x1, y1, points[i]+dx, points[i+1]+dy)
			c.lastKey = cmd
		}
	case 'A', 'a':
		if l < 7 || l%7 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i += 7 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.addArcFromSeg(points[i:i+7], dx, dy)
		}
	default:
		return fmt.Errorf("%w: %q", errCommandUnknown, string(cmd))
	}
	c.lastKey = cmd
	return nil
}

// addArcFromSeg handles one parameter set of the A command.
func (c *pathParser) addArcFromSeg(points []float64, dx, dy float64) {
	rx, ry := math.Abs(points[0]), math.Abs(points[1])
	endX, endY := points[5]+dx, points[6]+dy
	if rx == 0 || ry == 0 {
		// degenerate radii reduce the arc to a straight line
		c.lineTo(endX, endY)
		return
	}
	rotX := points[2] * math.Pi / 180
	largeArc := points[3] != 0
	sweep := points[4] != 0
	cx, cy := findEllipseCenter(&rx, &ry, rotX, c.placeX, c.placeY, endX, endY, sweep, !largeArc)
	arc := []float64{rx, ry, points[2], points[3], points[4], endX, endY}
	c.placeX, c.placeY = c.path.addArc(arc, cx, cy, c.placeX, c.placeY)
}

// ParseTransform compiles an SVG "transform" attribute on top of the
// base matrix, applying the operations left to right.
func ParseTransform(v string, base Matrix2D) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := base
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		points, err := ParsePoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, points, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func readTransformAttr(m1 Matrix2D, points []float64, k string) (Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}
