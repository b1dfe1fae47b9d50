package extrude

import (
	"fmt"
	"log"
	"regexp"

	"github.com/benoitkugler/svgscad/svgdom"
	"github.com/benoitkugler/svgscad/svgpath"
)

// ErrorMode controls how the collector reacts to recoverable
// defects in the input document (unparseable geometry, unsupported
// object kinds).
type ErrorMode uint8

const (
	// IgnoreErrorMode skips the offending element silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips the offending element with a log message.
	WarnErrorMode
	// StrictErrorMode aborts the whole collection.
	StrictErrorMode
)

// Options parametrizes the collection of a document.
type Options struct {
	// Smoothness is the flattening tolerance, in pixels.
	// It must be positive.
	Smoothness float64

	// ParseDesc enables reading extrusion annotations from the id
	// attributes and <desc> children. When false, every element
	// gets DefaultAttributes.
	ParseDesc bool

	Errors ErrorMode
	Logger *log.Logger // defaults to log.Default()
}

// Element is one drawable object of the document, reduced to its
// nested polygon model plus the attributes driving its extrusion.
type Element struct {
	Node *svgdom.Node
	ID   string // sanitized to an OpenSCAD identifier

	Set   *PolygonSet
	Attrs Attributes

	// Filled is false for stroke only objects, which are rendered
	// as thick outlines instead of solids.
	Filled bool
	// StrokeWidthMM is the stroke width converted to millimeters.
	StrokeWidthMM float64
}

// Drawing is the result of collecting a document: the flattened
// elements in document order, plus their overall bounding box.
type Drawing struct {
	Doc      *svgdom.Document
	Elements []*Element
	BBox     BBox
}

// scadIdentRe strips everything an OpenSCAD identifier cannot carry.
var scadIdentRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

type collector struct {
	doc  *svgdom.Document
	opts Options

	out    *Drawing
	warned map[string]bool // unsupported kinds already reported
	pathid int
}

// Collect walks the document tree and builds the polygon model of
// every visible drawable element, in document order.
func Collect(doc *svgdom.Document, opts Options) (*Drawing, error) {
	if opts.Smoothness <= 0 {
		return nil, ErrBadTolerance
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	c := &collector{
		doc:    doc,
		opts:   opts,
		out:    &Drawing{Doc: doc, BBox: newBBox()},
		warned: map[string]bool{},
	}
	if err := c.walkChildren(doc.Root, doc.Transform, "visible"); err != nil {
		return nil, err
	}
	return c.out, nil
}

// report handles a recoverable defect according to the error mode.
// A nil return means: skip the element and carry on.
func (c *collector) report(err error) error {
	switch c.opts.Errors {
	case WarnErrorMode:
		c.opts.Logger.Printf("warning: %s", err)
	case StrictErrorMode:
		return err
	}
	return nil
}

func (c *collector) walkChildren(n *svgdom.Node, mat svgpath.Matrix2D, visibility string) error {
	for _, child := range n.Children {
		if err := c.walk(child, mat, visibility); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) walk(n *svgdom.Node, mat svgpath.Matrix2D, visibility string) error {
	if !n.Display() {
		return nil
	}
	visibility = n.Visibility(visibility)

	mat, err := n.Transform(mat)
	if err != nil {
		return c.report(fmt.Errorf("invalid transform on <%s> (id %q): %s", n.Tag, n.ID(), err))
	}

	switch n.Kind() {
	case svgdom.KindGroup:
		return c.walkChildren(n, mat, visibility)
	case svgdom.KindReference:
		return c.walkReference(n, mat, visibility)
	case svgdom.KindIgnorable:
		return nil
	case svgdom.KindUnsupported:
		if !c.warned[n.Tag] {
			c.warned[n.Tag] = true
			return c.report(fmt.Errorf("unable to draw <%s> object, please convert it to a path first", n.Tag))
		}
		return nil
	}

	if visibility == "hidden" || visibility == "collapse" {
		return nil
	}

	path, skip, err := c.shapeToPath(n)
	if err != nil {
		return c.report(err)
	}
	if skip {
		return nil
	}
	return c.addPath(n, path, mat)
}

// walkReference resolves a <use> element: the referenced node is
// rendered in place, shifted by the x and y attributes.
func (c *collector) walkReference(n *svgdom.Node, mat svgpath.Matrix2D, visibility string) error {
	href := n.Attr("href")
	if href == "" || href[0] != '#' {
		return c.report(fmt.Errorf("unsupported use reference %q", href))
	}
	target := c.doc.FindByID(href[1:])
	if target == nil {
		return c.report(fmt.Errorf("use references unknown id %q", href[1:]))
	}
	x, err := c.attrLength(n, "x", 0)
	if err != nil {
		return c.report(err)
	}
	y, err := c.attrLength(n, "y", 0)
	if err != nil {
		return c.report(err)
	}
	return c.walk(target, mat.Translate(x, y), visibility)
}

// attrLength parses a coordinate attribute, in user units by
// default, falling back on def when absent.
func (c *collector) attrLength(n *svgdom.Node, name string, def float64) (float64, error) {
	v := n.Attr(name)
	if v == "" {
		return def, nil
	}
	f, err := c.doc.LengthWithUnit(v, "px")
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute on <%s> (id %q): %s", name, n.Tag, n.ID(), err)
	}
	return f, nil
}

// shapeToPath normalizes the parametric shapes to a path.
// skip is true for degenerate geometry (empty outline), which is
// dropped without a warning.
func (c *collector) shapeToPath(n *svgdom.Node) (path svgpath.Path, skip bool, err error) {
	switch n.Kind() {
	case svgdom.KindPath:
		d := n.Attr("d")
		if d == "" {
			return nil, true, nil
		}
		path, err = svgpath.ParsePath(d)
		if err != nil {
			return nil, false, fmt.Errorf("unparseable path (id %q): %s", n.ID(), err)
		}
		return path, len(path) == 0, nil

	case svgdom.KindRect:
		var x, y, w, h, rx, ry float64
		for _, attr := range []struct {
			name string
			dst  *float64
		}{{"x", &x}, {"y", &y}, {"width", &w}, {"height", &h}, {"rx", &rx}, {"ry", &ry}} {
			*attr.dst, err = c.attrLength(n, attr.name, 0)
			if err != nil {
				return nil, false, err
			}
		}
		if w == 0 || h == 0 {
			return nil, true, nil
		}
		// a single radius applies to both axes
		if rx == 0 {
			rx = ry
		} else if ry == 0 {
			ry = rx
		}
		path.AddRoundRect(x, y, x+w, y+h, rx, ry, 0)
		return path, false, nil

	case svgdom.KindLine:
		var x1, y1, x2, y2 float64
		for _, attr := range []struct {
			name string
			dst  *float64
		}{{"x1", &x1}, {"y1", &y1}, {"x2", &x2}, {"y2", &y2}} {
			*attr.dst, err = c.attrLength(n, attr.name, 0)
			if err != nil {
				return nil, false, err
			}
		}
		path.Start(svgpath.ToFixedP(x1, y1))
		path.Line(svgpath.ToFixedP(x2, y2))
		return path, false, nil

	case svgdom.KindPolyline, svgdom.KindPolygon:
		raw := n.Attr("points")
		if raw == "" {
			return nil, true, nil
		}
		points, err := svgpath.ParsePoints(raw)
		if err != nil || len(points)%2 != 0 {
			return nil, false, fmt.Errorf("unparseable points list (id %q)", n.ID())
		}
		if len(points) < 4 {
			return nil, true, nil
		}
		path.Start(svgpath.ToFixedP(points[0], points[1]))
		for i := 2; i < len(points); i += 2 {
			path.Line(svgpath.ToFixedP(points[i], points[i+1]))
		}
		path.Stop(n.Kind() == svgdom.KindPolygon)
		return path, false, nil

	case svgdom.KindEllipse:
		cx, err := c.attrLength(n, "cx", 0)
		if err != nil {
			return nil, false, err
		}
		cy, err := c.attrLength(n, "cy", 0)
		if err != nil {
			return nil, false, err
		}
		var rx, ry float64
		if n.Tag == "circle" {
			rx, err = c.attrLength(n, "r", 0)
			ry = rx
		} else {
			rx, err = c.attrLength(n, "rx", 0)
			if err == nil {
				ry, err = c.attrLength(n, "ry", 0)
			}
		}
		if err != nil {
			return nil, false, err
		}
		if rx == 0 || ry == 0 {
			return nil, true, nil
		}
		path.AddEllipse(cx, cy, rx, ry)
		return path, false, nil
	}
	return nil, true, nil
}

// addPath flattens the compiled path and registers the resulting
// element in the drawing.
func (c *collector) addPath(n *svgdom.Node, path svgpath.Path, mat svgpath.Matrix2D) error {
	style := n.Style()
	filled := style["fill"] != "none"
	if !filled && style["stroke"] == "none" {
		return c.report(fmt.Errorf("object with neither fill nor stroke (id %q), skipped", n.ID()))
	}

	strokeWidth := style["stroke-width"]
	if strokeWidth == "" {
		strokeWidth = "1"
	}
	// a bare number is read as millimeters, matching inkscape
	// documents whose user unit is the millimeter
	swPx, err := c.doc.LengthWithUnit(strokeWidth, "mm")
	if err != nil {
		return c.report(fmt.Errorf("invalid stroke-width on <%s> (id %q): %s", n.Tag, n.ID(), err))
	}

	subpaths, err := Decompose(path, mat, c.opts.Smoothness)
	if err != nil {
		return err
	}
	if len(subpaths) == 0 {
		return nil
	}

	attrs := DefaultAttributes()
	if c.opts.ParseDesc {
		attrs = ResolveAttributes(n)
	}

	id := scadIdentRe.ReplaceAllString(n.ID(), "")
	if id == "" {
		id = fmt.Sprintf("%dx", c.pathid)
		c.pathid++
	}

	elt := &Element{
		Node:          n,
		ID:            id,
		Set:           ResolveContainment(subpaths),
		Attrs:         attrs,
		Filled:        filled,
		StrokeWidthMM: swPx * 25.4 / c.doc.DPI,
	}
	c.out.Elements = append(c.out.Elements, elt)
	for _, sub := range subpaths {
		c.out.BBox.union(sub.BBox)
	}
	return nil
}
