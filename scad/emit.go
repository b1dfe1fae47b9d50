// Package scad generates an OpenSCAD program from a collected
// drawing: one polygon module per SVG element, plus an assembly
// module subtracting the negative elements from the union of the
// positive ones.
package scad

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/benoitkugler/svgscad/extrude"
)

// Params are the user options driving the generation.
type Params struct {
	// Name of the assembly module, usually derived from the output
	// file name with ModuleName.
	Name string

	// Height is the OpenSCAD expression for the default extrusion
	// height, in mm. It may reference user variables.
	Height string

	// MinLineWidth is the narrowest rendered outline, in mm.
	MinLineWidth float64

	// LineFn is the $fn resolution of the cylinders sweeping the
	// outlines.
	LineFn int

	// ForceLine renders filled objects in outline mode too.
	ForceLine bool
}

var identRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ModuleName derives an OpenSCAD identifier from an output
// file name.
func ModuleName(fname string) string {
	base := filepath.Base(fname)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return identRe.ReplaceAllString(base, "")
}

const header = `
// Module names are of the form poly_<path-id>().  As a result,
// you can associate a polygon in this OpenSCAD program with the
// corresponding SVG element by looking for the XML element with
// the attribute id="path-id".

// fudge value is used to ensure that subtracted solids are a tad taller
// in the z dimension than the polygon being subtracted from.  This helps
// keep the resulting .stl file manifold.
fudge = 0.1;
`

// Emit writes the OpenSCAD program for the drawing to w.
func Emit(w io.Writer, d *extrude.Drawing, p Params) error {
	var buf bytes.Buffer
	e := &emitter{buf: &buf, params: p, dpi: d.Doc.DPI}
	if len(d.Elements) != 0 {
		e.cx, e.cy = d.BBox.Center()
	}

	buf.WriteString(header)
	fmt.Fprintf(&buf, "height = %s;\n", p.Height)
	fmt.Fprintf(&buf, "line_fn = %d;\n", p.LineFn)
	fmt.Fprintf(&buf, "min_line_width = %v;\n", p.MinLineWidth)
	fmt.Fprintf(&buf, "function min_line_mm(w) = max(min_line_width, w) * %g/25.4;\n\n", e.dpi)

	for _, elt := range d.Elements {
		buf.WriteByte('\n')
		e.element(elt)
	}
	e.assembly()

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile generates the program into the named file. The content
// is written to a temporary file first and moved into place, so a
// viewer watching the output never sees a half written program.
func WriteFile(fname string, d *extrude.Drawing, p Params) error {
	tmp, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+"-*")
	if err != nil {
		return err
	}
	if err = Emit(tmp, d, p); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fname)
}

type emitter struct {
	buf    *bytes.Buffer
	params Params
	dpi    float64
	cx, cy float64 // drawing center, subtracted from every coordinate

	calls, callsNeg []string // assembly call items
}

// element writes the point data and the poly_<id> module of one
// drawing element, and queues its call item for the assembly.
func (e *emitter) element(elt *extrude.Element) {
	set := elt.Set

	// point lists, centers and (for shapes with holes) index paths
	prefix := 0
	for i := range set.Subpaths {
		if !set.IsTopLevel(i) {
			continue
		}
		e.subpathData(elt.ID, prefix, set, i)
		prefix++
	}

	fmt.Fprintf(e.buf, "module poly_%s(h, w, s, res=line_fn)\n{\n", elt.ID)
	fmt.Fprintf(e.buf, "  scale([25.4/%g, -25.4/%g, 1]) union()\n  {\n", e.dpi, e.dpi)

	prefix = 0
	for i := range set.Subpaths {
		if !set.IsTopLevel(i) {
			continue
		}
		withPaths := len(set.Contains[i]) != 0
		if elt.Filled && !e.params.ForceLine {
			e.linearExtrude(elt.ID, prefix, withPaths)
		} else {
			e.extrudeByHull(elt.ID, prefix, withPaths)
		}
		prefix++
	}
	e.buf.WriteString("  }\n}\n")

	call := fmt.Sprintf("translate ([0,0,%s]) poly_%s(%s, min_line_mm(%v), %s);\n",
		elt.Attrs.Raise, elt.ID, elt.Attrs.Height, elt.StrokeWidthMM, elt.Attrs.Scale)
	if elt.Attrs.Negative {
		e.callsNeg = append(e.callsNeg, call)
	} else {
		e.calls = append(e.calls, call)
	}
}

// subpathData writes the center, points and paths declarations for
// the top level subpath i and its holes. The points of the holes are
// folded into the same list, with the paths indices telling them
// apart, as expected by the OpenSCAD polygon() primitive.
func (e *emitter) subpathData(id string, prefix int, set *extrude.PolygonSet, i int) {
	sub := set.Subpaths[i]
	bcx, bcy := sub.BBox.Center()
	fmt.Fprintf(e.buf, "%s_%d_center = [%f,%f];\n", id, prefix, bcx-e.cx, bcy-e.cy)

	var points, paths strings.Builder
	fmt.Fprintf(&points, "%s_%d_points = [", id, prefix)
	fmt.Fprintf(&paths, "%s_%d_paths = [", id, prefix)

	count := 0
	for g, j := range append([]int{i}, set.Contains[i]...) {
		if g > 0 {
			paths.WriteString(",\n\t\t\t\t")
		}
		paths.WriteByte('[')
		for k, pt := range set.Subpaths[j].Points {
			if count+k > 0 {
				points.WriteByte(',')
			}
			fmt.Fprintf(&points, "[%f,%f]", pt.X-e.cx, pt.Y-e.cy)
			if k > 0 {
				paths.WriteByte(',')
			}
			fmt.Fprintf(&paths, "%d", count+k)
		}
		paths.WriteByte(']')
		count += len(set.Subpaths[j].Points)
	}
	points.WriteString("];\n")
	paths.WriteString("];\n")

	e.buf.WriteString(points.String())
	if len(set.Contains[i]) != 0 {
		e.buf.WriteString(paths.String())
	}
}

func (e *emitter) linearExtrude(id string, prefix int, withPaths bool) {
	polygonArgs := fmt.Sprintf("%s_%d_points", id, prefix)
	if withPaths {
		polygonArgs += fmt.Sprintf(", %s_%d_paths", id, prefix)
	}
	fmt.Fprintf(e.buf,
		"    translate (%s_%d_center) linear_extrude(height=h, convexity=10, scale=0.01*s)\n"+
			"      translate (-%s_%d_center) polygon(%s);\n",
		id, prefix, id, prefix, polygonArgs)
}

// extrudeByHull renders an outline: each polyline segment is swept
// by the hull of two cylinders of diameter w.
func (e *emitter) extrudeByHull(id string, prefix int, withPaths bool) {
	if !withPaths {
		fmt.Fprintf(e.buf,
			"    for (t = [0: len(%[1]s_%[2]d_points)-2]) {\n"+
				"      hull() {\n"+
				"        translate(%[1]s_%[2]d_points[t])\n"+
				"          cylinder(h=h, r=w/2, $fn=res);\n"+
				"        translate(%[1]s_%[2]d_points[t + 1])\n"+
				"          cylinder(h=h, r=w/2, $fn=res);\n"+
				"      }\n"+
				"    }\n",
			id, prefix)
		return
	}
	fmt.Fprintf(e.buf,
		"    for (p = [0: len(%[1]s_%[2]d_paths)-1]) {\n"+
			"      pp = %[1]s_%[2]d_paths[p];\n"+
			"      for (t = [0: len(pp)-2]) {\n"+
			"        hull() {\n"+
			"          translate(%[1]s_%[2]d_points[pp[t]])\n"+
			"            cylinder(h=h, r=w/2, $fn=res);\n"+
			"          translate(%[1]s_%[2]d_points[pp[t+1]])\n"+
			"            cylinder(h=h, r=w/2, $fn=res);\n"+
			"        }\n"+
			"      }\n"+
			"    }\n",
		id, prefix)
}

// assembly writes the top level module subtracting the negative
// elements from the union of the positive ones, and its invocation.
func (e *emitter) assembly() {
	fmt.Fprintf(e.buf, "\nmodule %s(h)\n{\n", e.params.Name)
	e.buf.WriteString("  difference()\n  {\n    union()\n    {\n")
	for _, call := range e.calls {
		e.buf.WriteString("      " + call)
	}
	e.buf.WriteString("    }\n    union()\n    {\n")
	for _, call := range e.callsNeg {
		e.buf.WriteString("      " + call)
	}
	e.buf.WriteString("    }\n  }\n")
	fmt.Fprintf(e.buf, "}\n\n%s(height);\n", e.params.Name)
}
