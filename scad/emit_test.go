package scad

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgscad/extrude"
	"github.com/benoitkugler/svgscad/svgdom"
)

var testParams = Params{
	Name:         "test",
	Height:       "5",
	MinLineWidth: 1,
	LineFn:       4,
}

func emitString(t *testing.T, svg string, params Params) string {
	doc, err := svgdom.Parse(strings.NewReader(svg), "test")
	if err != nil {
		t.Fatal(err)
	}
	d, err := extrude.Collect(doc, extrude.Options{Smoothness: 0.2, ParseDesc: true})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = Emit(&buf, d, params); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func mustContain(t *testing.T, output string, chunks ...string) {
	t.Helper()
	for _, chunk := range chunks {
		if !strings.Contains(output, chunk) {
			t.Fatalf("missing %q in generated program:\n%s", chunk, output)
		}
	}
}

func TestModuleName(t *testing.T) {
	for _, test := range []struct {
		fname, expected string
	}{
		{"bracket.scad", "bracket"},
		{"/tmp/out/my-part.scad", "mypart"},
		{"under_score.scad", "under_score"},
	} {
		if got := ModuleName(test.fname); got != test.expected {
			t.Fatalf("ModuleName(%q) = %q, expected %q", test.fname, got, test.expected)
		}
	}
}

func TestEmitSimple(t *testing.T) {
	output := emitString(t, `<svg width="100" height="100">
		<rect id="plate" x="10" y="20" width="30" height="40"/>
	</svg>`, testParams)

	mustContain(t, output,
		"fudge = 0.1;",
		"height = 5;",
		"line_fn = 4;",
		"min_line_width = 1;",
		"function min_line_mm(w) = max(min_line_width, w) * 90/25.4;",
		"plate_0_center = [0.000000,0.000000];",
		"module poly_plate(h, w, s, res=line_fn)",
		"scale([25.4/90, -25.4/90, 1]) union()",
		"linear_extrude(height=h, convexity=10, scale=0.01*s)",
		"polygon(plate_0_points);",
		"module test(h)",
		"test(height);",
	)

	// all coordinates are centered on the drawing bbox:
	// the (10, 20) corner of the 10..40 x 20..60 rect
	mustContain(t, output, "[-15.000000,-20.000000]")

	if strings.Contains(output, "plate_0_paths") {
		t.Fatal("a plain rect must not emit a paths list")
	}
}

func TestEmitNested(t *testing.T) {
	output := emitString(t, `<svg width="100" height="100">
		<path id="washer" d="M0,0 H60 V60 H0 Z M20,20 H40 V40 H20 Z"/>
	</svg>`, testParams)

	// both closed squares carry 5 points, folded into one list
	mustContain(t, output,
		"washer_0_paths = [[0,1,2,3,4],\n\t\t\t\t[5,6,7,8,9]];",
		"polygon(washer_0_points, washer_0_paths);",
	)
}

func TestEmitOutline(t *testing.T) {
	output := emitString(t, `<svg width="100" height="100">
		<line x1="0" y1="0" x2="30" y2="0"
			style="fill:none;stroke:#000000;stroke-width:2"/>
	</svg>`, testParams)

	mustContain(t, output,
		"hull() {",
		"cylinder(h=h, r=w/2, $fn=res);",
		"min_line_mm(2)",
	)
	if strings.Contains(output, "linear_extrude") {
		t.Fatal("an unfilled element must use outline mode")
	}
}

func TestEmitForceLine(t *testing.T) {
	params := testParams
	params.ForceLine = true
	output := emitString(t, `<svg width="100" height="100">
		<rect id="plate" width="30" height="40"/>
	</svg>`, params)
	if strings.Contains(output, "linear_extrude") {
		t.Fatal("force-line must render everything in outline mode")
	}
	mustContain(t, output, "hull() {")
}

func TestEmitNegative(t *testing.T) {
	output := emitString(t, `<svg width="100" height="100">
		<rect id="base_10_mm" width="60" height="60"/>
		<rect id="hole_a5_mm" x="20" y="20" width="20" height="20"/>
	</svg>`, testParams)

	mustContain(t, output,
		"translate ([0,0,0]) poly_base_10_mm(10, min_line_mm(1), 100);",
		"translate ([0,0,0]) poly_hole_a5_mm(5, min_line_mm(1), 100);",
	)

	// the negative call must live in the second union of the
	// difference
	pos := strings.Index(output, "poly_base_10_mm(10")
	neg := strings.Index(output, "poly_hole_a5_mm(5")
	diff := strings.Index(output, "difference()")
	if diff == -1 || pos < diff || neg < pos {
		t.Fatalf("unexpected assembly layout (difference at %d, pos call at %d, neg call at %d)",
			diff, pos, neg)
	}
}

func TestEmitAnnotations(t *testing.T) {
	output := emitString(t, `<svg width="100" height="100">
		<g id="layer_4_mm">
			<path id="pad" d="M0,0 H10 V10 H0 Z">
				<desc>raise: 2 mm
scale: 50 %</desc>
			</path>
		</g>
	</svg>`, testParams)

	mustContain(t, output, "translate ([0,0,2]) poly_pad(4, min_line_mm(1), 50);")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "out.scad")

	doc, err := svgdom.Parse(strings.NewReader(
		`<svg width="10" height="10"><rect width="5" height="5"/></svg>`), "out")
	if err != nil {
		t.Fatal(err)
	}
	d, err := extrude.Collect(doc, extrude.Options{Smoothness: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if err = WriteFile(fname, d, testParams); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(content, []byte("test(height);")) {
		t.Fatal("unexpected file content")
	}

	// no temporary file left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single output file, got %d entries", len(entries))
	}
}
