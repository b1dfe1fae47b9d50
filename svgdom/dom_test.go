package svgdom

import (
	"math"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.0.dtd"
     inkscape:version="0.92.4 (5da689c313, 2019-01-14)"
     sodipodi:docname="bracket.svg"
     width="100" height="60">
  <defs>
    <rect id="unused" width="5" height="5"/>
  </defs>
  <g id="layer1" transform="translate(10, 0)">
    <path id="part_5_mm" d="M0,0 L10,0 10,10 Z"
          style="fill:#000000;stroke:none">
      <desc>height: 7mm</desc>
    </path>
    <rect id="hidden" display="none" width="10" height="10"/>
    <circle id="dot" cx="1" cy="2" r="3"
            fill="none" style="stroke:#ff0000"/>
  </g>
</svg>`

func parseSample(t *testing.T) *Document {
	doc, err := Parse(strings.NewReader(sampleDoc), "fallback")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseDocument(t *testing.T) {
	doc := parseSample(t)
	if doc.Basename != "bracket" {
		t.Fatalf("expected basename from docname, got %q", doc.Basename)
	}
	if doc.DPI != 96 {
		t.Fatalf("inkscape 0.92 documents use 96 dpi, got %g", doc.DPI)
	}
	if doc.Width != 100 || doc.Height != 60 {
		t.Fatalf("unexpected document size %g x %g", doc.Width, doc.Height)
	}

	layer := doc.FindByID("layer1")
	if layer == nil || layer.Kind() != KindGroup {
		t.Fatal("missing layer1 group")
	}
	if len(layer.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(layer.Children))
	}
}

func TestParseDocumentDPIDefault(t *testing.T) {
	// the svg version attribute must not be mistaken for an
	// inkscape version
	doc, err := Parse(strings.NewReader(`<svg version="1.1" width="10" height="10"></svg>`), "x")
	if err != nil {
		t.Fatal(err)
	}
	if doc.DPI != 90 {
		t.Fatalf("expected the 90 dpi default, got %g", doc.DPI)
	}
}

func TestNodeStyle(t *testing.T) {
	doc := parseSample(t)

	path := doc.FindByID("part_5_mm")
	style := path.Style()
	if style["fill"] != "#000000" || style["stroke"] != "none" {
		t.Fatalf("unexpected style %v", style)
	}
	if path.Description() != "height: 7mm" {
		t.Fatalf("unexpected description %q", path.Description())
	}

	// the style attribute overrides presentation attributes
	dot := doc.FindByID("dot")
	if dot.Style()["stroke"] != "#ff0000" {
		t.Fatalf("unexpected stroke %q", dot.Style()["stroke"])
	}
	if dot.Style()["fill"] != "none" {
		t.Fatalf("unexpected fill %q", dot.Style()["fill"])
	}

	if doc.FindByID("hidden").Display() {
		t.Fatal("display:none element reported as displayed")
	}
	if !path.Display() {
		t.Fatal("plain element reported as hidden")
	}
}

func TestViewBoxTransform(t *testing.T) {
	doc, err := Parse(strings.NewReader(
		`<svg width="100" height="50" viewBox="0 0 200 200"></svg>`), "x")
	if err != nil {
		t.Fatal(err)
	}
	x, y := doc.Transform.Transform(200, 200)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Fatalf("unexpected viewBox transform: (%g, %g)", x, y)
	}
}

func TestLengthToPixels(t *testing.T) {
	for _, test := range []struct {
		input    string
		def      string
		expected float64
	}{
		{"10", "px", 10},
		{"10px", "mm", 10},
		{"25.4mm", "px", 90},
		{"2.54cm", "px", 90},
		{"1in", "px", 90},
		{"72pt", "px", 90},
		{"6pc", "px", 90},
		{"1ft", "px", 1080},
		{"10", "mm", 10 * 90 / 25.4},
	} {
		got, err := LengthToPixels(test.input, test.def, 90)
		if err != nil {
			t.Fatalf("LengthToPixels(%q): %s", test.input, err)
		}
		if math.Abs(got-test.expected) > 1e-9 {
			t.Fatalf("LengthToPixels(%q) = %g, expected %g", test.input, got, test.expected)
		}
	}

	if _, err := LengthToPixels("50%", "px", 90); err == nil {
		t.Fatal("expected an error for a percentage")
	}
	if _, err := LengthToPixels("abc", "px", 90); err == nil {
		t.Fatal("expected an error for a malformed length")
	}
}
