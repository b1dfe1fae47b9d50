package svgpath

import (
	"math"
	"testing"

	"golang.org/x/image/math/fixed"
)

func nearFixed(a, b fixed.Point26_6) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1
}

func TestParsePoints(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected []float64
	}{
		{"", nil},
		{"10", []float64{10}},
		{"10,20 30,40", []float64{10, 20, 30, 40}},
		{"10 20  30\t40", []float64{10, 20, 30, 40}},
		{"1.5.5", []float64{1.5, .5}},
		{"1-2", []float64{1, -2}},
		{"-1e2 2E-1", []float64{-100, 0.2}},
	} {
		got, err := ParsePoints(test.input)
		if err != nil {
			t.Fatalf("ParsePoints(%q): %s", test.input, err)
		}
		if len(got) != len(test.expected) {
			t.Fatalf("ParsePoints(%q) = %v, expected %v", test.input, got, test.expected)
		}
		for i := range got {
			if math.Abs(got[i]-test.expected[i]) > 1e-9 {
				t.Fatalf("ParsePoints(%q) = %v, expected %v", test.input, got, test.expected)
			}
		}
	}
}

func TestParsePathBasic(t *testing.T) {
	path, err := ParsePath("M10,20 L30,40 30,60 Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 4 {
		t.Fatalf("expected 4 operations, got %d (%s)", len(path), path)
	}
	if _, ok := path[0].(MoveTo); !ok {
		t.Fatalf("expected MoveTo, got %T", path[0])
	}
	if _, ok := path[3].(Close); !ok {
		t.Fatalf("expected Close, got %T", path[3])
	}
	line, ok := path[2].(LineTo)
	if !ok {
		t.Fatalf("expected LineTo, got %T", path[2])
	}
	if !nearFixed(fixed.Point26_6(line), ToFixedP(30, 60)) {
		t.Fatalf("unexpected end point %v", line)
	}
}

func TestParsePathRelative(t *testing.T) {
	path, err := ParsePath("m 10 10 l 20 0 v 5 h -20 z")
	if err != nil {
		t.Fatal(err)
	}
	expected := []fixed.Point26_6{
		ToFixedP(10, 10), ToFixedP(30, 10), ToFixedP(30, 15), ToFixedP(10, 15),
	}
	if len(path) != 5 {
		t.Fatalf("expected 5 operations, got %d (%s)", len(path), path)
	}
	for i, exp := range expected {
		var got fixed.Point26_6
		switch op := path[i].(type) {
		case MoveTo:
			got = fixed.Point26_6(op)
		case LineTo:
			got = fixed.Point26_6(op)
		default:
			t.Fatalf("unexpected operation %T", op)
		}
		if !nearFixed(got, exp) {
			t.Fatalf("operation %d: got %v, expected %v", i, got, exp)
		}
	}
}

func TestParsePathSmooth(t *testing.T) {
	// the first control point of S is the reflection of the
	// previous one around the current point
	path, err := ParsePath("M0,0 C 0,10 10,10 10,0 S 20,-10 20,0")
	if err != nil {
		t.Fatal(err)
	}
	cube, ok := path[2].(CubicTo)
	if !ok {
		t.Fatalf("expected CubicTo, got %T", path[2])
	}
	if !nearFixed(cube[0], ToFixedP(10, -10)) {
		t.Fatalf("unexpected reflected control point %v", cube[0])
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, bad := range []string{
		"M10",          // missing y
		"M10,10 L",     // no params
		"M10,10 C1,2",  // truncated cubic
		"X10,10",       // unknown command
		"M10,10 A1 2 3", // truncated arc
	} {
		if _, err := ParsePath(bad); err == nil {
			t.Fatalf("expected an error parsing %q", bad)
		}
	}
}

func TestParseTransform(t *testing.T) {
	m, err := ParseTransform("translate(10, 5) scale(2)", Identity)
	if err != nil {
		t.Fatal(err)
	}
	x, y := m.Transform(1, 1)
	if math.Abs(x-12) > 1e-9 || math.Abs(y-7) > 1e-9 {
		t.Fatalf("got (%g, %g), expected (12, 7)", x, y)
	}

	m, err = ParseTransform("matrix(0,1,-1,0,0,0)", Identity)
	if err != nil {
		t.Fatal(err)
	}
	x, y = m.Transform(1, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Fatalf("got (%g, %g), expected (0, 1)", x, y)
	}

	m, err = ParseTransform("rotate(90, 10, 10)", Identity)
	if err != nil {
		t.Fatal(err)
	}
	x, y = m.Transform(10, 0)
	if math.Abs(x-20) > 1e-9 || math.Abs(y-10) > 1e-9 {
		t.Fatalf("got (%g, %g), expected (20, 10)", x, y)
	}

	if _, err = ParseTransform("frobnicate(1)", Identity); err == nil {
		t.Fatal("expected an error for an unknown transform")
	}
	if _, err = ParseTransform("translate(1,2,3)", Identity); err == nil {
		t.Fatal("expected an error for extra parameters")
	}
}
