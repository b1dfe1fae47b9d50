package extrude

import (
	"regexp"
	"strings"

	"github.com/benoitkugler/svgscad/svgdom"
)

// Extrusion parameters may be encoded in the id attribute or in the
// <desc> child of an element (or of an enclosing group), following
// the conventions below. All values end up as raw strings pasted into
// the generated program, so symbolic values survive untouched.

var (
	// a trailing "_30_mm" or "_a2_5_mm" in an id encodes the height
	reHeightID = regexp.MustCompile(`.*?_+([aA]?\d+(?:[_.]\d+)?)_*mm$`)

	// one "height: 30 mm" (or "ht: ...") line in a description
	reHeightDesc = regexp.MustCompile(`(?m)^(?:ht|[Hh]eight):\s*([aA]?\d+(?:\.\d+)?) ?mm$`)

	// one "scale: 50 %" or "scale: 50, 75 %" line in a description
	reScaleDesc = regexp.MustCompile(`(?m)^(?:sc|[Ss]cale):\s*(\d+(?:\.\d+)?(?: ?, ?\d+(?:\.\d+)?)?) ?%$`)

	// one "raise: 2 mm" or "offset: 2 mm" line in a description
	reRaiseDesc = regexp.MustCompile(`(?m)^(?:[Rr]aise|[Oo]ffset):\s*(\d+(?:\.\d+)?) ?mm$`)
)

// Attributes are the extrusion parameters of one drawing element,
// kept as literal OpenSCAD expressions.
type Attributes struct {
	Height string // defaults to the symbolic global "h"
	Raise  string // z offset, defaults to "0"
	Scale  string // percentage, possibly "[x, y]", defaults to "100"

	// Negative marks the element to be subtracted from the union
	// of the positive ones.
	Negative bool
}

// DefaultAttributes returns the parameters applied to elements
// carrying no annotation.
func DefaultAttributes() Attributes {
	return Attributes{Height: "h", Raise: "0", Scale: "100"}
}

// HeightFromID extracts the height encoded in an id attribute.
// Underscores in the value stand for the decimal dot, so that the id
// stays a valid XML name: "part_10_5_mm" means 10.5.
func HeightFromID(id string) (string, bool) {
	m := reHeightID.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], "_", "."), true
}

// lastMatch returns the captured group of the last match of re in
// text, mirroring the rule that later lines override earlier ones.
func lastMatch(re *regexp.Regexp, text string) (string, bool) {
	ms := re.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return "", false
	}
	return ms[len(ms)-1][1], true
}

// HeightFromDescription extracts the height from a description text.
func HeightFromDescription(desc string) (string, bool) {
	return lastMatch(reHeightDesc, desc)
}

// ScaleFromDescription extracts the scale from a description text.
// A two-value scale "x, y" is wrapped into an OpenSCAD vector.
func ScaleFromDescription(desc string) (string, bool) {
	v, ok := lastMatch(reScaleDesc, desc)
	if !ok {
		return "", false
	}
	if strings.Contains(v, ",") {
		v = "[" + v + "]"
	}
	return v, true
}

// RaiseFromDescription extracts the z offset from a description text.
func RaiseFromDescription(desc string) (string, bool) {
	return lastMatch(reRaiseDesc, desc)
}

// mergeNode overlays the annotations found on one node, field by
// field: a value found here replaces the inherited one, the other
// fields are left alone.
func mergeNode(attrs Attributes, node *svgdom.Node) Attributes {
	if h, ok := HeightFromID(node.ID()); ok {
		attrs.Height = h
	}
	if desc := node.Description(); desc != "" {
		if h, ok := HeightFromDescription(desc); ok {
			attrs.Height = h
		}
		if s, ok := ScaleFromDescription(desc); ok {
			attrs.Scale = s
		}
		if r, ok := RaiseFromDescription(desc); ok {
			attrs.Raise = r
		}
	}
	return attrs
}

// fold resolves annotations top down: enclosing groups first, so
// that the element's own values take precedence over inherited ones.
// Only unbroken chains of group ancestors take part.
func fold(attrs Attributes, node *svgdom.Node) Attributes {
	if p := node.Parent; p != nil && p.Tag == "g" {
		attrs = fold(attrs, p)
	}
	return mergeNode(attrs, node)
}

// ResolveAttributes computes the extrusion parameters of an element,
// merging the annotations of its group ancestors and its own. A
// resolved height starting with "a" (for "anti") marks the element
// negative; the prefix is stripped from the value.
func ResolveAttributes(node *svgdom.Node) Attributes {
	attrs := fold(DefaultAttributes(), node)
	if len(attrs.Height) > 0 && (attrs.Height[0] == 'a' || attrs.Height[0] == 'A') {
		attrs.Height = attrs.Height[1:]
		attrs.Negative = true
	}
	return attrs
}
