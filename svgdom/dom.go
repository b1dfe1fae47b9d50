// Package svgdom implements an in-memory model of an SVG document
// tree, keeping parent and children links so that consumers may
// walk ancestor chains (annotation inheritance) as well as resolve
// "use" references by id.
// Only the structure and the raw attributes are modelled here;
// geometry compilation is left to the svgpath package.
package svgdom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgscad/svgpath"
	"golang.org/x/net/html/charset"
)

const (
	defaultWidth  = 100
	defaultHeight = 100
)

const inkscapeNS = "http://www.inkscape.org/namespaces/inkscape"

// Kind is the closed set of element kinds the converter
// distinguishes. Parametric shapes are normalized to paths before
// reaching the geometry core, so consumers only ever dispatch over
// this fixed set.
type Kind uint8

const (
	KindPath Kind = iota
	KindRect
	KindLine
	KindPolyline
	KindPolygon
	KindEllipse // ellipse or circle
	KindGroup
	KindReference // use
	KindIgnorable
	KindUnsupported
)

var kinds = map[string]Kind{
	"path":     KindPath,
	"rect":     KindRect,
	"line":     KindLine,
	"polyline": KindPolyline,
	"polygon":  KindPolygon,
	"ellipse":  KindEllipse,
	"circle":   KindEllipse,
	"g":        KindGroup,
	"svg":      KindGroup,
	"use":      KindReference,

	// non graphical content, silently skipped
	"defs":           KindIgnorable,
	"desc":           KindIgnorable,
	"title":          KindIgnorable,
	"metadata":       KindIgnorable,
	"namedview":      KindIgnorable,
	"pattern":        KindIgnorable,
	"marker":         KindIgnorable,
	"linearGradient": KindIgnorable,
	"radialGradient": KindIgnorable,
	"stop":           KindIgnorable,
	"style":          KindIgnorable,
	"cursor":         KindIgnorable,
	"color-profile":  KindIgnorable,
}

// Node is one element of the document tree.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node
	Text     string // accumulated character data
}

// Kind classifies the node tag.
func (n *Node) Kind() Kind {
	if k, has := kinds[n.Tag]; has {
		return k
	}
	return KindUnsupported
}

// Attr returns the raw attribute value, or the empty string.
func (n *Node) Attr(name string) string { return n.Attrs[name] }

// ID returns the raw id attribute of the node.
func (n *Node) ID() string { return n.Attrs["id"] }

// Description returns the text of the node's own <desc> child,
// or the empty string.
func (n *Node) Description() string {
	for _, child := range n.Children {
		if child.Tag == "desc" {
			return child.Text
		}
	}
	return ""
}

// Style merges the presentation attributes and the style attribute
// into one property map. Declarations from the style attribute
// override presentation attributes of the same name.
func (n *Node) Style() map[string]string {
	style := map[string]string{}
	for k, v := range n.Attrs {
		switch k {
		case "fill", "stroke", "stroke-width", "display", "opacity":
			style[k] = v
		}
	}
	for _, pair := range strings.Split(n.Attrs["style"], ";") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			style[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return style
}

// Display returns false when the node carries a
// style or attribute display:none.
func (n *Node) Display() bool {
	return n.Style()["display"] != "none"
}

// Visibility resolves the visibility attribute against the
// parent value, following the SVG inherit rule.
func (n *Node) Visibility(parent string) string {
	v := n.Attrs["visibility"]
	if v == "" || v == "inherit" {
		return parent
	}
	return v
}

// Transform compiles the node's transform attribute on top of base.
func (n *Node) Transform(base svgpath.Matrix2D) (svgpath.Matrix2D, error) {
	raw := n.Attrs["transform"]
	if raw == "" {
		return base, nil
	}
	return svgpath.ParseTransform(raw, base)
}

// Document holds a parsed SVG file: the element tree plus the
// document level properties needed to interpret coordinates.
type Document struct {
	Root *Node

	DPI           float64 // pixels per inch: 90, or 96 since inkscape 0.92
	Width, Height float64 // document size, in pixels
	Basename      string  // document name, without extension
	Transform     svgpath.Matrix2D

	byID map[string]*Node
}

// versionRe extracts the leading major.minor of an inkscape:version value.
var versionRe = regexp.MustCompile(`(\d+)\.(\d+)`)

// Parse reads an SVG document from the stream, building the node
// tree and resolving the document properties (dpi, size, viewBox
// transform). basename seeds Document.Basename and is overridden
// by a sodipodi:docname attribute.
func Parse(stream io.Reader, basename string) (*Document, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		root    *Node
		current *Node
	)
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			node := &Node{Tag: se.Name.Local, Attrs: make(map[string]string, len(se.Attr)), Parent: current}
			for _, attr := range se.Attr {
				key := attr.Name.Local
				// keep inkscape:version distinct from the svg
				// version attribute
				if attr.Name.Space == inkscapeNS {
					key = "inkscape:" + key
				}
				node.Attrs[key] = attr.Value
			}
			if current != nil {
				current.Children = append(current.Children, node)
			} else if root == nil && se.Name.Local == "svg" {
				root = node
			}
			current = node
		case xml.EndElement:
			if current != nil {
				current = current.Parent
			}
		case xml.CharData:
			if current != nil {
				current.Text += string(se)
			}
		}
	}
	if root == nil {
		return nil, errors.New("invalid svg document: no root element")
	}

	doc := &Document{Root: root, DPI: 90, Basename: basename, Transform: svgpath.Identity, byID: map[string]*Node{}}
	doc.indexIDs(root)
	if docname := root.Attrs["docname"]; docname != "" {
		doc.Basename = strings.TrimSuffix(docname, filepath.Ext(docname))
	}
	// inkscape 0.92 switched from 90 to 96 dpi
	if m := versionRe.FindStringSubmatch(root.Attrs["inkscape:version"]); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		if major > 0 || minor > 91 {
			doc.DPI = 96
		}
	}
	if err := doc.readProps(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads the SVG document from the named file.
func ParseFile(filename string) (*Document, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Parse(fin, base)
}

func (doc *Document) indexIDs(n *Node) {
	if id := n.ID(); id != "" {
		if _, seen := doc.byID[id]; !seen {
			doc.byID[id] = n
		}
	}
	for _, child := range n.Children {
		doc.indexIDs(child)
	}
}

// FindByID returns the node carrying the given id attribute, or nil.
func (doc *Document) FindByID(id string) *Node { return doc.byID[id] }

// readProps resolves the document size and the viewBox transform,
// which must be known before interpreting any coordinate.
func (doc *Document) readProps() error {
	var err error
	doc.Width, err = doc.length(doc.Root.Attrs["width"], defaultWidth)
	if err != nil {
		return err
	}
	doc.Height, err = doc.length(doc.Root.Attrs["height"], defaultHeight)
	if err != nil {
		return err
	}

	if viewbox := doc.Root.Attrs["viewBox"]; viewbox != "" {
		points, err := svgpath.ParsePoints(strings.ReplaceAll(viewbox, ",", " "))
		if err != nil {
			return err
		}
		if len(points) == 4 && points[2] != 0 && points[3] != 0 {
			sx := doc.Width / points[2]
			sy := doc.Height / points[3]
			doc.Transform = svgpath.Identity.Scale(sx, sy)
		}
	}
	return nil
}

// length parses a document attribute, falling back on def
// when the attribute is absent.
func (doc *Document) length(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return LengthToPixels(s, "px", doc.DPI)
}

// LengthWithUnit converts a length string to pixels using the
// document resolution; the default unit applies when the value
// carries none.
func (doc *Document) LengthWithUnit(s, defaultUnit string) (float64, error) {
	return LengthToPixels(s, defaultUnit, doc.DPI)
}
