// Package preview renders a collected drawing to a raster image,
// by wrapping rasterx. It gives a quick visual check of the polygon
// model (including holes) before OpenSCAD is even started.
package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgscad/extrude"
)

// Colors used for the rendition: positive elements in dark gray,
// negative (subtracted) ones in red, unfilled outlines in blue.
var (
	positiveColor = color.NRGBA{60, 60, 60, 255}
	negativeColor = color.NRGBA{200, 40, 40, 255}
	outlineColor  = color.NRGBA{40, 60, 200, 255}
)

// Render rasterizes the drawing into a white image of the given
// size, fitting the drawing bounding box with a small margin.
// Holes are cut out using the even odd fill rule, matching the
// points/paths groups of the generated program.
func Render(d *extrude.Drawing, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if len(d.Elements) == 0 {
		return img
	}

	const margin = 4 // px
	bw, bh := d.BBox.Xmax-d.BBox.Xmin, d.BBox.Ymax-d.BBox.Ymin
	scale := 1.0
	if bw > 0 && bh > 0 {
		sx := float64(width-2*margin) / bw
		sy := float64(height-2*margin) / bh
		scale = sx
		if sy < sx {
			scale = sy
		}
	}
	toImage := func(p extrude.Point) fixed.Point26_6 {
		x := (p.X-d.BBox.Xmin)*scale + margin
		y := (p.Y-d.BBox.Ymin)*scale + margin
		return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	}

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	filler := rasterx.NewFiller(width, height, scanner)
	filler.SetWinding(false) // even odd, so that holes show through

	for _, elt := range d.Elements {
		switch {
		case !elt.Filled:
			scanner.SetColor(outlineColor)
		case elt.Attrs.Negative:
			scanner.SetColor(negativeColor)
		default:
			scanner.SetColor(positiveColor)
		}
		for _, sub := range elt.Set.Subpaths {
			if len(sub.Points) < 2 {
				continue
			}
			filler.Start(toImage(sub.Points[0]))
			for _, pt := range sub.Points[1:] {
				filler.Line(toImage(pt))
			}
			filler.Stop(true)
		}
		filler.Draw()
		filler.Clear()
	}
	return img
}

// SavePNG encodes the image and writes it to the named file.
func SavePNG(filename string, m image.Image) error {
	var b bytes.Buffer
	if err := png.Encode(&b, m); err != nil {
		return err
	}
	return os.WriteFile(filename, b.Bytes(), 0o644)
}
