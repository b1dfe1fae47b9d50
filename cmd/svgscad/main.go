// Command svgscad converts an SVG drawing into an OpenSCAD program:
// every closed outline becomes an extruded polygon, nested outlines
// become holes, and annotations on the SVG objects (id suffixes like
// _5_mm, or "height: 5mm" description lines) drive the per object
// extrusion height, z offset, taper and polarity.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgscad/extrude"
	"github.com/benoitkugler/svgscad/preview"
	"github.com/benoitkugler/svgscad/scad"
	"github.com/benoitkugler/svgscad/svgdom"
)

type options struct {
	smoothness   float64
	height       string
	minLineWidth float64
	lineFn       int
	forceLine    bool
	fname        string
	parseDesc    bool
	onError      string

	previewFile string
	previewSize int

	scadView    bool
	scadViewCmd string
	scad2STL    bool
	scad2STLCmd string
	stlPost     bool
	stlPostCmd  string
}

// envDefault keeps the historic environment overrides working.
func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:          "svgscad [flags] input.svg",
		Short:        "Convert an SVG drawing to an extruded OpenSCAD program",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&opts.smoothness, "smoothness", 0.2, "curve smoothing (less for more)")
	flags.StringVar(&opts.height, "height", "5", "default extrusion height (mm)")
	flags.Float64Var(&opts.minLineWidth, "min-line-width", 1, "line width for non closed curves (mm)")
	flags.IntVarP(&opts.lineFn, "line-fn", "n", 4, "line width precision ($fn when constructing hulls)")
	flags.BoolVar(&opts.forceLine, "force-line", false, "force outline mode")
	flags.StringVar(&opts.fname, "fname", "{NAME}.scad", "output file name, {NAME} expands to the svg base name")
	flags.BoolVar(&opts.parseDesc, "parsedesc", true, "parse extrusion parameters from object ids and descriptions")
	flags.StringVar(&opts.onError, "on-error", "warn", "reaction to broken input: ignore, warn or strict")
	flags.StringVar(&opts.previewFile, "preview", "", "also render a PNG preview of the polygon model to this file")
	flags.IntVar(&opts.previewSize, "preview-size", 512, "size of the PNG preview, in pixels")
	flags.BoolVar(&opts.scadView, "scadview", false, "open the generated file in a viewer (see --scadviewcmd)")
	flags.StringVar(&opts.scadViewCmd, "scadviewcmd", envDefault("INX_SCADVIEW", "openscad '{NAME}.scad'"),
		"viewer command, {SCAD} and {NAME} expand to the output file")
	flags.BoolVar(&opts.scad2STL, "scad2stl", false, "also convert to STL (see --scad2stlcmd)")
	flags.StringVar(&opts.scad2STLCmd, "scad2stlcmd", envDefault("INX_SCAD2STL", "openscad '{NAME}.scad' -o '{NAME}.stl'"),
		"STL conversion command, {SCAD}, {STL} and {NAME} expand to the file names")
	flags.BoolVar(&opts.stlPost, "stlpost", false, "post process the STL file, implies --scad2stl (see --stlpostcmd)")
	flags.StringVar(&opts.stlPostCmd, "stlpostcmd", envDefault("INX_STL_POSTPROCESSING", "cura '{NAME}.stl' &"),
		"STL post processing command, typically a slicer")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func errorMode(s string) (extrude.ErrorMode, error) {
	switch s {
	case "ignore":
		return extrude.IgnoreErrorMode, nil
	case "warn":
		return extrude.WarnErrorMode, nil
	case "strict":
		return extrude.StrictErrorMode, nil
	}
	return 0, fmt.Errorf("invalid error mode %q (want ignore, warn or strict)", s)
}

func run(input string, opts options) error {
	mode, err := errorMode(opts.onError)
	if err != nil {
		return err
	}

	doc, err := svgdom.ParseFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %s", input, err)
	}

	drawing, err := extrude.Collect(doc, extrude.Options{
		Smoothness: opts.smoothness,
		ParseDesc:  opts.parseDesc,
		Errors:     mode,
	})
	if err != nil {
		return err
	}

	fname := strings.ReplaceAll(opts.fname, "{NAME}", doc.Basename)
	err = scad.WriteFile(fname, drawing, scad.Params{
		Name:         scad.ModuleName(fname),
		Height:       opts.height,
		MinLineWidth: opts.minLineWidth,
		LineFn:       opts.lineFn,
		ForceLine:    opts.forceLine,
	})
	if err != nil {
		return fmt.Errorf("unable to write %s: %s", fname, err)
	}

	if opts.previewFile != "" {
		img := preview.Render(drawing, opts.previewSize, opts.previewSize)
		out := strings.ReplaceAll(opts.previewFile, "{NAME}", doc.Basename)
		if err = preview.SavePNG(out, img); err != nil {
			return fmt.Errorf("unable to write preview %s: %s", out, err)
		}
	}

	// base name for the command templates, the scad extension stripped
	basename := strings.TrimSuffix(fname, ".scad")
	vars := map[string]string{"SCAD": fname, "NAME": basename, "STL": basename + ".stl"}

	if opts.scadView {
		if err = launchViewer(expandTemplate(opts.scadViewCmd, vars)); err != nil {
			return err
		}
	}
	if opts.scad2STL || opts.stlPost {
		ok, err := convertToSTL(expandTemplate(opts.scad2STLCmd, vars), basename+".stl")
		if err != nil {
			return err
		}
		if opts.stlPost && ok {
			if err = postProcessSTL(expandTemplate(opts.stlPostCmd, vars)); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() { log.SetFlags(0) }
