package svgdom

import (
	"fmt"
	"strconv"
	"strings"
)

// SVG defines 90 px = 1 in = 25.4 mm (CSS uses 96 px = 1 in since
// inkscape 0.92; the document resolution decides which applies).

// ErrUnsupportedUnit is returned for units the converter cannot
// turn into absolute pixels, such as percentages.
type ErrUnsupportedUnit string

func (e ErrUnsupportedUnit) Error() string {
	return fmt.Sprintf("unsupported unit %q", string(e))
}

// SplitLengthUnit splits a length string into its numeric value and
// its unit, using defaultUnit when the string carries none.
func SplitLengthUnit(s, defaultUnit string) (float64, string, error) {
	u := defaultUnit
	s = strings.TrimSpace(s)
	matched := false
	if len(s) >= 2 {
		switch suffix := s[len(s)-2:]; suffix {
		case "px", "pt", "pc", "mm", "cm", "in", "ft":
			u = suffix
			s = s[:len(s)-2]
			matched = true
		}
	}
	if !matched && len(s) >= 1 {
		switch suffix := s[len(s)-1:]; suffix {
		case "m", "%":
			u = suffix
			s = s[:len(s)-1]
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, "", err
	}
	return v, u, nil
}

// LengthToPixels converts a length string to pixels at the given
// resolution (pixels per inch). Percentages and unknown units yield
// an ErrUnsupportedUnit error.
func LengthToPixels(s, defaultUnit string, dpi float64) (float64, error) {
	v, u, err := SplitLengthUnit(s, defaultUnit)
	if err != nil {
		return 0, err
	}
	switch u {
	case "mm":
		return v * (dpi / 25.4), nil
	case "cm":
		return v * (dpi * 10.0 / 25.4), nil
	case "m":
		return v * (dpi * 1000.0 / 25.4), nil
	case "in":
		return v * dpi, nil
	case "ft":
		return v * 12.0 * dpi, nil
	case "pt":
		// modern "Postscript" points: 72 pt = 1 in, instead
		// of the traditional 72.27 pt = 1 in
		return v * (dpi / 72.0), nil
	case "pc":
		return v * (dpi / 6.0), nil
	case "px":
		return v, nil
	default:
		return 0, ErrUnsupportedUnit(u)
	}
}
