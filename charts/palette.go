package charts

import (
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is a sequential color scale sampled into discrete shades, low to high.
type Palette []drawing.Color

var palettes = map[string]Palette{
	"viridis": hexPalette("440154", "482878", "3E4A89", "31688E", "26828E", "1F9E89", "35B779", "6ECE58", "B5DE2B", "FDE725"),
	"plasma":  hexPalette("0D0887", "47039F", "7301A8", "9C179E", "BD3786", "D8576B", "ED7953", "FA9E3B", "FDC926", "F0F921"),
	"magma":   hexPalette("000004", "180F3D", "440F76", "721F81", "9E2F7F", "CD4071", "F1605D", "FD9668", "FECA8D", "FCFDBF"),
	"cividis": hexPalette("00224E", "123570", "3B496C", "575D6D", "707173", "8A8678", "A59C74", "C3B369", "E1CC55", "FEE838"),
	"greys":   hexPalette("FFFFFF", "F2F2F2", "DFDFDF", "C6C6C6", "A5A5A5", "868686", "686868", "4D4D4D", "252525", "000000"),
}

func hexPalette(hex ...string) Palette {
	p := make(Palette, len(hex))
	for i, h := range hex {
		p[i] = drawing.ColorFromHex(h)
	}
	return p
}

// PaletteFor looks up a palette by name.
func PaletteFor(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorScheme, name)
	}
	return p, nil
}

// ColorSchemes lists the recognised palette names in alphabetical order.
func ColorSchemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reversed returns the palette with its shades in the opposite order.
func (p Palette) Reversed() Palette {
	r := make(Palette, len(p))
	for i, c := range p {
		r[len(p)-1-i] = c
	}
	return r
}

// At samples the palette at x in [0,1]. Values outside the range are clamped.
func (p Palette) At(x float64) drawing.Color {
	if len(p) == 0 {
		return drawing.ColorBlack
	}
	idx := int(clamp01(x) * float64(len(p)))
	if idx >= len(p) {
		idx = len(p) - 1
	}
	return p[idx]
}

// NormalizeRating maps a rating on the 1..5 scale to [0,1]. Ratings below 1
// or above 5 are clamped to the ends of the range.
func NormalizeRating(rating float64) float64 {
	return clamp01((rating - 1) / 4)
}

// Rating buckets used by the bar chart legend.
const (
	BucketLow    = "low"
	BucketMedium = "medium"
	BucketHigh   = "high"
)

// RatingBucket classifies an average rating as low (<3), medium (3) or high (>3).
func RatingBucket(rating float64) string {
	switch {
	case rating < 3:
		return BucketLow
	case rating > 3:
		return BucketHigh
	default:
		return BucketMedium
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
