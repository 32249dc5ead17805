// Package charts renders movie summaries as a stacked multi-panel figure:
// a horizontal bar chart of views, a rating/views scatter plot and a word
// cloud of user tags.
package charts

import (
	"errors"
	"fmt"
)

const (
	DefaultColorScheme = "viridis"
	DefaultTopN        = 20
	DefaultWidth       = 1000
	DefaultHeight      = 1500

	// MaxPanels is the number of distinct panels: bar, scatter, word cloud.
	MaxPanels = 3
)

var (
	ErrUnknownColorScheme = errors.New("charts: unknown color scheme")
	ErrInvalidPanelCount  = errors.New("charts: panel count out of range")
	ErrInvalidTopN        = errors.New("charts: top N must be positive")
	ErrInvalidDimensions  = errors.New("charts: figure dimensions must be positive")
)

// Config controls how a figure is drawn.
type Config struct {
	// ColorScheme names the sequential palette used for rating shades.
	ColorScheme string
	// PanelCount selects how many panels are drawn, in order bar, scatter,
	// word cloud.
	PanelCount int
	// TopN is how many movies, by total views, appear in the charts.
	TopN int
	// Width and Height are the full figure size in pixels. Panels split the
	// height evenly.
	Width  int
	Height int
}

// DefaultConfig returns a three-panel 1000x1500 figure of the top 20 movies.
func DefaultConfig() Config {
	return Config{
		ColorScheme: DefaultColorScheme,
		PanelCount:  MaxPanels,
		TopN:        DefaultTopN,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
	}
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	if _, ok := palettes[c.ColorScheme]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColorScheme, c.ColorScheme)
	}
	if c.PanelCount < 1 || c.PanelCount > MaxPanels {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidPanelCount, c.PanelCount, MaxPanels)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTopN, c.TopN)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	return nil
}

func (c Config) panelHeight() int {
	return c.Height / c.PanelCount
}
