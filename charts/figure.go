package charts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"movie-insights/models"
)

// ErrUnsupportedFormat is returned when a figure is saved with an unknown extension.
var ErrUnsupportedFormat = errors.New("charts: unsupported figure format")

// Renderer draws insight figures with a fixed, validated configuration.
type Renderer struct {
	cfg     Config
	palette Palette
}

// NewRenderer validates cfg and returns a Renderer for it.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := PaletteFor(cfg.ColorScheme)
	if err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, palette: p}, nil
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render selects the TopN most viewed summaries and stacks the configured
// panels vertically into one Width x Height figure.
func (r *Renderer) Render(summaries []models.MovieSummary, genre string, decade int) (image.Image, error) {
	top := SelectTop(summaries, r.cfg.TopN)
	w, h := r.cfg.Width, r.cfg.panelHeight()

	fig := imaging.New(r.cfg.Width, r.cfg.Height, color.White)
	for i := 0; i < r.cfg.PanelCount; i++ {
		var (
			panel image.Image
			err   error
		)
		switch i {
		case 0:
			panel, err = renderBars(top, genre, r.cfg.TopN, decade, r.palette, w, h)
		case 1:
			panel, err = renderScatter(top, r.cfg.TopN, decade, w, h)
		case 2:
			panel, err = renderWordCloud(top, r.palette, w, h)
		}
		if err != nil {
			return nil, fmt.Errorf("charts: panel %d: %w", i+1, err)
		}
		fig = imaging.Paste(fig, panel, image.Pt(0, i*h))
	}
	return fig, nil
}

// Save writes img to path, creating parent directories. The format follows
// the extension: .png, .jpg/.jpeg or .webp.
func Save(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !supportedFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("charts: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("charts: create file %q: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img to w in the named format ("png", "jpg", "jpeg", "webp").
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		if err := webp.Encode(w, img, &webp.Options{Lossless: true}); err != nil {
			return fmt.Errorf("charts: encode webp: %w", err)
		}
		return nil
	case "png", "jpg", "jpeg":
		f, err := imaging.FormatFromExtension(format)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		if err := imaging.Encode(w, img, f); err != nil {
			return fmt.Errorf("charts: encode %s: %w", format, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func supportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "png", "jpg", "jpeg", "webp":
		return true
	}
	return false
}
