package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// canvas wraps a go-chart raster renderer with the few primitives the
// hand-laid-out panels need.
type canvas struct {
	r      chart.Renderer
	width  int
	height int
}

func newCanvas(width, height int, background drawing.Color) (*canvas, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("charts: create renderer: %w", err)
	}
	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("charts: load font: %w", err)
	}
	r.SetFont(f)

	c := &canvas{r: r, width: width, height: height}
	c.fillRect(0, 0, width, height, background)
	return c, nil
}

func (c *canvas) fillRect(x0, y0, x1, y1 int, col drawing.Color) {
	c.r.SetFillColor(col)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.Close()
	c.r.Fill()
}

func (c *canvas) line(x0, y0, x1, y1 int, col drawing.Color, width float64) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

func (c *canvas) measure(text string, size float64) chart.Box {
	c.r.SetFontSize(size)
	return c.r.MeasureText(text)
}

// text draws text with its baseline at y.
func (c *canvas) text(text string, x, y int, size float64, col drawing.Color) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(col)
	c.r.Text(text, x, y)
}

// textRight draws text so that it ends at x.
func (c *canvas) textRight(text string, x, y int, size float64, col drawing.Color) {
	b := c.measure(text, size)
	c.text(text, x-b.Width(), y, size, col)
}

// textCentered draws text horizontally centred on the canvas.
func (c *canvas) textCentered(text string, y int, size float64, col drawing.Color) {
	b := c.measure(text, size)
	c.text(text, (c.width-b.Width())/2, y, size, col)
}

func (c *canvas) image() (image.Image, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("charts: encode panel: %w", err)
	}
	return decodePNG(&buf)
}

func decodePNG(buf *bytes.Buffer) (image.Image, error) {
	img, err := png.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("charts: decode panel: %w", err)
	}
	return img, nil
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
