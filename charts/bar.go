package charts

import (
	"fmt"
	"image"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"movie-insights/models"
)

const (
	barAlpha        = 178 // 0.7 opacity
	barTitleSize    = 11.0
	barLabelSize    = 8.0
	barValueSize    = 8.0
	barMaxLabelFrac = 0.35
	barGridLines    = 5
)

var (
	colorAxis = drawing.ColorFromHex("333333")
	colorGrid = drawing.ColorFromHex("E5E5E5")
)

// legendEntries mirrors the three rating buckets with the shade each one
// is drawn in on the reversed scale.
var legendEntries = []struct {
	label string
	at    float64
}{
	{"Low Rating (<3)", 0.2},
	{"Medium Rating (3)", 0.5},
	{"High Rating (>3)", 0.8},
}

func barTitle(genre string, top, decade int) string {
	return fmt.Sprintf("Total Views by Top %s %d movies produced in the %ds and Average Ratings", genre, top, decade)
}

// renderBars draws one horizontal bar per movie, longest first from the top.
// Bars are shaded by normalised average rating on the reversed palette and
// carry the rating as a label.
func renderBars(movies []models.MovieSummary, genre string, top, decade int, p Palette, width, height int) (image.Image, error) {
	title := barTitle(genre, top, decade)
	if len(movies) == 0 {
		return placeholder(width, height, title, "No movies matched"), nil
	}

	c, err := newCanvas(width, height, drawing.ColorWhite)
	if err != nil {
		return nil, err
	}
	reversed := p.Reversed()

	titleBox := c.measure(title, barTitleSize)
	c.textCentered(title, 12+titleBox.Height(), barTitleSize, colorAxis)

	labels := make([]string, len(movies))
	labelWidth := 0
	for i, m := range movies {
		labels[i] = truncate(m.Title, 48)
		if w := c.measure(labels[i], barLabelSize).Width(); w > labelWidth {
			labelWidth = w
		}
	}
	if max := int(float64(width) * barMaxLabelFrac); labelWidth > max {
		labelWidth = max
	}

	left := labelWidth + 16
	right := width - 24
	plotTop := 24 + titleBox.Height() + 8
	plotBottom := height - 40
	if right <= left || plotBottom <= plotTop {
		return placeholder(width, height, title, "Figure too small"), nil
	}

	maxViews := 0
	for _, m := range movies {
		if m.TotalViews > maxViews {
			maxViews = m.TotalViews
		}
	}
	axisMax, step := niceAxis(float64(maxViews), barGridLines)
	scale := float64(right-left) / axisMax

	// grid and x ticks
	for v := 0.0; v <= axisMax+step/2; v += step {
		x := left + int(v*scale)
		c.line(x, plotTop, x, plotBottom, colorGrid, 1)
		label := formatCount(v)
		lb := c.measure(label, barLabelSize)
		c.text(label, x-lb.Width()/2, plotBottom+6+lb.Height(), barLabelSize, colorAxis)
	}
	xLabel := "Total views"
	xb := c.measure(xLabel, barLabelSize+1)
	c.text(xLabel, left+(right-left-xb.Width())/2, height-8, barLabelSize+1, colorAxis)

	slot := float64(plotBottom-plotTop) / float64(len(movies))
	barHeight := int(math.Max(1, slot*0.8))
	for i, m := range movies {
		y0 := plotTop + int(float64(i)*slot+(slot-float64(barHeight))/2)
		y1 := y0 + barHeight
		x1 := left + int(float64(m.TotalViews)*scale)

		shade := reversed.At(NormalizeRating(m.AverageRating)).WithAlpha(barAlpha)
		c.fillRect(left, y0, x1, y1, shade)

		lb := c.measure(labels[i], barLabelSize)
		baseline := y0 + (barHeight+lb.Height())/2
		c.textRight(labels[i], left-6, baseline, barLabelSize, colorAxis)

		value := fmt.Sprintf("%.1f", m.AverageRating)
		vb := c.measure(value, barValueSize)
		if x1-left > vb.Width()+8 {
			c.textRight(value, x1-4, baseline, barValueSize, drawing.ColorWhite)
		} else {
			c.text(value, x1+4, baseline, barValueSize, colorAxis)
		}
	}
	c.line(left, plotTop, left, plotBottom, colorAxis, 1)
	c.line(left, plotBottom, right, plotBottom, colorAxis, 1)

	drawLegend(c, reversed, right, plotTop)
	return c.image()
}

// drawLegend places the rating bucket legend in the upper right of the plot.
func drawLegend(c *canvas, reversed Palette, right, top int) {
	const swatch = 18
	width := 0
	for _, e := range legendEntries {
		if w := c.measure(e.label, barLabelSize).Width(); w > width {
			width = w
		}
	}
	boxLeft := right - width - swatch - 20
	boxBottom := top + len(legendEntries)*16 + 10
	c.fillRect(boxLeft, top+4, right-4, boxBottom, drawing.ColorWhite.WithAlpha(230))

	for i, e := range legendEntries {
		y := top + 12 + i*16
		c.fillRect(boxLeft+6, y, boxLeft+6+swatch, y+6, reversed.At(e.at))
		c.text(e.label, boxLeft+10+swatch, y+7, barLabelSize, colorAxis)
	}
}

// niceAxis rounds max up to a readable axis bound and returns it with the
// tick step for roughly n intervals.
func niceAxis(max float64, n int) (axisMax, step float64) {
	if max <= 0 {
		return 1, 1
	}
	raw := max / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	if step < 1 {
		step = 1
	}
	return math.Ceil(max/step) * step, step
}

func formatCount(v float64) string {
	if v >= 10000 {
		return fmt.Sprintf("%.0fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}
