package charts

import (
	"bytes"
	"fmt"
	"image"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"movie-insights/models"
)

var scatterColor = drawing.ColorFromHex("008000")

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func scatterTitle(top, decade int) string {
	return fmt.Sprintf("Correlation between Total Views and Average Rating of the Top %d movies produced in the %ds", top, decade)
}

// renderScatter plots average rating against total views for the selection.
func renderScatter(movies []models.MovieSummary, top, decade int, width, height int) (image.Image, error) {
	title := scatterTitle(top, decade)
	if len(movies) == 0 {
		return placeholder(width, height, title, "No movies matched"), nil
	}

	xs := make([]float64, len(movies))
	ys := make([]float64, len(movies))
	maxViews := 0.0
	for i, m := range movies {
		xs[i] = m.AverageRating
		ys[i] = float64(m.TotalViews)
		if ys[i] > maxViews {
			maxViews = ys[i]
		}
	}
	// Explicit ranges keep single-point and equal-value selections renderable.
	yMax, _ := niceAxis(maxViews*1.05, 5)

	ch := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 10},
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 24, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Average Rating",
			Range: &chart.ContinuousRange{Min: 0, Max: 5},
		},
		YAxis: chart.YAxis{
			Name:  "Total Views",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "movies",
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(scatterColor),
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render scatter: %w", err)
	}
	return decodePNG(&buf)
}
