package charts

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderBackground = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	placeholderText       = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// placeholder draws a flat panel with a title and a centred message. It is
// used whenever a panel has nothing to plot.
func placeholder(width, height int, title, message string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(placeholderText), Face: face}

	drawCentered := func(text string, y int) {
		w := dr.MeasureString(text).Ceil()
		dr.Dot = fixed.Point26_6{X: fixed.I((width - w) / 2), Y: fixed.I(y)}
		dr.DrawString(text)
	}

	lineHeight := face.Metrics().Height.Ceil()
	if title != "" {
		drawCentered(title, 2*lineHeight)
	}
	drawCentered(message, height/2)
	return img
}
