// Package render draws heatmaps and color-scale legends as raster images and
// writes them as PNG files.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"zheatmap/internal/errors"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
)

// Font sizes and paddings in points
const (
	titleFontSize  = 16.0
	titlePad       = 20.0
	axisFontSize   = 12.0
	tickFontSize   = 10.0
	minRowFontSize = 4.0
	outerPad       = 6.0
	labelPad       = 4.0
	tickLength     = 3.5
	tickPad        = 3.5
	lineWidth      = 0.8
)

// verticalText reads bottom to top
const verticalText = 3 * math.Pi / 2

// canvas draws text on a go-chart raster renderer. Shapes and cell colors
// are painted afterwards on the decoded RGBA image, where they stay crisp.
type canvas struct {
	r      chart.Renderer
	font   *truetype.Font
	dpi    float64
	width  int
	height int
}

func newCanvas(width, height, dpi int) (*canvas, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create renderer")
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load font")
	}
	r.SetDPI(float64(dpi))

	c := &canvas{r: r, font: font, dpi: float64(dpi), width: width, height: height}
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()
	return c, nil
}

// px converts a length in points to whole pixels
func (c *canvas) px(points float64) int {
	return int(math.Round(points * c.dpi / 72))
}

// pointsFor converts a pixel length back to points
func (c *canvas) pointsFor(pixels float64) float64 {
	return pixels * 72 / c.dpi
}

func (c *canvas) setFont(size float64) {
	c.r.SetFont(c.font)
	c.r.SetFontSize(size)
	c.r.SetFontColor(drawing.ColorBlack)
}

// measure returns the unrotated bounding box of text at size
func (c *canvas) measure(text string, size float64) chart.Box {
	if text == "" {
		return chart.Box{}
	}
	c.setFont(size)
	return c.r.MeasureText(text)
}

// widest returns the largest width among texts at size
func (c *canvas) widest(texts []string, size float64) int {
	w := 0
	for _, t := range texts {
		if tw := c.measure(t, size).Width(); tw > w {
			w = tw
		}
	}
	return w
}

// text draws left-aligned text with its baseline at y
func (c *canvas) text(text string, size float64, x, y int) {
	if text == "" {
		return
	}
	c.setFont(size)
	c.r.Text(text, x, y)
}

// textCentered draws text horizontally centred on cx with its baseline at y
func (c *canvas) textCentered(text string, size float64, cx, y int) {
	c.text(text, size, cx-c.measure(text, size).Width()/2, y)
}

// textRight draws text ending at x, vertically centred on cy
func (c *canvas) textRight(text string, size float64, x, cy int) {
	box := c.measure(text, size)
	c.text(text, size, x-box.Width(), cy+box.Height()/2)
}

// textLeft draws text starting at x, vertically centred on cy
func (c *canvas) textLeft(text string, size float64, x, cy int) {
	box := c.measure(text, size)
	c.text(text, size, x, cy+box.Height()/2)
}

// textVertical draws text rotated to read bottom to top, centred on cy.
// The glyphs extend to the left of baseline x.
func (c *canvas) textVertical(text string, size float64, x, cy int) {
	if text == "" {
		return
	}
	box := c.measure(text, size)
	c.setFont(size)
	c.r.SetTextRotation(verticalText)
	c.r.Text(text, x, cy+box.Width()/2)
	c.r.ClearTextRotation()
}

// image encodes the renderer's output and decodes it into an RGBA image
func (c *canvas) image() (*image.RGBA, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to rasterize")
	}
	src, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode raster")
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

// fillRect paints rect with a solid color
func fillRect(dst draw.Image, rect image.Rectangle, col color.Color) {
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// frame draws a border of width w just outside rect
func frame(dst draw.Image, rect image.Rectangle, w int, col color.Color) {
	outer := rect.Inset(-w)
	fillRect(dst, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, rect.Min.Y), col)
	fillRect(dst, image.Rect(outer.Min.X, rect.Max.Y, outer.Max.X, outer.Max.Y), col)
	fillRect(dst, image.Rect(outer.Min.X, rect.Min.Y, rect.Min.X, rect.Max.Y), col)
	fillRect(dst, image.Rect(rect.Max.X, rect.Min.Y, outer.Max.X, rect.Max.Y), col)
}

// hTick draws a horizontal tick of length n starting at x (leftwards when n
// is negative), centred on y
func hTick(dst draw.Image, x, y, n, w int) {
	x0, x1 := x, x+n
	if n < 0 {
		x0, x1 = x+n, x
	}
	fillRect(dst, image.Rect(x0, y-w/2, x1, y-w/2+w), color.Black)
}

// vTick draws a vertical tick of length n downwards from y, centred on x
func vTick(dst draw.Image, x, y, n, w int) {
	fillRect(dst, image.Rect(x-w/2, y, x-w/2+w, y+n), color.Black)
}
