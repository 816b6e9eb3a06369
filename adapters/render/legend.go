package render

import (
	"fmt"
	"image"
	"image/color"

	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/internal/colormap"
	"zheatmap/internal/errors"
)

// Legend font sizes in points. The default font has no bold face, so the
// label is set larger than the ticks instead.
const (
	legendLabelFontSize = 14.0
	legendTickFontSize  = 12.0
	legendPad           = 8.0
)

// LegendRenderer draws a standalone colorbar: the gradient, its ticks and a
// label, nothing else
type LegendRenderer struct{}

// NewLegendRenderer creates a legend renderer
func NewLegendRenderer() *LegendRenderer {
	return &LegendRenderer{}
}

// RenderLegend draws the color scale for r in the requested orientation
func (l *LegendRenderer) RenderLegend(r scale.DisplayRange, p plot.LegendParams) (image.Image, error) {
	if p.DPI <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("dpi must be positive, got %d", p.DPI))
	}
	if _, err := plot.ParseOrientation(string(p.Orientation)); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if err := validateRange(r); err != nil {
		return nil, err
	}

	cm, err := colormap.Lookup(p.Colormap)
	if err != nil {
		return nil, err
	}

	width, height := p.PixelSize()
	c, err := newCanvas(width, height, p.DPI)
	if err != nil {
		return nil, err
	}

	ticks := niceTicks(r.Low, r.High, colorbarTickCount)
	labels := tickLabels(ticks)

	margin := c.px(legendPad)
	tick := c.px(tickLength)
	pad := c.px(tickPad)
	gap := c.px(labelPad)
	line := max(1, c.px(lineWidth))
	tickW := c.widest(labels, legendTickFontSize)
	tickH := c.measure("0123456789", legendTickFontSize).Height()
	labelH := c.measure(p.Label, legendLabelFontSize).Height()

	var bar image.Rectangle
	if p.Orientation == plot.Horizontal {
		bar = image.Rect(
			margin+tickW/2, margin,
			width-margin-tickW/2, height-margin-labelH-gap-tickH-pad-tick,
		)
	} else {
		bar = image.Rect(
			margin, margin+tickH/2,
			width-margin-labelH-gap-tickW-pad-tick, height-margin-tickH/2,
		)
	}
	if bar.Dx() < 1 || bar.Dy() < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("a %dx%d pixel legend is too small for its labels", width, height))
	}

	if p.Orientation == plot.Horizontal {
		xs := colorbarTickX(bar, r, ticks)
		baseline := bar.Max.Y + tick + pad + tickH
		for i, t := range ticks {
			c.textCentered(t.Label, legendTickFontSize, xs[i], baseline)
		}
		c.textCentered(p.Label, legendLabelFontSize, (bar.Min.X+bar.Max.X)/2, height-margin)

		img, err := c.image()
		if err != nil {
			return nil, err
		}
		paintGradient(img, bar, cm, plot.Horizontal)
		frame(img, bar, line, color.Black)
		for _, x := range xs {
			vTick(img, x, bar.Max.Y, tick, line)
		}
		return img, nil
	}

	ys := colorbarTickY(bar, r, ticks)
	for i, t := range ticks {
		c.textLeft(t.Label, legendTickFontSize, bar.Max.X+tick+pad, ys[i])
	}
	c.textVertical(p.Label, legendLabelFontSize, bar.Max.X+tick+pad+tickW+gap+labelH, (bar.Min.Y+bar.Max.Y)/2)

	img, err := c.image()
	if err != nil {
		return nil, err
	}
	paintGradient(img, bar, cm, plot.Vertical)
	frame(img, bar, line, color.Black)
	for _, y := range ys {
		hTick(img, bar.Max.X, y, tick, line)
	}
	return img, nil
}
