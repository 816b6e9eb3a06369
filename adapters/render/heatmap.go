package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/domain/table"
	"zheatmap/internal/colormap"
	"zheatmap/internal/errors"

	"golang.org/x/image/draw"
)

// missingColor is used for cells without a value
var missingColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// HeatmapRenderer draws a subject x time matrix as a colored grid with row
// and column labels, a title and a colorbar on the right
type HeatmapRenderer struct{}

// NewHeatmapRenderer creates a heatmap renderer
func NewHeatmapRenderer() *HeatmapRenderer {
	return &HeatmapRenderer{}
}

// heatmapLayout holds pixel positions computed from the measured labels
type heatmapLayout struct {
	plot     image.Rectangle
	colorbar image.Rectangle

	margin int
	gap    int
	tick   int
	pad    int
	line   int

	rowFont        float64
	titleBaseline  int
	xTickBaseline  int
	xLabelBaseline int
	yLabelX        int
	valueLabelX    int

	// xTicks are the labelled column indices
	xTicks []int
}

// RenderHeatmap draws set with colors stretched over r
func (h *HeatmapRenderer) RenderHeatmap(set *table.SeriesSet, r scale.DisplayRange, p plot.HeatmapParams) (image.Image, error) {
	if set == nil || set.Len() == 0 || set.TimePoints() == 0 {
		return nil, errors.InvalidInput("nothing to draw: no subject series")
	}
	if p.DPI <= 0 || p.WidthInches <= 0 || p.HeightInches <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid figure size %gx%g in at %d dpi", p.WidthInches, p.HeightInches, p.DPI))
	}
	if p.XTickInterval <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("x tick interval must be positive, got %d", p.XTickInterval))
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

	title := p.Title
	if title == "" {
		title = plot.DefaultTitle(set.Len())
	}
	names := set.Names()
	ticks := niceTicks(r.Low, r.High, colorbarTickCount)

	lay, err := layoutHeatmap(c, title, names, set.TimePoints(), tickLabels(ticks), p)
	if err != nil {
		return nil, err
	}

	cx := (lay.plot.Min.X + lay.plot.Max.X) / 2
	cy := (lay.plot.Min.Y + lay.plot.Max.Y) / 2
	c.textCentered(title, titleFontSize, cx, lay.titleBaseline)
	c.textCentered(p.XLabel, axisFontSize, cx, lay.xLabelBaseline)
	c.textVertical(p.YLabel, axisFontSize, lay.yLabelX, cy)
	c.textVertical(p.ValueLabel, axisFontSize, lay.valueLabelX, cy)

	rowLabelX := lay.plot.Min.X - lay.tick - lay.pad
	for i, name := range names {
		c.textRight(name, lay.rowFont, rowLabelX, rowCentre(lay.plot, i, len(names)))
	}
	for _, j := range lay.xTicks {
		c.textCentered(strconv.Itoa(j), tickFontSize, columnCentre(lay.plot, j, set.TimePoints()), lay.xTickBaseline)
	}
	tickYs := colorbarTickY(lay.colorbar, r, ticks)
	for i, t := range ticks {
		c.textLeft(t.Label, tickFontSize, lay.colorbar.Max.X+lay.tick+lay.pad, tickYs[i])
	}

	img, err := c.image()
	if err != nil {
		return nil, err
	}

	paintCells(img, lay.plot, set, r, cm)
	for i := range names {
		hTick(img, lay.plot.Min.X, rowCentre(lay.plot, i, len(names)), -lay.tick, lay.line)
	}
	for _, j := range lay.xTicks {
		vTick(img, columnCentre(lay.plot, j, set.TimePoints()), lay.plot.Max.Y, lay.tick, lay.line)
	}

	paintGradient(img, lay.colorbar, cm, plot.Vertical)
	frame(img, lay.colorbar, lay.line, color.Black)
	for _, y := range tickYs {
		hTick(img, lay.colorbar.Max.X, y, lay.tick, lay.line)
	}
	return img, nil
}

// layoutHeatmap places the plot area and colorbar so every label fits.
// The vertical layout is fixed first because the row label size depends on
// the row height.
func layoutHeatmap(c *canvas, title string, names []string, cols int, cbLabels []string, p plot.HeatmapParams) (heatmapLayout, error) {
	lay := heatmapLayout{
		margin: c.px(outerPad),
		gap:    c.px(labelPad),
		tick:   c.px(tickLength),
		pad:    c.px(tickPad),
		line:   max(1, c.px(lineWidth)),
	}

	lay.titleBaseline = lay.margin + c.measure(title, titleFontSize).Height()
	top := lay.titleBaseline + c.px(titlePad)

	digitsH := c.measure("0123456789", tickFontSize).Height()
	xLabelH := c.measure(p.XLabel, axisFontSize).Height()
	bottom := lay.margin + xLabelH + lay.gap + digitsH + lay.pad + lay.tick
	lay.xLabelBaseline = c.height - lay.margin
	lay.xTickBaseline = c.height - bottom + lay.tick + lay.pad + digitsH

	rows := len(names)
	plotH := c.height - top - bottom
	if plotH < rows {
		return lay, tooSmall(c, rows)
	}

	rowPx := float64(plotH) / float64(rows)
	lay.rowFont = math.Min(tickFontSize, math.Max(minRowFontSize, c.pointsFor(rowPx*0.8)))
	rowLabelW := c.widest(names, lay.rowFont)
	lay.yLabelX = lay.margin + c.measure(p.YLabel, axisFontSize).Height()
	left := lay.yLabelX + lay.gap + rowLabelW + lay.pad + lay.tick

	cbW := max(1, plotH/20)
	cbGap := max(lay.margin, int(0.02*float64(c.width)))
	cbLabelW := c.widest(cbLabels, tickFontSize)
	valueH := c.measure(p.ValueLabel, axisFontSize).Height()
	right := cbGap + cbW + lay.tick + lay.pad + cbLabelW + lay.gap + valueH + lay.margin

	plotW := c.width - left - right
	if plotW < 1 {
		return lay, tooSmall(c, rows)
	}

	lay.plot = image.Rect(left, top, left+plotW, top+plotH)
	lay.colorbar = image.Rect(lay.plot.Max.X+cbGap, top, lay.plot.Max.X+cbGap+cbW, top+plotH)
	lay.valueLabelX = lay.colorbar.Max.X + lay.tick + lay.pad + cbLabelW + lay.gap + valueH

	for j := 0; j < cols; j += p.XTickInterval {
		lay.xTicks = append(lay.xTicks, j)
	}
	return lay, nil
}

func tooSmall(c *canvas, rows int) error {
	return errors.InvalidInput(fmt.Sprintf("a %dx%d pixel image is too small for the labels and %d rows", c.width, c.height, rows))
}

func validateRange(r scale.DisplayRange) error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return errors.InvalidInput(fmt.Sprintf("display range %s is not finite", r))
	}
	if r.Low > r.High {
		return errors.InvalidInput(fmt.Sprintf("display range %s is inverted", r))
	}
	return nil
}

// paintCells draws one pixel per cell and scales the result onto rect
func paintCells(dst *image.RGBA, rect image.Rectangle, set *table.SeriesSet, r scale.DisplayRange, cm *colormap.Colormap) {
	rows, cols := set.Len(), set.TimePoints()
	cells := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := set.At(i, j)
			if math.IsNaN(v) {
				cells.SetRGBA(j, i, missingColor)
				continue
			}
			cells.SetRGBA(j, i, cm.At(r.Fraction(v)))
		}
	}
	draw.NearestNeighbor.Scale(dst, rect, cells, cells.Bounds(), draw.Src, nil)
}

func rowCentre(rect image.Rectangle, i, rows int) int {
	return rect.Min.Y + int((float64(i)+0.5)*float64(rect.Dy())/float64(rows))
}

func columnCentre(rect image.Rectangle, j, cols int) int {
	return rect.Min.X + int((float64(j)+0.5)*float64(rect.Dx())/float64(cols))
}
