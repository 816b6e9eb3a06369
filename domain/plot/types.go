package plot

import "fmt"

// Orientation is the direction a standalone legend's gradient runs
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// ParseOrientation accepts "vertical" or "horizontal"
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Vertical, Horizontal:
		return Orientation(s), nil
	}
	return "", fmt.Errorf("orientation must be %q or %q, got %q", Vertical, Horizontal, s)
}

// HeatmapParams controls how the main heatmap image is drawn
type HeatmapParams struct {
	Title      string
	XLabel     string
	YLabel     string
	ValueLabel string
	Colormap   string

	// WidthInches and HeightInches are multiplied by DPI to get pixels
	WidthInches  float64
	HeightInches float64
	DPI          int

	// XTickInterval draws a label on every Nth time point
	XTickInterval int
}

// DefaultTitle is used when no title is supplied
func DefaultTitle(subjects int) string {
	return fmt.Sprintf("Z-score Heatmap (n=%d)", subjects)
}

// PixelSize returns the image size in pixels
func (p HeatmapParams) PixelSize() (int, int) {
	return inchesToPixels(p.WidthInches, p.DPI), inchesToPixels(p.HeightInches, p.DPI)
}

// LegendParams controls a standalone color-scale image
type LegendParams struct {
	Colormap    string
	Orientation Orientation
	Label       string
	DPI         int
}

// Legend images are 2x8 inches upright and 8x2 inches lying down.
const (
	legendLong  = 8.0
	legendShort = 2.0
)

// PixelSize returns the legend image size in pixels for its orientation
func (p LegendParams) PixelSize() (int, int) {
	long, short := inchesToPixels(legendLong, p.DPI), inchesToPixels(legendShort, p.DPI)
	if p.Orientation == Horizontal {
		return long, short
	}
	return short, long
}

func inchesToPixels(inches float64, dpi int) int {
	return int(inches*float64(dpi) + 0.5)
}
