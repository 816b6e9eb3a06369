package render

import (
	"image"

	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/internal/colormap"

	chart "github.com/wcharczuk/go-chart/v2"
)

// paintGradient fills rect with the full color map, low end at the bottom
// (vertical) or on the left (horizontal)
func paintGradient(dst *image.RGBA, rect image.Rectangle, cm *colormap.Colormap, o plot.Orientation) {
	if o == plot.Horizontal {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			col := cm.At(gradientFraction(x-rect.Min.X, rect.Dx()))
			for y := rect.Min.Y; y < rect.Max.Y; y++ {
				dst.SetRGBA(x, y, col)
			}
		}
		return
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		col := cm.At(gradientFraction(rect.Max.Y-1-y, rect.Dy()))
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.SetRGBA(x, y, col)
		}
	}
}

// gradientFraction maps pixel i of n so both end pixels show the end colors
func gradientFraction(i, n int) float64 {
	if n < 2 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

// tickOffset is the pixel position of value along a bar of the given length,
// measured from the low end
func tickOffset(r scale.DisplayRange, value float64, length int) int {
	return int(r.Fraction(value)*float64(length-1) + 0.5)
}

// colorbarTickY maps each tick to its row on a vertical bar
func colorbarTickY(rect image.Rectangle, r scale.DisplayRange, ticks []chart.Tick) []int {
	ys := make([]int, len(ticks))
	for i, t := range ticks {
		ys[i] = rect.Max.Y - 1 - tickOffset(r, t.Value, rect.Dy())
	}
	return ys
}

// colorbarTickX maps each tick to its column on a horizontal bar
func colorbarTickX(rect image.Rectangle, r scale.DisplayRange, ticks []chart.Tick) []int {
	xs := make([]int, len(ticks))
	for i, t := range ticks {
		xs[i] = rect.Min.X + tickOffset(r, t.Value, rect.Dx())
	}
	return xs
}
