package ports

import (
	"image"

	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/domain/table"
)

// HeatmapRendererPort draws the subject x time heatmap
type HeatmapRendererPort interface {
	RenderHeatmap(set *table.SeriesSet, r scale.DisplayRange, params plot.HeatmapParams) (image.Image, error)
}

// LegendRendererPort draws a standalone color scale for a range
type LegendRendererPort interface {
	RenderLegend(r scale.DisplayRange, params plot.LegendParams) (image.Image, error)
}

// ImageWriterPort persists a rendered image
type ImageWriterPort interface {
	// WriteImage stores img at path, tagged with the given resolution. Either
	// the whole file is written or none of it is.
	WriteImage(path string, img image.Image, dpi int) error
}
