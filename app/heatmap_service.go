package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zheatmap/domain/core"
	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/domain/table"
	"zheatmap/internal"
	"zheatmap/internal/colormap"
	"zheatmap/internal/errors"
	"zheatmap/ports"
)

// HeatmapRequest describes one heatmap run. An empty OutputPath means
// DefaultOutputPath(InputPath).
type HeatmapRequest struct {
	InputPath  string
	OutputPath string

	Title      string
	XLabel     string
	YLabel     string
	ValueLabel string

	Bounds        scale.Bounds
	Colormap      string
	WidthInches   float64
	HeightInches  float64
	DPI           int
	XTickInterval int

	TimeColumn    string
	SubjectPrefix string

	// Colorbar also writes a vertical and a horizontal legend image
	Colorbar bool
}

// Validate checks the request before any file is read
func (r HeatmapRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.InputPath) == "":
		return errors.InvalidInput("an input file is required")
	case r.SubjectPrefix == "":
		return errors.InvalidInput("subject column prefix must not be empty")
	case r.WidthInches <= 0 || r.HeightInches <= 0:
		return errors.InvalidInput(fmt.Sprintf("figure size must be positive, got %gx%g", r.WidthInches, r.HeightInches))
	case r.DPI <= 0:
		return errors.InvalidInput(fmt.Sprintf("dpi must be positive, got %d", r.DPI))
	case r.XTickInterval <= 0:
		return errors.InvalidInput(fmt.Sprintf("x tick interval must be positive, got %d", r.XTickInterval))
	}
	if _, err := colormap.Lookup(r.Colormap); err != nil {
		return err
	}
	return nil
}

// HeatmapResult reports what a run produced
type HeatmapResult struct {
	RunID       core.RunID
	OutputPath  string
	LegendPaths []string
	Title       string
	Range       scale.DisplayRange
	Subjects    []string
	TimePoints  int
}

// HeatmapService runs the load -> select -> resolve -> render -> write pipeline
type HeatmapService struct {
	loader   ports.TableLoaderPort
	heatmaps ports.HeatmapRendererPort
	legends  ports.LegendRendererPort
	writer   ports.ImageWriterPort
	logger   *internal.Logger
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(
	loader ports.TableLoaderPort,
	heatmaps ports.HeatmapRendererPort,
	legends ports.LegendRendererPort,
	writer ports.ImageWriterPort,
	logger *internal.Logger,
) *HeatmapService {
	return &HeatmapService{
		loader:   loader,
		heatmaps: heatmaps,
		legends:  legends,
		writer:   writer,
		logger:   logger,
	}
}

// Run executes the pipeline once. Nothing is written unless every step up
// to rendering succeeds.
func (s *HeatmapService) Run(ctx context.Context, req HeatmapRequest) (*HeatmapResult, error) {
	runID := core.NewRunID()
	log := s.logger.With("run", runID.String())

	if _, err := os.Stat(req.InputPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.InputNotFound(req.InputPath)
		}
		return nil, errors.Wrapf(err, "cannot access %s", req.InputPath)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	output := req.OutputPath
	if output == "" {
		output = DefaultOutputPath(req.InputPath)
	}

	log.Info("Reading data from %s", req.InputPath)
	tbl, err := s.loader.Load(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}
	log.Info("Columns: %s", strings.Join(tbl.ColumnNames(), ", "))
	log.Info("Data shape: %d rows x %d columns", tbl.NumRows(), tbl.NumColumns())
	if req.TimeColumn != "" && !tbl.HasColumn(req.TimeColumn) {
		log.Warn("time column %q not found; column labels are time point indices", req.TimeColumn)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := table.SelectByPrefix(tbl, req.SubjectPrefix)
	if err != nil {
		return nil, err
	}
	log.Info("Found %d %s columns", set.Len(), req.SubjectPrefix)
	log.Debug("Subjects: %s", strings.Join(set.Names(), ", "))

	res, err := scale.Resolve(set, req.Bounds)
	if err != nil {
		return nil, err
	}
	if !res.LowExplicit {
		log.Info("Auto-calculated vmin: %.4f", res.Range.Low)
	}
	if !res.HighExplicit {
		log.Info("Auto-calculated vmax: %.4f", res.Range.High)
	}
	for _, w := range res.Warnings() {
		log.Warn("%s", w)
	}
	log.Info("Display range: %s", res.Range)

	title := req.Title
	if title == "" {
		title = plot.DefaultTitle(set.Len())
	}
	params := plot.HeatmapParams{
		Title:         title,
		XLabel:        req.XLabel,
		YLabel:        req.YLabel,
		ValueLabel:    req.ValueLabel,
		Colormap:      req.Colormap,
		WidthInches:   req.WidthInches,
		HeightInches:  req.HeightInches,
		DPI:           req.DPI,
		XTickInterval: req.XTickInterval,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.heatmaps.RenderHeatmap(set, res.Range, params)
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteImage(output, img, req.DPI); err != nil {
		return nil, err
	}
	log.Info("Heatmap saved to %s", output)

	result := &HeatmapResult{
		RunID:      runID,
		OutputPath: output,
		Title:      title,
		Range:      res.Range,
		Subjects:   set.Names(),
		TimePoints: set.TimePoints(),
	}

	if !req.Colorbar {
		return result, nil
	}

	vertical, horizontal := LegendPaths(output)
	legends := []struct {
		orientation plot.Orientation
		path        string
	}{
		{plot.Vertical, vertical},
		{plot.Horizontal, horizontal},
	}
	for _, l := range legends {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		img, err := s.legends.RenderLegend(res.Range, plot.LegendParams{
			Colormap:    req.Colormap,
			Orientation: l.orientation,
			Label:       req.ValueLabel,
			DPI:         req.DPI,
		})
		if err != nil {
			return result, err
		}
		if err := s.writer.WriteImage(l.path, img, req.DPI); err != nil {
			return result, err
		}
		result.LegendPaths = append(result.LegendPaths, l.path)
		log.Info("Colorbar saved to %s", l.path)
	}
	return result, nil
}

// DefaultOutputPath is "<input stem>_heatmap.png" in the working directory
func DefaultOutputPath(input string) string {
	return stem(input) + "_heatmap.png"
}

// LegendPaths returns the vertical and horizontal legend paths for a heatmap
// written to output. Legends are placed next to the heatmap.
func LegendPaths(output string) (vertical, horizontal string) {
	dir, base := filepath.Dir(output), stem(output)
	return filepath.Join(dir, base+"_colorbar_vertical.png"), filepath.Join(dir, base+"_colorbar_horizontal.png")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
