package app

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"zheatmap/adapters/render"
	"zheatmap/adapters/tabular"
	"zheatmap/domain/plot"
	"zheatmap/domain/scale"
	"zheatmap/domain/table"
	"zheatmap/internal"
	"zheatmap/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTableLoader struct {
	mock.Mock
}

func (m *MockTableLoader) Load(ctx context.Context, path string) (*table.Table, error) {
	args := m.Called(ctx, path)
	tbl, _ := args.Get(0).(*table.Table)
	return tbl, args.Error(1)
}

type MockHeatmapRenderer struct {
	mock.Mock
}

func (m *MockHeatmapRenderer) RenderHeatmap(set *table.SeriesSet, r scale.DisplayRange, params plot.HeatmapParams) (image.Image, error) {
	args := m.Called(set, r, params)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

type MockLegendRenderer struct {
	mock.Mock
}

func (m *MockLegendRenderer) RenderLegend(r scale.DisplayRange, params plot.LegendParams) (image.Image, error) {
	args := m.Called(r, params)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

type MockImageWriter struct {
	mock.Mock
}

func (m *MockImageWriter) WriteImage(path string, img image.Image, dpi int) error {
	args := m.Called(path, img, dpi)
	return args.Error(0)
}

type mocks struct {
	loader   *MockTableLoader
	heatmaps *MockHeatmapRenderer
	legends  *MockLegendRenderer
	writer   *MockImageWriter
}

func newMockedService() (*HeatmapService, mocks) {
	m := mocks{
		loader:   new(MockTableLoader),
		heatmaps: new(MockHeatmapRenderer),
		legends:  new(MockLegendRenderer),
		writer:   new(MockImageWriter),
	}
	return NewHeatmapService(m.loader, m.heatmaps, m.legends, m.writer, internal.NewNopLogger()), m
}

func scenarioTable(t *testing.T) *table.Table {
	t.Helper()
	nums := func(vs ...float64) []table.Cell {
		cells := make([]table.Cell, len(vs))
		for i, v := range vs {
			cells[i] = table.NumericCell(v)
		}
		return cells
	}
	tbl, err := table.New([]table.Column{
		{Name: "Time (s)", Cells: nums(0, 1, 2)},
		{Name: "Mouse1", Cells: nums(1, 0.5, 0)},
		{Name: "Mouse2", Cells: nums(-1, -0.5, 0)},
	})
	require.NoError(t, err)
	return tbl
}

// inputFile creates a file so the existence check passes; its content is
// only read by the real loader.
func inputFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func baseRequest(input string) HeatmapRequest {
	return HeatmapRequest{
		InputPath:     input,
		OutputPath:    filepath.Join(filepath.Dir(input), "out.png"),
		XLabel:        "Time Point Index",
		YLabel:        "Mouse ID",
		ValueLabel:    "Z-score",
		Colormap:      "YlOrRd",
		WidthInches:   20,
		HeightInches:  6,
		DPI:           300,
		XTickInterval: 500,
		TimeColumn:    "Time (s)",
		SubjectPrefix: "Mouse",
	}
}

func TestRunScenario(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)
	m.heatmaps.On("RenderHeatmap",
		mock.MatchedBy(func(set *table.SeriesSet) bool {
			return set.Len() == 2 && set.TimePoints() == 3
		}),
		scale.DisplayRange{Low: -1, High: 1},
		mock.MatchedBy(func(p plot.HeatmapParams) bool {
			return p.Title == "Z-score Heatmap (n=2)" && p.DPI == 300 && p.XTickInterval == 500
		}),
	).Return(img, nil)
	m.writer.On("WriteImage", req.OutputPath, img, 300).Return(nil)

	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.OutputPath, result.OutputPath)
	assert.Equal(t, "Z-score Heatmap (n=2)", result.Title)
	assert.Equal(t, scale.DisplayRange{Low: -1, High: 1}, result.Range)
	assert.Equal(t, []string{"Mouse1", "Mouse2"}, result.Subjects)
	assert.Equal(t, 3, result.TimePoints)
	assert.Empty(t, result.LegendPaths)
	assert.NotEmpty(t, result.RunID.String())

	m.loader.AssertExpectations(t)
	m.heatmaps.AssertExpectations(t)
	m.writer.AssertExpectations(t)
	m.legends.AssertNotCalled(t, "RenderLegend", mock.Anything, mock.Anything)
}

func TestRunExplicitBoundsAndLegends(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	req.Bounds = scale.Explicit(-2, 2)
	req.Colorbar = true
	req.Title = "Custom"

	want := scale.DisplayRange{Low: -2, High: 2}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	vertical, horizontal := LegendPaths(req.OutputPath)

	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)
	m.heatmaps.On("RenderHeatmap", mock.Anything, want, mock.MatchedBy(func(p plot.HeatmapParams) bool {
		return p.Title == "Custom"
	})).Return(img, nil)
	m.legends.On("RenderLegend", want, mock.MatchedBy(func(p plot.LegendParams) bool {
		return p.Orientation == plot.Vertical && p.Label == "Z-score" && p.Colormap == "YlOrRd"
	})).Return(img, nil).Once()
	m.legends.On("RenderLegend", want, mock.MatchedBy(func(p plot.LegendParams) bool {
		return p.Orientation == plot.Horizontal
	})).Return(img, nil).Once()
	m.writer.On("WriteImage", mock.Anything, img, 300).Return(nil)

	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want, result.Range)
	assert.Equal(t, []string{vertical, horizontal}, result.LegendPaths)

	m.legends.AssertExpectations(t)
	m.writer.AssertCalled(t, "WriteImage", req.OutputPath, img, 300)
	m.writer.AssertCalled(t, "WriteImage", vertical, img, 300)
	m.writer.AssertCalled(t, "WriteImage", horizontal, img, 300)
	m.writer.AssertNumberOfCalls(t, "WriteImage", 3)
}

func TestRunMissingInput(t *testing.T) {
	svc, m := newMockedService()
	missing := filepath.Join(t.TempDir(), "absent.csv")

	_, err := svc.Run(context.Background(), baseRequest(missing))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInputNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), missing)

	m.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	m.writer.AssertNotCalled(t, "WriteImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunNoMatchingColumnsWritesNothing(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	req.SubjectPrefix = "Rat"

	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)

	_, err := svc.Run(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoMatchingColumns, errors.GetCode(err))

	m.heatmaps.AssertNotCalled(t, "RenderHeatmap", mock.Anything, mock.Anything, mock.Anything)
	m.writer.AssertNotCalled(t, "WriteImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*HeatmapRequest)
	}{
		{"unknown color map", func(r *HeatmapRequest) { r.Colormap = "nope" }},
		{"zero dpi", func(r *HeatmapRequest) { r.DPI = 0 }},
		{"negative width", func(r *HeatmapRequest) { r.WidthInches = -1 }},
		{"zero stride", func(r *HeatmapRequest) { r.XTickInterval = 0 }},
		{"empty prefix", func(r *HeatmapRequest) { r.SubjectPrefix = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newMockedService()
			req := baseRequest(inputFile(t, "unused"))
			tt.modify(&req)

			_, err := svc.Run(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
			m.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
		})
	}
}

func TestRunInvertedBounds(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	req.Bounds = scale.Explicit(3, -3)
	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)

	_, err := svc.Run(context.Background(), req)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	m.writer.AssertNotCalled(t, "WriteImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPropagatesWriteFailure(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)
	m.heatmaps.On("RenderHeatmap", mock.Anything, mock.Anything, mock.Anything).Return(img, nil)
	m.writer.On("WriteImage", req.OutputPath, img, 300).Return(errors.IOError(req.OutputPath, os.ErrPermission))

	_, err := svc.Run(context.Background(), req)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}

func TestRunCancelled(t *testing.T) {
	svc, m := newMockedService()
	req := baseRequest(inputFile(t, "unused"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.loader.On("Load", mock.Anything, req.InputPath).Return(scenarioTable(t), nil)

	_, err := svc.Run(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
	m.heatmaps.AssertNotCalled(t, "RenderHeatmap", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunEndToEnd(t *testing.T) {
	logger := internal.NewNopLogger()
	svc := NewHeatmapService(
		tabular.NewReader(logger),
		render.NewHeatmapRenderer(),
		render.NewLegendRenderer(),
		render.NewPNGWriter(logger),
		logger,
	)

	input := inputFile(t, "Time (s),Mouse1,Mouse2\n0,1,-1\n1,0.5,-0.5\n2,0,0\n")
	req := baseRequest(input)
	req.WidthInches, req.HeightInches, req.DPI = 4, 2, 72
	req.Colorbar = true

	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, scale.DisplayRange{Low: -1, High: 1}, result.Range)

	for _, path := range append([]string{result.OutputPath}, result.LegendPaths...) {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Len(t, result.LegendPaths, 2)
}

func TestOutputPaths(t *testing.T) {
	assert.Equal(t, "data_heatmap.png", DefaultOutputPath("/tmp/in/data.csv"))
	assert.Equal(t, "archive.tar_heatmap.png", DefaultOutputPath("archive.tar.gz"))

	vertical, horizontal := LegendPaths(filepath.Join("plots", "run1.png"))
	assert.Equal(t, filepath.Join("plots", "run1_colorbar_vertical.png"), vertical)
	assert.Equal(t, filepath.Join("plots", "run1_colorbar_horizontal.png"), horizontal)
}
