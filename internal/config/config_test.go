package config

import (
	"os"
	"path/filepath"
	"testing"

	"zheatmap/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HEATMAP_CMAP", "HEATMAP_WIDTH", "HEATMAP_HEIGHT", "HEATMAP_DPI",
		"HEATMAP_XTICK_INTERVAL", "HEATMAP_SUBJECT_PREFIX", "HEATMAP_TIME_COLUMN", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "YlOrRd", cfg.Render.Colormap)
	assert.Equal(t, 20.0, cfg.Render.Width)
	assert.Equal(t, 6.0, cfg.Render.Height)
	assert.Equal(t, 300, cfg.Render.DPI)
	assert.Equal(t, 500, cfg.Render.XTickInterval)
	assert.Equal(t, "Mouse", cfg.Input.SubjectPrefix)
	assert.Equal(t, "Time (s)", cfg.Input.TimeColumn)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "heatmap.yaml")
	content := `render:
  cmap: viridis
  dpi: 150
  xtick_interval: 100
input:
  subject_prefix: Rat
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("HEATMAP_DPI", "72")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "viridis", cfg.Render.Colormap)
	assert.Equal(t, 72, cfg.Render.DPI, "environment wins over the file")
	assert.Equal(t, 100, cfg.Render.XTickInterval)
	assert.Equal(t, "Rat", cfg.Input.SubjectPrefix)
	assert.Equal(t, 20.0, cfg.Render.Width, "unset keys keep their defaults")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		file  string
		write bool
	}{
		{name: "malformed env int", env: map[string]string{"HEATMAP_DPI": "high"}},
		{name: "malformed env float", env: map[string]string{"HEATMAP_WIDTH": "wide"}},
		{name: "zero stride", env: map[string]string{"HEATMAP_XTICK_INTERVAL": "0"}},
		{name: "negative height", env: map[string]string{"HEATMAP_HEIGHT": "-1"}},
		{name: "bad yaml", file: "render: [unclosed", write: true},
		{name: "missing file", file: "missing.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "cfg.yaml")
				if tt.write {
					require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o644))
				}
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
