// Package config holds the rendering defaults for the heatmap tool and the
// layered loading of them from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"zheatmap/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Render RenderConfig `yaml:"render"`
	Input  InputConfig  `yaml:"input"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig holds image settings shared by the heatmap and the legends
type RenderConfig struct {
	// Colormap is the color map name, e.g. YlOrRd or viridis_r
	Colormap string `yaml:"cmap"`

	// Width and Height are the heatmap dimensions in inches
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// DPI is the output resolution in dots per inch
	DPI int `yaml:"dpi"`

	// XTickInterval draws every Nth time point label
	XTickInterval int `yaml:"xtick_interval"`

	XLabel     string `yaml:"xlabel"`
	YLabel     string `yaml:"ylabel"`
	ValueLabel string `yaml:"value_label"`
}

// InputConfig describes how subject columns are found in the table
type InputConfig struct {
	// TimeColumn is informational only; it is reported when missing
	TimeColumn string `yaml:"time_column"`

	// SubjectPrefix selects the columns drawn as heatmap rows
	SubjectPrefix string `yaml:"subject_prefix"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Colormap:      "YlOrRd",
			Width:         20,
			Height:        6,
			DPI:           300,
			XTickInterval: 500,
			XLabel:        "Time Point Index",
			YLabel:        "Mouse ID",
			ValueLabel:    "Z-score",
		},
		Input: InputConfig{
			TimeColumn:    "Time (s)",
			SubjectPrefix: "Mouse",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment variables.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, errors.Wrap(err, "failed to read configuration from environment")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ConfigInvalid(fmt.Sprintf("config file not found: %s", path))
		}
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to parse config file %s: %w", path, err))
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Render.Colormap = getEnvOrDefault("HEATMAP_CMAP", c.Render.Colormap)
	if c.Render.Width, err = getEnvFloatOrDefault("HEATMAP_WIDTH", c.Render.Width); err != nil {
		return err
	}
	if c.Render.Height, err = getEnvFloatOrDefault("HEATMAP_HEIGHT", c.Render.Height); err != nil {
		return err
	}
	if c.Render.DPI, err = getEnvIntOrDefault("HEATMAP_DPI", c.Render.DPI); err != nil {
		return err
	}
	if c.Render.XTickInterval, err = getEnvIntOrDefault("HEATMAP_XTICK_INTERVAL", c.Render.XTickInterval); err != nil {
		return err
	}
	c.Input.SubjectPrefix = getEnvOrDefault("HEATMAP_SUBJECT_PREFIX", c.Input.SubjectPrefix)
	c.Input.TimeColumn = getEnvOrDefault("HEATMAP_TIME_COLUMN", c.Input.TimeColumn)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	return nil
}

// Validate rejects settings that cannot produce an image
func (c *Config) Validate() error {
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("image size must be positive, got %gx%g inches", r.Width, r.Height))
	}
	if r.DPI <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("dpi must be positive, got %d", r.DPI))
	}
	if r.XTickInterval <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("xtick interval must be positive, got %d", r.XTickInterval))
	}
	if strings.TrimSpace(r.Colormap) == "" {
		return errors.ConfigInvalid("colormap name is required")
	}
	return nil
}

// Helper functions for environment variable parsing. Unlike plain defaults,
// malformed numbers are reported instead of silently ignored.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}
