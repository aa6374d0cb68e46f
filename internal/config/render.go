// Package config loads render settings from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RenderConfig holds figure styling parameters. All fields are
// pointers so a partial JSON file only overrides what it names;
// omitted fields keep their defaults.
type RenderConfig struct {
	// Contour params
	ContourLevels    *int `json:"contour_levels,omitempty"`
	PaletteDivisions *int `json:"palette_divisions,omitempty"`

	// Figure layout
	FigureWidthInches  *float64 `json:"figure_width_inches,omitempty"`
	FigureHeightInches *float64 `json:"figure_height_inches,omitempty"`
	PanelColumns       *int     `json:"panel_columns,omitempty"`

	// Overlay params
	ShowScatter   *bool    `json:"show_scatter,omitempty"`
	ScatterRadius *float64 `json:"scatter_radius,omitempty"`

	// Masking
	MinResolution *float64 `json:"min_resolution,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultRenderConfig returns the built-in defaults used when no
// config file is provided.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		ContourLevels:      ptrInt(10),
		PaletteDivisions:   ptrInt(255),
		FigureWidthInches:  ptrFloat64(8),
		FigureHeightInches: ptrFloat64(6),
		PanelColumns:       ptrInt(3),
		ShowScatter:        ptrBool(false),
		ScatterRadius:      ptrFloat64(1.5),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file and fills
// omitted fields from the defaults, so partial configs are safe.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RenderConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills any nil field from DefaultRenderConfig.
func (c *RenderConfig) ApplyDefaults() {
	d := DefaultRenderConfig()
	if c.ContourLevels == nil {
		c.ContourLevels = d.ContourLevels
	}
	if c.PaletteDivisions == nil {
		c.PaletteDivisions = d.PaletteDivisions
	}
	if c.FigureWidthInches == nil {
		c.FigureWidthInches = d.FigureWidthInches
	}
	if c.FigureHeightInches == nil {
		c.FigureHeightInches = d.FigureHeightInches
	}
	if c.PanelColumns == nil {
		c.PanelColumns = d.PanelColumns
	}
	if c.ShowScatter == nil {
		c.ShowScatter = d.ShowScatter
	}
	if c.ScatterRadius == nil {
		c.ScatterRadius = d.ScatterRadius
	}
	// MinResolution stays nil unless configured: nil means no masking.
}
