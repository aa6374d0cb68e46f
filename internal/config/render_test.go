package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig()

	if cfg.ContourLevels == nil || *cfg.ContourLevels != 10 {
		t.Errorf("ContourLevels = %v, want 10", cfg.ContourLevels)
	}
	if cfg.MinResolution != nil {
		t.Errorf("MinResolution default = %v, want nil (no masking)", *cfg.MinResolution)
	}
	if cfg.ShowScatter == nil || *cfg.ShowScatter {
		t.Error("ShowScatter default should be false")
	}
}

func TestLoadRenderConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.json")
	data := `{"contour_levels": 20, "min_resolution": 0.7}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRenderConfig(path)
	if err != nil {
		t.Fatalf("LoadRenderConfig: %v", err)
	}

	if *cfg.ContourLevels != 20 {
		t.Errorf("ContourLevels = %d, want 20 (overridden)", *cfg.ContourLevels)
	}
	if cfg.MinResolution == nil || *cfg.MinResolution != 0.7 {
		t.Errorf("MinResolution = %v, want 0.7", cfg.MinResolution)
	}
	// omitted fields fall back to defaults
	if *cfg.FigureWidthInches != 8 {
		t.Errorf("FigureWidthInches = %v, want default 8", *cfg.FigureWidthInches)
	}
	if *cfg.PanelColumns != 3 {
		t.Errorf("PanelColumns = %v, want default 3", *cfg.PanelColumns)
	}
}

func TestLoadRenderConfigErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "render.yaml")
		os.WriteFile(path, []byte("{}"), 0644)
		if _, err := LoadRenderConfig(path); err == nil {
			t.Error("expected error for non-json extension")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadRenderConfig(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		os.WriteFile(path, []byte("{nope"), 0644)
		if _, err := LoadRenderConfig(path); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}
