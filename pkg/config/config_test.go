package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if !cfg.AveragingEnabled() {
		t.Error("Averaging should be enabled by default")
	}

	pc, err := cfg.WithSceneDefaults(1, 50).ProgressiveConfig()
	if err != nil {
		t.Fatalf("ProgressiveConfig failed: %v", err)
	}
	if pc != renderer.DefaultProgressiveConfig() {
		t.Errorf("Expected renderer defaults, got %+v", pc)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{"scene": "glass", "width": 64, "height": 32, "averaging": false, "texture": "half", "format": "tiff"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scene != "glass" || cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("Unexpected values %+v", cfg)
	}
	if cfg.AveragingEnabled() {
		t.Error("Expected averaging disabled")
	}
	// Fields missing from the file keep their defaults
	if cfg.Frames != 16 || cfg.LastFrameWeight != 1 || cfg.TileSize != renderer.DefaultTileSize || cfg.MaxDepth != 0 {
		t.Errorf("Expected defaults for unset fields, got %+v", cfg)
	}

	pc, err := cfg.ProgressiveConfig()
	if err != nil {
		t.Fatalf("ProgressiveConfig failed: %v", err)
	}
	if pc.Format != renderer.FormatRGBA16F || pc.Averaging {
		t.Errorf("Unexpected renderer config %+v", pc)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"width": `},
		{"unknown field", `{"widht": 100}`},
		{"negative size", `{"width": -1}`},
		{"bad texture", `{"texture": "rgb565"}`},
		{"bad format", `{"format": "gif"}`},
		{"bad weight", `{"lastFrameWeight": -2}`},
		{"bad fov", `{"vfov": 180}`},
		{"bad output", `{"output": "render.jpg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWithSceneDefaults(t *testing.T) {
	cfg := Default().WithSceneDefaults(4, 20)
	if cfg.SamplesPerPixel != 4 || cfg.MaxDepth != 20 {
		t.Errorf("Expected scene recommendation, got spp=%d depth=%d", cfg.SamplesPerPixel, cfg.MaxDepth)
	}

	cfg.SamplesPerPixel = 2
	cfg = cfg.WithSceneDefaults(8, 30)
	if cfg.SamplesPerPixel != 2 || cfg.MaxDepth != 20 {
		t.Errorf("Explicit values should win, got spp=%d depth=%d", cfg.SamplesPerPixel, cfg.MaxDepth)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		scene    string
		output   string
		expected string
	}{
		{"built-in scene", "default", "", filepath.Join("output", "default", "render_20240101_120000.png")},
		{"scene file id", "file:bubble", "", filepath.Join("output", "bubble", "render_20240101_120000.png")},
		{"scene file path", "scenes/bubble.json", "", filepath.Join("output", "bubble", "render_20240101_120000.png")},
		{"explicit output", "default", "out/final.bmp", "out/final.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Scene = tt.scene
			cfg.Output = tt.output
			if got := cfg.OutputPath("20240101_120000"); got != tt.expected {
				t.Errorf("OutputPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}
