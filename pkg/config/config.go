package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-realtime-pathtracer/pkg/loaders"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
)

// RenderConfig holds every setting of a render session.
// Zero values in a loaded file keep the defaults.
type RenderConfig struct {
	Scene           string  `json:"scene"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Frames          int     `json:"frames"` // 0 renders until interrupted
	SamplesPerPixel int     `json:"samplesPerPixel"` // 0 uses the scene's recommendation
	MaxDepth        int     `json:"maxDepth"`        // 0 uses the scene's recommendation
	Averaging       *bool   `json:"averaging,omitempty"`
	LastFrameWeight float32 `json:"lastFrameWeight"`
	Texture         string  `json:"texture"` // rgba8, rgba16f or rgba32f
	Format          string  `json:"format"`  // png, bmp or tiff
	VFov            float32 `json:"vfov"`    // 0 keeps the scene camera
	TileSize        int     `json:"tileSize"`
	Workers         int     `json:"workers"` // 0 uses one worker per CPU
	Resume          string  `json:"resume,omitempty"`
	Output          string  `json:"output,omitempty"`
}

// Default returns the settings of the interactive reference setup
func Default() RenderConfig {
	averaging := true
	return RenderConfig{
		Scene:           "default",
		Width:           400,
		Height:          225,
		Frames:          16,
		Averaging:       &averaging,
		LastFrameWeight: 1,
		Texture:         renderer.FormatRGBA32F.String(),
		Format:          "png",
		TileSize:        renderer.DefaultTileSize,
	}
}

// Load reads a JSON config file on top of the defaults
func Load(path string) (RenderConfig, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot run with
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.SamplesPerPixel < 0 {
		return fmt.Errorf("samples per pixel must not be negative, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.LastFrameWeight <= 0 {
		return fmt.Errorf("last frame weight must be positive, got %g", c.LastFrameWeight)
	}
	if _, err := renderer.ParseFormat(c.Texture); err != nil {
		return err
	}
	if !isImageFormat(c.Format) {
		return fmt.Errorf("unsupported output format %q (expected one of %s)", c.Format, strings.Join(loaders.ImageFormats, ", "))
	}
	if c.VFov < 0 || c.VFov >= 180 {
		return fmt.Errorf("vertical fov must be in [0, 180), got %g", c.VFov)
	}
	if c.TileSize < 0 || c.Workers < 0 {
		return fmt.Errorf("tile size and workers must not be negative")
	}
	if c.Output != "" {
		if _, err := loaders.FormatFromPath(c.Output); err != nil {
			return err
		}
	}
	return nil
}

// WithSceneDefaults fills unset sampling values from a scene's recommendation
func (c RenderConfig) WithSceneDefaults(samplesPerPixel, maxDepth int) RenderConfig {
	if c.SamplesPerPixel == 0 {
		c.SamplesPerPixel = samplesPerPixel
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = maxDepth
	}
	return c
}

// AveragingEnabled reports whether frames are blended; unset means enabled
func (c RenderConfig) AveragingEnabled() bool {
	return c.Averaging == nil || *c.Averaging
}

// ProgressiveConfig converts the settings into renderer options
func (c RenderConfig) ProgressiveConfig() (renderer.ProgressiveConfig, error) {
	format, err := renderer.ParseFormat(c.Texture)
	if err != nil {
		return renderer.ProgressiveConfig{}, err
	}
	return renderer.ProgressiveConfig{
		TileSize:        c.TileSize,
		NumWorkers:      c.Workers,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		Averaging:       c.AveragingEnabled(),
		LastFrameWeight: c.LastFrameWeight,
		Format:          format,
	}, nil
}

// OutputPath returns the explicit output file, or
// output/<scene>/render_<timestamp>.<format> when none was given
func (c RenderConfig) OutputPath(timestamp string) string {
	if c.Output != "" {
		return c.Output
	}
	name := strings.TrimSuffix(filepath.Base(c.Scene), filepath.Ext(c.Scene))
	name = strings.TrimPrefix(name, "file:")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", timestamp, c.Format))
}

func isImageFormat(format string) bool {
	for _, f := range loaders.ImageFormats {
		if f == format {
			return true
		}
	}
	return false
}
