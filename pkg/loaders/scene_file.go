package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"
)

// SceneFile is the on-disk description of a sphere scene
type SceneFile struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Group       string        `json:"group,omitempty"`
	Camera      *CameraDesc   `json:"camera,omitempty"`
	Sampling    *SamplingDesc `json:"sampling,omitempty"`
	Spheres     []SphereDesc  `json:"spheres"`
}

// CameraDesc positions the camera; angles are in degrees
type CameraDesc struct {
	Position    [3]float32 `json:"position"`
	Yaw         float32    `json:"yaw"`
	Pitch       float32    `json:"pitch"`
	VFov        float32    `json:"vfov"`
	FocalLength float32    `json:"focalLength"`
}

// SamplingDesc holds recommended render settings for the scene
type SamplingDesc struct {
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`
}

// SphereDesc is one sphere; a negative radius makes a hollow shell
type SphereDesc struct {
	Center   [3]float32   `json:"center"`
	Radius   float32      `json:"radius"`
	Material MaterialDesc `json:"material"`
}

// MaterialDesc selects a material by type name
type MaterialDesc struct {
	Type            string  `json:"type"` // "diffuse", "metal" or "glass"
	Albedo          Color   `json:"albedo"`
	Fuzz            float32 `json:"fuzz,omitempty"`
	RefractionIndex float32 `json:"refractionIndex,omitempty"`
}

// Color is an RGB triple in [0,1]. In JSON it is either an array of three
// numbers or an SVG color name such as "gold".
type Color [3]float32

func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		rgba, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		*c = Color{float32(rgba.R) / 255, float32(rgba.G) / 255, float32(rgba.B) / 255}
		return nil
	}

	var rgb [3]float32
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be a name or [r, g, b]: %w", err)
	}
	*c = Color(rgb)
	return nil
}

// ParseSceneFile decodes and validates a scene description
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var sf SceneFile
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to decode scene file: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// LoadSceneFile loads and parses a scene file from the scenes directory
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename, ".json"); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if sf.Name == "" {
		sf.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return sf, nil
}

// Validate checks the description for values the renderer cannot use
func (sf *SceneFile) Validate() error {
	if len(sf.Spheres) == 0 {
		return fmt.Errorf("scene has no spheres")
	}
	for i, s := range sf.Spheres {
		if s.Radius == 0 {
			return fmt.Errorf("sphere %d: radius must be non-zero", i)
		}
		switch strings.ToLower(s.Material.Type) {
		case "diffuse", "metal":
		case "glass":
			if s.Material.RefractionIndex <= 0 {
				return fmt.Errorf("sphere %d: glass needs a positive refractionIndex", i)
			}
		default:
			return fmt.Errorf("sphere %d: unknown material type %q", i, s.Material.Type)
		}
	}
	if sf.Sampling != nil {
		if sf.Sampling.SamplesPerPixel < 0 || sf.Sampling.MaxDepth < 0 {
			return fmt.Errorf("sampling values must not be negative")
		}
	}
	if sf.Camera != nil && (sf.Camera.VFov < 0 || sf.Camera.VFov >= 180) {
		return fmt.Errorf("camera vfov must be in [0, 180), got %f", sf.Camera.VFov)
	}
	return nil
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename, extension string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Clean the path to resolve . and .. components
	cleanPath := filepath.ToSlash(filepath.Clean(filename))

	// Only allow files in a scenes/ directory or the temp directory (for tests)
	inScenes := strings.HasPrefix(cleanPath, "scenes/") || strings.Contains(cleanPath, "/scenes/")
	inTemp := strings.HasPrefix(cleanPath, filepath.ToSlash(os.TempDir()))
	if !inScenes && !inTemp {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if strings.HasPrefix(cleanPath, "../") {
		return fmt.Errorf("invalid file path: directory traversal not allowed")
	}

	if !strings.HasSuffix(strings.ToLower(cleanPath), extension) {
		return fmt.Errorf("invalid file type: only %s files are allowed", extension)
	}

	// Check for extremely long paths that could cause issues
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
