package scene

import (
	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.World // Spheres in the scene
	Camera         camera.Config   // AspectRatio is filled in from the image size
	SamplingConfig SamplingConfig
}

// SamplingConfig contains the recommended render settings for a scene
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Rays per pixel per frame
	MaxDepth        int // Maximum ray bounce depth
}

// defaultSamplingConfig matches the fixed 16:9 interactive setup
func defaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 1,
		MaxDepth:        50,
	}
}

// NewGroundSphere creates a huge sphere whose top touches y = top, standing in for a floor
func NewGroundSphere(top float32, mat material.Material) geometry.Sphere {
	const radius = 100
	return geometry.NewSphere(core.NewVec3(0, top-radius, -1), radius, mat)
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float32, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// SphereCount returns the number of spheres in the scene
func (s *Scene) SphereCount() int {
	return s.World.Len()
}

// CameraFor returns the scene camera adjusted to an image size
func (s *Scene) CameraFor(width, height int) camera.Config {
	cam := s.Camera
	if height > 0 {
		cam.AspectRatio = float32(width) / float32(height)
	}
	return cam
}
