package scene

import (
	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// NewDefaultScene creates the reference scene: a ground sphere, a diffuse
// centre sphere, a hollow glass sphere on the left, a fuzzy metal sphere on
// the right and a small mirror ball in front
func NewDefaultScene() *Scene {
	sampling := defaultSamplingConfig()

	s := &Scene{
		Name:           "default",
		World:          geometry.NewWorld(),
		Camera:         camera.Default(float32(sampling.Width) / float32(sampling.Height)),
		SamplingConfig: sampling,
	}

	// Create materials
	ground := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0))
	centre := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewGlass(core.NewVec3(1.0, 1.0, 1.0), 1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	mirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)

	s.World.Add(NewGroundSphere(-0.5, ground))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, centre)

	// Hollow glass: same centre, negative inner radius flips the normals
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)

	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)
	s.AddSphere(core.NewVec3(0.45, -0.35, -0.6), 0.15, mirror)

	return s
}
