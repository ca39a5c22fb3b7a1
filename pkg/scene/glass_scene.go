package scene

import (
	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// glassIndices are the refraction indices of the front row, left to right:
// water, crown glass, sapphire, diamond
var glassIndices = []float32{1.33, 1.5, 1.77, 2.42}

// NewGlassScene creates a row of glass spheres with increasing refraction
// index in front of colored diffuse balls, so the bending of each sphere is visible
func NewGlassScene() *Scene {
	sampling := defaultSamplingConfig()
	sampling.MaxDepth = 20 // Enough for a few internal bounces

	cam := camera.Default(float32(sampling.Width) / float32(sampling.Height))
	cam.Position = core.NewVec3(0, 0.4, 1.2)
	cam.Pitch = -12
	cam.VFov = 70

	s := &Scene{
		Name:           "glass",
		World:          geometry.NewWorld(),
		Camera:         cam,
		SamplingConfig: sampling,
	}

	s.World.Add(NewGroundSphere(-0.3, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))))

	// Background row for the glass to refract
	backdrop := []core.Vec3{
		core.NewVec3(0.8, 0.1, 0.1),
		core.NewVec3(0.1, 0.7, 0.2),
		core.NewVec3(0.1, 0.2, 0.8),
		core.NewVec3(0.8, 0.7, 0.1),
	}

	spacing := float32(0.65)
	offset := spacing * float32(len(glassIndices)-1) / 2
	for i, ior := range glassIndices {
		x := float32(i)*spacing - offset
		glass := material.NewGlass(core.NewVec3(1, 1, 1), ior)

		s.AddSphere(core.NewVec3(x, 0, -1), 0.3, glass)
		// Every other sphere is hollow
		if i%2 == 1 {
			s.AddSphere(core.NewVec3(x, 0, -1), -0.27, glass)
		}

		s.AddSphere(core.NewVec3(x+spacing/2, -0.1, -2.2), 0.2, material.NewDiffuse(backdrop[i]))
	}

	return s
}
