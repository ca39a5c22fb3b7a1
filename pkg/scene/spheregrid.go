package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0,1]
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float32) core.Vec3 {
	hRad := mgl32.DegToRad(h)

	// OKLCH to OKLAB
	a := c * math32.Cos(hRad)
	b := c * math32.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// DefaultGridSize is the number of spheres along each side of the grid
const DefaultGridSize = 8

// NewSphereGridScene creates a gridSize x gridSize grid of metal spheres whose
// hue varies along x and chroma along z
func NewSphereGridScene(gridSize int) *Scene {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}

	sampling := defaultSamplingConfig()
	sampling.MaxDepth = 40 // Metal-to-metal reflections

	cam := camera.Default(float32(sampling.Width) / float32(sampling.Height))
	cam.Position = core.NewVec3(0, 2.2, 3.5)
	cam.Pitch = -21
	cam.VFov = 60

	s := &Scene{
		Name:           "sphere-grid",
		World:          geometry.NewWorld(),
		Camera:         cam,
		SamplingConfig: sampling,
	}

	s.World.Add(NewGroundSphere(0, material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))))

	// The grid always fits in the same 4x4 footprint centred on (0, -1)
	const targetArea = 4.0
	spacing := float32(targetArea)
	if gridSize > 1 {
		spacing = targetArea / float32(gridSize-1)
	}
	radius := mgl32.Clamp(spacing*0.35, 0.02, 0.35)

	const (
		baseLightness = 0.65
		minChroma     = 0.05
		maxChroma     = 0.25
	)

	denom := float32(max(gridSize-1, 1))
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float32(i)*spacing - targetArea/2
			z := float32(j)*spacing - targetArea/2 - 1

			hue := float32(i) / denom * 360
			chroma := minChroma + float32(j)/denom*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math32.Sin(float32(i+j)*0.5)

			fuzz := 0.05 + 0.05*float32((i+j)%3)
			s.AddSphere(core.NewVec3(x, radius, z), radius, material.NewMetal(oklchToRGB(lightness, chroma, hue), fuzz))
		}
	}

	return s
}
