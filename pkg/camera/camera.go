package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// maxPitch keeps the look direction away from the world up axis
const maxPitch = 89.0

var worldUp = mgl32.Vec3{0, 1, 0}

// Basis is the precomputed camera frame consumed by the pixel sampler
type Basis struct {
	Origin          core.Vec3
	Horizontal      core.Vec3 // full viewport width along camera right
	Vertical        core.Vec3 // full viewport height along camera up
	LowerLeftCorner core.Vec3
}

// Viewport holds the scalar viewport parameters the basis was built from
type Viewport struct {
	AspectRatio float32
	Height      float32
	Width       float32
	FocalLength float32
}

// Config describes a camera by position and orientation.
// Yaw, Pitch and VFov are in degrees; yaw 0 and pitch 0 look down -Z.
type Config struct {
	Position    core.Vec3 `json:"position"`
	Yaw         float32   `json:"yaw"`
	Pitch       float32   `json:"pitch"`
	VFov        float32   `json:"vfov"`
	AspectRatio float32   `json:"aspectRatio"`
	FocalLength float32   `json:"focalLength"`
}

// Default returns the fixed camera at the origin with a viewport height of 2
// one unit in front of it
func Default(aspectRatio float32) Config {
	return Config{
		Position:    core.Vec3{},
		VFov:        90,
		AspectRatio: aspectRatio,
		FocalLength: 1,
	}
}

// Viewport returns the viewport dimensions at the focal plane
func (c Config) Viewport() Viewport {
	theta := mgl32.DegToRad(c.VFov)
	height := 2 * math32.Tan(theta/2) * c.FocalLength
	return Viewport{
		AspectRatio: c.AspectRatio,
		Height:      height,
		Width:       c.AspectRatio * height,
		FocalLength: c.FocalLength,
	}
}

// Forward returns the unit look direction
func (c Config) Forward() core.Vec3 {
	return fromMgl(c.forward())
}

func (c Config) forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(mgl32.Clamp(c.Pitch, -maxPitch, maxPitch))

	return mgl32.Vec3{
		math32.Cos(pitch) * math32.Sin(yaw),
		math32.Sin(pitch),
		-math32.Cos(pitch) * math32.Cos(yaw),
	}.Normalize()
}

// Basis builds the camera frame from the configuration
func (c Config) Basis() Basis {
	viewport := c.Viewport()

	forward := c.forward()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	origin := toMgl(c.Position)
	horizontal := right.Mul(viewport.Width)
	vertical := up.Mul(viewport.Height)
	lowerLeft := origin.
		Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5)).
		Add(forward.Mul(viewport.FocalLength))

	return Basis{
		Origin:          c.Position,
		Horizontal:      fromMgl(horizontal),
		Vertical:        fromMgl(vertical),
		LowerLeftCorner: fromMgl(lowerLeft),
	}
}

// Ray returns the ray through viewport coordinates (u, v), both in [0,1]
// with v increasing upward
func (b Basis) Ray(u, v float32) core.Ray {
	direction := b.LowerLeftCorner.
		Add(b.Horizontal.Multiply(u)).
		Add(b.Vertical.Multiply(v)).
		Subtract(b.Origin)

	return core.NewRay(b.Origin, direction)
}

func toMgl(v core.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl32.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}
