package renderer

import (
	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/integrator"
)

// FrameParams are the per-frame inputs shared by every pixel
type FrameParams struct {
	Width, Height   int
	Viewport        camera.Viewport // informational; Camera already encodes it
	Camera          camera.Basis
	MaxDepth        int
	SamplesPerPixel int
	Time            float32 // elapsed seconds, decorrelates frames
	FrameIndex      int     // 1 for the first frame
	Averaging       bool
	LastFrameWeight float32
}

// SamplePixel computes the next stored texel for pixel (x, y), where y
// counts rows upward from the bottom of the image.
func SamplePixel(x, y int, params FrameParams, world *geometry.World, prev Texel) Texel {
	fx, fy := float32(x), float32(y)
	seed := core.NewPixelSeed(fx+0.5, fy+0.5, params.Time)

	var sum core.Vec3
	for s := 0; s < params.SamplesPerPixel; s++ {
		jx, jy := seed.Uniform2()
		u := (fx + jx) / float32(params.Width)
		v := (fy + jy) / float32(params.Height)

		ray := params.Camera.Ray(u, v)
		sum = sum.Add(integrator.RayColor(ray, world, params.MaxDepth, &seed))
	}

	var fresh core.Vec3
	if params.SamplesPerPixel > 0 {
		// Gamma 2
		fresh = sum.Divide(float32(params.SamplesPerPixel)).Sqrt()
	}

	return Blend(fresh, prev, params.FrameIndex, params.Averaging, params.LastFrameWeight)
}

// Blend merges a fresh color into the previous stored texel.
// The fresh color is written directly when averaging is off, on the first
// frame, or when the previous texel was never written.
func Blend(fresh core.Vec3, prev Texel, frameIndex int, averaging bool, weight float32) Texel {
	if !averaging || frameIndex <= 1 || prev.A == 0 {
		return NewTexel(fresh, 1)
	}

	frames := float32(frameIndex)
	merged := prev.RGB().Multiply(frames).
		Add(fresh.Multiply(weight)).
		Divide(frames + weight)

	return NewTexel(merged, 1)
}
