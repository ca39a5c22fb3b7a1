package integrator

import (
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

func nearlyEqual(a, b core.Vec3, tolerance float32) bool {
	return a.Subtract(b).Length() <= tolerance
}

// enclosure surrounds the origin with a single large sphere so every ray hits
func enclosure(mat material.Material) *geometry.World {
	return geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, 0), 100, mat))
}

func TestRayColor_MissReturnsSky(t *testing.T) {
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewDiffuse(core.NewVec3(0.7, 0.3, 0.3))),
	)

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0.2, 0),
		core.NewVec3(0, 0, 1),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)
		seed := core.Seed(1)
		got := RayColor(ray, world, 5, &seed)

		unit := dir.Normalize()
		tt := 0.5 * (unit.Y + 1)
		expected := core.NewVec3(1, 1, 1).Multiply(1 - tt).Add(core.NewVec3(0.5, 0.7, 1.0).Multiply(tt))
		if !nearlyEqual(got, expected, 1e-6) {
			t.Errorf("Direction %v: expected sky %v, got %v", dir, expected, got)
		}
		if seed != core.Seed(1) {
			t.Errorf("A ray that misses should not consume random draws")
		}
	}
}

func TestSkyColor_Endpoints(t *testing.T) {
	up := SkyColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 5, 0)))
	if !nearlyEqual(up, core.NewVec3(0.5, 0.7, 1.0), 1e-6) {
		t.Errorf("Expected light blue straight up, got %v", up)
	}
	down := SkyColor(core.NewRay(core.Vec3{}, core.NewVec3(0, -5, 0)))
	if !nearlyEqual(down, core.NewVec3(1, 1, 1), 1e-6) {
		t.Errorf("Expected white straight down, got %v", down)
	}
}

func TestRayColor_ZeroAlbedoIsBlack(t *testing.T) {
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewDiffuse(core.Vec3{})),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	seed := core.NewPixelSeed(0.5, 0.5, 0)
	for i := 0; i < 50; i++ {
		if got := RayColor(ray, world, 10, &seed); got != (core.Vec3{}) {
			t.Fatalf("Expected black, got %v", got)
		}
	}
}

func TestRayColor_DepthExhaustionReturnsPartialProduct(t *testing.T) {
	world := enclosure(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		maxDepth int
		expected float32
	}{
		{1, 0.5},
		{2, 0.25},
		{3, 0.125},
	}

	for _, tt := range tests {
		seed := core.NewPixelSeed(10.5, 10.5, 0)
		got := RayColor(ray, world, tt.maxDepth, &seed)
		expected := core.Splat(tt.expected)
		if !nearlyEqual(got, expected, 1e-6) {
			t.Errorf("maxDepth %d: expected %v, got %v", tt.maxDepth, expected, got)
		}
	}
}

func TestRayColor_NonPositiveDepth(t *testing.T) {
	world := enclosure(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, depth := range []int{0, -3} {
		seed := core.Seed(0)
		got := RayColor(ray, world, depth, &seed)
		if got != core.Splat(1) {
			t.Errorf("Depth %d: expected unscattered throughput (1,1,1), got %v", depth, got)
		}
	}
}

func TestRayColor_MirrorReflectsSky(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -2), 1, material.NewMetal(albedo, 0)),
	)
	// Straight-on ray reflects straight back out to the sky behind the camera
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	seed := core.Seed(0)
	got := RayColor(ray, world, 5, &seed)
	expected := albedo.MultiplyVec(SkyColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))))
	if !nearlyEqual(got, expected, 1e-5) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRayColor_DeterministicForSeed(t *testing.T) {
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewGlass(core.NewVec3(1, 1, 1), 1.5)),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.1, -0.2, -1))

	a := core.NewPixelSeed(100.5, 50.5, 33)
	b := core.NewPixelSeed(100.5, 50.5, 33)
	for i := 0; i < 20; i++ {
		ca := RayColor(ray, world, 8, &a)
		cb := RayColor(ray, world, 8, &b)
		if ca != cb {
			t.Fatalf("Sample %d diverged: %v vs %v", i, ca, cb)
		}
	}
}
