package geometry

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

var testMaterial = material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float32
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math32.Abs(hit.T-tt.expectedT) > 1e-6 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-6 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != testMaterial {
				t.Errorf("Expected hit to carry the sphere material, got %+v", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_OriginOnSurface(t *testing.T) {
	// Ray starting exactly on the surface and aimed at the centre
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	tMin, tMax := float32(0), float32(10)
	hit, isHit := sphere.Hit(ray, tMin, tMax)
	if !isHit {
		t.Fatal("Expected hit for ray starting on the surface")
	}
	if hit.T < tMin || hit.T > tMax {
		t.Errorf("Expected t within [%f, %f], got %f", tMin, tMax, hit.T)
	}
	if !hit.FrontFace {
		t.Error("Expected front face for a ray entering the sphere")
	}
}

func TestSphere_Hit_RangeFallsBackToFarRoot(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Near root t=1 lies below tMin, so the far root t=3 is used
	hit, isHit := sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected hit on the far side")
	}
	if math32.Abs(hit.T-3) > 1e-6 {
		t.Errorf("Expected t=3, got %f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Far-side hit should be a back face")
	}

	// Both roots out of range
	if _, isHit := sphere.Hit(ray, 0.001, 0.5); isHit {
		t.Error("Expected miss when both roots are outside the range")
	}
}

func TestSphere_Hit_HollowShell(t *testing.T) {
	// Negative radius: same surface, inverted normal convention
	shell := NewSphere(core.NewVec3(0, 0, 0), -1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	hit, isHit := shell.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit on hollow shell")
	}
	if math32.Abs(hit.T-2) > 1e-6 {
		t.Errorf("Expected t=2, got %f", hit.T)
	}

	// The outward normal of a negative sphere points inward, so a ray
	// arriving from outside sees the back face
	if hit.FrontFace {
		t.Error("Expected back face for ray entering a hollow shell from outside")
	}
	// The stored normal still opposes the ray
	if hit.Normal.Dot(ray.Direction) >= 0 {
		t.Errorf("Expected normal to oppose the ray, got %v", hit.Normal)
	}
}
