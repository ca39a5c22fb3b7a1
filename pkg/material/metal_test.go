package material

import (
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name         string
		inputFuzz    float32
		expectedFuzz float32
	}{
		{"Valid fuzz 0.0", 0.0, 0.0},
		{"Valid fuzz 0.5", 0.5, 0.5},
		{"Valid fuzz 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewVec3(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzz)
			if metal.Fuzz != tt.expectedFuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.expectedFuzz, metal.Fuzz)
			}
			if metal.Kind != Metal {
				t.Errorf("Expected kind metal, got %v", metal.Kind)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)
	seed := core.Seed(42)

	// Ray hitting surface at 45 degrees
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
		Material:  metal,
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, &seed)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	actual := scatter.Scattered.Direction.Normalize()
	if actual.Subtract(expected).Length() > 1e-6 {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, actual)
	}

	if scatter.Attenuation != albedo {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
	if scatter.Scattered.Origin != hit.Point {
		t.Errorf("Scattered ray should start at the hit point, got %v", scatter.Scattered.Origin)
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	metal := NewMetal(albedo, 0.5)
	seed := core.NewPixelSeed(3.5, 7.5, 0)

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
		Material:  metal,
	}

	perfect := core.NewVec3(0, 0, 1)
	varied := false
	for i := 0; i < 100; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, &seed)
		if !didScatter {
			continue
		}
		// Fuzzed direction stays within fuzz radius of the perfect reflection
		offset := scatter.Scattered.Direction.Subtract(perfect).Length()
		if offset > 0.5+1e-5 {
			t.Fatalf("Fuzzed direction %v is further than fuzz from %v", scatter.Scattered.Direction, perfect)
		}
		if offset > 1e-3 {
			varied = true
		}
	}
	if !varied {
		t.Error("Expected fuzz to perturb reflection directions")
	}
}

func TestMetal_AbsorbsBelowSurface(t *testing.T) {
	// Grazing ray with maximum fuzz: some perturbed reflections point into the surface
	metal := NewMetal(core.NewVec3(1, 1, 1), 1.0)
	seed := core.NewPixelSeed(11.5, 2.5, 0)

	rayIn := core.NewRay(core.NewVec3(-1, 0.01, 0), core.NewVec3(1, -0.01, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
		Material:  metal,
	}

	absorbed := 0
	for i := 0; i < 200; i++ {
		scatter, didScatter := metal.Scatter(rayIn, hit, &seed)
		if didScatter {
			if scatter.Scattered.Direction.Dot(hit.Normal) <= 0 {
				t.Fatalf("Scattered ray points into the surface: %v", scatter.Scattered.Direction)
			}
		} else {
			absorbed++
		}
	}
	if absorbed == 0 {
		t.Error("Expected some grazing fuzzy reflections to be absorbed")
	}
}
