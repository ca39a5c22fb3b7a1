package material

import (
	"fmt"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind int32

const (
	Diffuse Kind = iota
	Metal
	Glass
)

// String returns the lowercase name of the material kind
func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Metal:
		return "metal"
	case Glass:
		return "glass"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Material is a closed tagged variant over the three surface kinds.
// Fuzz is only read for Metal and RefractionIndex only for Glass.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Reflectance / transmission tint
	Fuzz            float32   // 0.0 = perfect mirror, 1.0 = very fuzzy
	RefractionIndex float32   // e.g. 1.5 for glass
}

// NewDiffuse creates a lambertian material
func NewDiffuse(albedo core.Vec3) Material {
	return Material{Kind: Diffuse, Albedo: albedo}
}

// NewMetal creates a metal material
func NewMetal(albedo core.Vec3, fuzz float32) Material {
	// Clamp fuzz to valid range
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return Material{Kind: Metal, Albedo: albedo, Fuzz: fuzz}
}

// NewGlass creates a dielectric material
func NewGlass(albedo core.Vec3, refractionIndex float32) Material {
	return Material{Kind: Glass, Albedo: albedo, RefractionIndex: refractionIndex}
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the ray
	T         float32   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the outward-facing side
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The continuing ray
	Attenuation core.Vec3 // Color attenuation
}
