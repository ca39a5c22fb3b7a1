package material

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// Scatter decides whether and how a ray continues after hitting a surface.
// A false result means the ray was absorbed and the path carries no light.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, seed *core.Seed) (ScatterResult, bool) {
	switch m.Kind {
	case Diffuse:
		return m.scatterDiffuse(hit, seed)
	case Metal:
		return m.scatterMetal(rayIn, hit, seed)
	case Glass:
		return m.scatterGlass(rayIn, hit, seed)
	default:
		return ScatterResult{}, false
	}
}

// scatterDiffuse sends the ray along the normal plus a random unit vector
func (m Material) scatterDiffuse(hit HitRecord, seed *core.Seed) (ScatterResult, bool) {
	direction := hit.Normal.Add(seed.UnitVector())

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}

// scatterMetal reflects the ray and perturbs it by the fuzz radius
func (m Material) scatterMetal(rayIn core.Ray, hit HitRecord, seed *core.Seed) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction.Normalize(), hit.Normal)
	direction := reflected.Add(seed.InUnitSphere().Multiply(m.Fuzz))

	// Fuzzed rays that dip below the surface are absorbed
	scatters := direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, scatters
}

// scatterGlass randomly reflects or refracts in proportion to the Fresnel reflectance
func (m Material) scatterGlass(rayIn core.Ray, hit HitRecord, seed *core.Seed) (ScatterResult, bool) {
	refractionRatio := m.RefractionIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / m.RefractionIndex // air to glass
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math32.Sqrt(max(0, 1.0-cosTheta*cosTheta))

	var direction core.Vec3
	if CannotRefract(refractionRatio, sinTheta) || Reflectance(cosTheta, refractionRatio) > seed.Uniform1() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}

// CannotRefract reports total internal reflection: Snell's law has no real solution
func CannotRefract(refractionRatio, sinTheta float32) bool {
	return refractionRatio*sinTheta > 1.0
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float32) float32 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}
