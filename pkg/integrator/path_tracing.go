package integrator

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

// MinHitDistance keeps scattered rays from re-hitting the surface they left
const MinHitDistance = 0.001

var (
	skyBottom = core.NewVec3(1.0, 1.0, 1.0) // white at the horizon
	skyTop    = core.NewVec3(0.5, 0.7, 1.0) // light blue overhead
)

// RayColor follows a path for up to maxDepth bounces.
// Absorption returns black; escaping the scene multiplies the accumulated
// attenuation by the sky. When the bounce budget runs out first, the partial
// attenuation product is returned as is, without the sky term.
func RayColor(ray core.Ray, world *geometry.World, maxDepth int, seed *core.Seed) core.Vec3 {
	color := core.Splat(1)
	tMax := math32.Inf(1)

	for depth := 0; depth < maxDepth; depth++ {
		hit, isHit := world.Hit(ray, MinHitDistance, tMax)
		if !isHit {
			return color.MultiplyVec(SkyColor(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, hit, seed)
		if !didScatter {
			return core.Vec3{}
		}

		color = color.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	return color
}

// SkyColor returns the background gradient for a ray that escaped the scene
func SkyColor(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyBottom.Lerp(skyTop, t)
}
