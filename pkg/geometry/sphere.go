package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius flips the outward normal, which turns a glass sphere
// into the inner wall of a hollow shell.
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s Sphere) Hit(ray core.Ray, tMin, tMax float32) (material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return material.HitRecord{}, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return material.HitRecord{}, false
		}
	}

	hit := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Dividing by the signed radius keeps the hollow-shell convention
	outwardNormal := hit.Point.Subtract(s.Center).Divide(s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounds of the sphere
func (s Sphere) BoundingBox() core.AABB {
	r := math32.Abs(s.Radius)
	extent := core.Splat(r)
	return core.NewAABB(s.Center.Subtract(extent), s.Center.Add(extent))
}
