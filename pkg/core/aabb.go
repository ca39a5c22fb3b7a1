package core

import "github.com/chewxy/math32"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float32) bool {
	mins := [3]float32{aabb.Min.X, aabb.Min.Y, aabb.Min.Z}
	maxs := [3]float32{aabb.Max.X, aabb.Max.Y, aabb.Max.Z}
	origin := [3]float32{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	direction := [3]float32{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}

	for axis := 0; axis < 3; axis++ {
		// Ray parallel to this slab
		if math32.Abs(direction[axis]) < 1e-8 {
			if origin[axis] < mins[axis] || origin[axis] > maxs[axis] {
				return false
			}
			continue
		}

		invDirection := 1 / direction[axis]
		t1 := (mins[axis] - origin[axis]) * invDirection
		t2 := (maxs[axis] - origin[axis]) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math32.Max(tMin, t1)
		tMax = math32.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: NewVec3(
			math32.Min(aabb.Min.X, other.Min.X),
			math32.Min(aabb.Min.Y, other.Min.Y),
			math32.Min(aabb.Min.Z, other.Min.Z),
		),
		Max: NewVec3(
			math32.Max(aabb.Max.X, other.Max.X),
			math32.Max(aabb.Max.Y, other.Max.Y),
			math32.Max(aabb.Max.Z, other.Max.Z),
		),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}
