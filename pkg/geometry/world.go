package geometry

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// World is the ordered sphere table every ray is tested against.
// It is built once and shared read-only between all pixel evaluations.
type World struct {
	Spheres []Sphere
}

// NewWorld creates a world from a list of spheres
func NewWorld(spheres ...Sphere) *World {
	return &World{Spheres: spheres}
}

// Add appends a sphere to the world
func (w *World) Add(s Sphere) {
	w.Spheres = append(w.Spheres, s)
}

// Len returns the number of spheres in the world
func (w *World) Len() int {
	return len(w.Spheres)
}

// Hit returns the closest intersection in [tMin, tMax].
// Every sphere is tested; the accepted range shrinks as closer hits are found.
func (w *World) Hit(ray core.Ray, tMin, tMax float32) (material.HitRecord, bool) {
	var closest material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range w.Spheres {
		if hit, isHit := w.Spheres[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}

// Pick returns the index of the closest sphere hit by ray together with the hit.
// Unlike Hit it also reports the sphere, so callers can identify what is under a pixel.
func (w *World) Pick(ray core.Ray, tMin, tMax float32) (int, material.HitRecord, bool) {
	index := -1
	var closest material.HitRecord
	closestSoFar := tMax

	for i := range w.Spheres {
		if hit, isHit := w.Spheres[i].Hit(ray, tMin, closestSoFar); isHit {
			index = i
			closestSoFar = hit.T
			closest = hit
		}
	}

	return index, closest, index >= 0
}

// Bounds returns the box enclosing every sphere, or a zero box for an empty world
func (w *World) Bounds() core.AABB {
	if len(w.Spheres) == 0 {
		return core.AABB{}
	}
	bounds := w.Spheres[0].BoundingBox()
	for _, s := range w.Spheres[1:] {
		bounds = bounds.Union(s.BoundingBox())
	}
	return bounds
}
