package server

import (
	"fmt"
	"net/http"

	"github.com/chewxy/math32"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// PickResponse represents the JSON response for sphere picking
type PickResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// PickResult identifies the sphere under a pixel
type PickResult struct {
	Hit         bool
	SphereIndex int
	HitRecord   material.HitRecord
	Sphere      geometry.Sphere
}

// pickPixel casts an unjittered ray through the centre of an image pixel.
// Pixel rows count down from the top of the image.
func pickPixel(world *geometry.World, basis camera.Basis, width, height, pixelX, pixelY int) PickResult {
	u := (float32(pixelX) + 0.5) / float32(width)
	v := (float32(height-1-pixelY) + 0.5) / float32(height)
	ray := basis.Ray(u, v)

	// Rays that miss the whole scene cannot hit any sphere
	if !world.Bounds().Hit(ray, 0, math32.Inf(1)) {
		return PickResult{SphereIndex: -1}
	}

	index, hit, ok := world.Pick(ray, 0, math32.Inf(1))
	if !ok {
		return PickResult{SphereIndex: -1}
	}
	return PickResult{
		Hit:         true,
		SphereIndex: index,
		HitRecord:   hit,
		Sphere:      world.Spheres[index],
	}
}

// extractMaterialInfo describes a material for the client
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	properties["albedo"] = vecArray(mat.Albedo)
	properties["color"] = hexColor(mat.Albedo)

	switch mat.Kind {
	case material.Metal:
		properties["fuzz"] = mat.Fuzz
	case material.Glass:
		properties["refractionIndex"] = mat.RefractionIndex
	}

	return mat.Kind.String(), properties
}

// extractGeometryInfo describes a sphere for the client
func extractGeometryInfo(sphere geometry.Sphere) map[string]interface{} {
	return map[string]interface{}{
		"center": vecArray(sphere.Center),
		"radius": sphere.Radius,
		"hollow": sphere.Radius < 0, // inner wall of a glass shell
	}
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// handlePick reports which sphere is visible at a pixel; without x and y
// the centre of the image is used
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	pickReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, pickReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	query := r.URL.Query()
	pixelX, err := parseIntParam(query, "x", pickReq.Width/2, 0, pickReq.Width-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pixelY, err := parseIntParam(query, "y", pickReq.Height/2, 0, pickReq.Height-1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sceneObj, cam, err := s.createScene(pickReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := pickPixel(sceneObj.World, cam.Basis(), pickReq.Width, pickReq.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, PickResponse{SphereIndex: -1})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)

	response := PickResponse{
		Hit:          true,
		SphereIndex:  result.SphereIndex,
		MaterialType: materialType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": extractGeometryInfo(result.Sphere),
		},
	}

	writeJSON(w, http.StatusOK, response)
}
