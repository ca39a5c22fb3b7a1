package scene

import (
	"fmt"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/loaders"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// NewFileScene creates a scene from a JSON scene file in the scenes directory
func NewFileScene(filename string) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}
	return NewSceneFromFile(sf)
}

// NewSceneFromFile converts a parsed scene file into a renderable scene
func NewSceneFromFile(sf *loaders.SceneFile) (*Scene, error) {
	sampling := defaultSamplingConfig()
	if sf.Sampling != nil {
		if sf.Sampling.SamplesPerPixel > 0 {
			sampling.SamplesPerPixel = sf.Sampling.SamplesPerPixel
		}
		if sf.Sampling.MaxDepth > 0 {
			sampling.MaxDepth = sf.Sampling.MaxDepth
		}
	}

	s := &Scene{
		Name:           sf.Name,
		World:          geometry.NewWorld(),
		Camera:         convertCamera(sf.Camera, float32(sampling.Width)/float32(sampling.Height)),
		SamplingConfig: sampling,
	}

	for i, desc := range sf.Spheres {
		mat, err := convertMaterial(desc.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(vec3(desc.Center), desc.Radius, mat)
	}

	return s, nil
}

// convertCamera applies a scene file camera on top of the default camera
func convertCamera(desc *loaders.CameraDesc, aspect float32) camera.Config {
	cam := camera.Default(aspect)
	if desc == nil {
		return cam
	}

	cam.Position = vec3(desc.Position)
	cam.Yaw = desc.Yaw
	cam.Pitch = desc.Pitch
	if desc.VFov > 0 {
		cam.VFov = desc.VFov
	}
	if desc.FocalLength > 0 {
		cam.FocalLength = desc.FocalLength
	}
	return cam
}

func convertMaterial(desc loaders.MaterialDesc) (material.Material, error) {
	albedo := vec3(desc.Albedo)
	switch desc.Type {
	case "diffuse":
		return material.NewDiffuse(albedo), nil
	case "metal":
		return material.NewMetal(albedo, desc.Fuzz), nil
	case "glass":
		return material.NewGlass(albedo, desc.RefractionIndex), nil
	default:
		return material.Material{}, fmt.Errorf("unsupported material type %q", desc.Type)
	}
}

func vec3(v [3]float32) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
