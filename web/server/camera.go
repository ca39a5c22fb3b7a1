package server

import (
	"net/http"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
)

// CameraResponse confirms a scheduled camera move
type CameraResponse struct {
	RenderID string        `json:"renderId"`
	Camera   camera.Config `json:"camera"`
}

func (s *Server) registerRender(renderID string, pipeline *RenderingPipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders[renderID] = pipeline
}

func (s *Server) unregisterRender(renderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.renders, renderID)
}

func (s *Server) lookupRender(renderID string) (*RenderingPipeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pipeline, ok := s.renders[renderID]
	return pipeline, ok
}

// handleCamera moves the camera of a running render. Parameters are the same
// fov/yaw/pitch as /api/render, relative to the scene camera; accumulation
// restarts with the next frame.
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}

	query := r.URL.Query()
	renderID := query.Get("render")
	if renderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing render"})
		return
	}

	req := &RenderRequest{}
	if err := parseCameraParams(query, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	pipeline, ok := s.lookupRender(renderID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no running render " + renderID})
		return
	}

	cam := applyCameraParams(pipeline.BaseCamera, req)
	pipeline.Renderer.UpdateCamera(cam)

	writeJSON(w, http.StatusOK, CameraResponse{RenderID: renderID, Camera: cam})
}
