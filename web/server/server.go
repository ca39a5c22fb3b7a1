package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// Request limits shared by the render and pick endpoints
const (
	MinImageSize = 16
	MaxImageSize = 2000
	MaxFrames    = 10000
	MaxSamples   = 1000
	MaxDepth     = 500
)

// Server handles web requests for the realtime pathtracer
type Server struct {
	port int

	mu      sync.Mutex
	renders map[string]*RenderingPipeline // live renders by render ID
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:    port,
		renders: make(map[string]*RenderingPipeline),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string  `json:"scene"`           // Scene ID (e.g., "default")
	Width           int     `json:"width"`           // Image width
	Height          int     `json:"height"`          // Image height
	Frames          int     `json:"frames"`          // Frames to render, 0 = until the client disconnects
	SamplesPerPixel int     `json:"samplesPerPixel"` // 0 = scene default
	MaxDepth        int     `json:"maxDepth"`        // 0 = scene default
	Averaging       bool    `json:"averaging"`       // Blend frames into a running average
	LastFrameWeight float32 `json:"lastFrameWeight"` // Weight of the newest frame
	Texture         string  `json:"texture"`         // Accumulator precision
	VFov            float32 `json:"vfov"`            // 0 = scene default
	Yaw             float32 `json:"yaw"`             // Added to the scene camera yaw
	Pitch           float32 `json:"pitch"`           // Added to the scene camera pitch
}

// Handler returns the HTTP handler with all routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/pick", s.handlePick)
	mux.HandleFunc("/api/camera", s.handleCamera)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the scene and camera parameters shared by all endpoints
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, MinImageSize, MaxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 225, MinImageSize, MaxImageSize); err != nil {
		return err
	}

	return parseCameraParams(query, req)
}

// parseCameraParams parses the fov override and the yaw/pitch offsets
func parseCameraParams(query url.Values, req *RenderRequest) error {
	value, err := parseFloatParam(query, "fov", 0, 0, 179)
	if err != nil {
		return err
	}
	req.VFov = float32(value)
	if value, err = parseFloatParam(query, "yaw", 0, -360, 360); err != nil {
		return err
	}
	req.Yaw = float32(value)
	if value, err = parseFloatParam(query, "pitch", 0, -89, 89); err != nil {
		return err
	}
	req.Pitch = float32(value)

	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene and returns the camera for the request
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, camera.Config, error) {
	sceneObj, err := scene.ByName(req.Scene)
	if err != nil {
		return nil, camera.Config{}, err
	}

	return sceneObj, applyCameraParams(sceneObj.CameraFor(req.Width, req.Height), req), nil
}

// applyCameraParams applies the fov override and yaw/pitch offsets of a request
func applyCameraParams(cam camera.Config, req *RenderRequest) camera.Config {
	if req.VFov > 0 {
		cam.VFov = req.VFov
	}
	cam.Yaw += req.Yaw
	cam.Pitch += req.Pitch
	return cam
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.ByName(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":   sceneName,
		"spheres": sceneObj.SphereCount(),
		"bounds":  sceneObj.World.Bounds(),
		"camera":  sceneObj.Camera,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"averaging":       true,
			"lastFrameWeight": 1.0,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":          map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"frames":          map[string]int{"min": 0, "max": MaxFrames},
			"samplesPerPixel": map[string]int{"min": 0, "max": MaxSamples},
			"maxDepth":        map[string]int{"min": 0, "max": MaxDepth},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with CORS enabled
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
