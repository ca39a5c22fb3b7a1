package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// FrameUpdate represents a single blended frame sent via SSE
type FrameUpdate struct {
	FrameIndex       int     `json:"frameIndex"`
	TotalFrames      int     `json:"totalFrames"` // 0 when rendering until disconnect
	ImageData        string  `json:"imageData"`   // Base64 encoded PNG
	ElapsedMs        int64   `json:"elapsedMs"`
	FrameMs          float64 `json:"frameMs"`
	FPS              float64 `json:"fps"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
	SphereCount      int     `json:"sphereCount"`
	IsLast           bool    `json:"isLast"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and renderer
type RenderingPipeline struct {
	Scene      *scene.Scene
	Renderer   *renderer.ProgressiveRenderer
	BaseCamera camera.Config // scene camera before the request's offsets
}

// RenderStarted is the payload of the "start" event
type RenderStarted struct {
	RenderID string `json:"renderId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// handleRender handles progressive rendering with real-time frame streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine; the handler waits for it so
	// nothing touches w after the handler returns
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	consoleChan, webLogger := s.setupConsoleLogging(renderID)
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()
	defer func() {
		stopConsole()
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}
	defer pipeline.Renderer.Close()

	// Camera updates can reach the renderer while it runs
	s.registerRender(renderID, pipeline)
	defer s.unregisterRender(renderID)

	started, err := json.Marshal(RenderStarted{RenderID: renderID, Width: req.Width, Height: req.Height})
	if err == nil {
		select {
		case sseEventChan <- SSEEvent{Type: "start", Data: string(started)}:
		case <-ctx.Done():
			return
		}
	}

	// Start rendering and stream events
	startTime := time.Now()
	frameChan, errChan := pipeline.Renderer.RenderProgressive(ctx, req.Frames)

	s.handleRenderingEvents(ctx, sseEventChan, frameChan, errChan, pipeline.Scene, req, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging(renderID string) (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected; drain so senders never block
			for range sseEventChan {
			}
			return
		}
	}
}

// streamConsoleMessages forwards logger output to the SSE channel
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// setupRenderingPipeline creates and configures the scene and renderer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, cam, err := s.createScene(req)
	if err != nil {
		return nil, err
	}
	logger.Printf("Rendering %s (%d spheres) at %dx%d\n", sceneObj.Name, sceneObj.SphereCount(), req.Width, req.Height)

	format, err := renderer.ParseFormat(req.Texture)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultProgressiveConfig()
	config.SamplesPerPixel = sceneObj.SamplingConfig.SamplesPerPixel
	if req.SamplesPerPixel > 0 {
		config.SamplesPerPixel = req.SamplesPerPixel
	}
	config.MaxDepth = sceneObj.SamplingConfig.MaxDepth
	if req.MaxDepth > 0 {
		config.MaxDepth = req.MaxDepth
	}
	config.Averaging = req.Averaging
	config.LastFrameWeight = req.LastFrameWeight
	config.Format = format

	pr, err := renderer.NewProgressiveRenderer(sceneObj.World, req.Width, req.Height, cam, config, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		Scene:      sceneObj,
		Renderer:   pr,
		BaseCamera: sceneObj.CameraFor(req.Width, req.Height),
	}, nil
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	frameChan <-chan renderer.FrameResult, errChan <-chan error,
	scene *scene.Scene, req *RenderRequest, startTime time.Time) {

	for frameResult := range frameChan {
		s.handleFrameComplete(ctx, sseEventChan, frameResult, req, scene, startTime)
	}

	if err := <-errChan; err != nil {
		if errors.Is(err, context.Canceled) {
			// Client disconnected
			return
		}
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handleFrameComplete encodes a finished frame and sends it
func (s *Server) handleFrameComplete(ctx context.Context, sseEventChan chan SSEEvent, result renderer.FrameResult, req *RenderRequest, scene *scene.Scene, startTime time.Time) {
	// Check if client is still connected
	select {
	case <-ctx.Done():
		return
	default:
	}

	imageData, err := s.imageToBase64PNG(result.Image)
	if err != nil {
		log.Printf("Error encoding frame %d: %v", result.FrameIndex, err)
		return
	}

	update := FrameUpdate{
		FrameIndex:       result.FrameIndex,
		TotalFrames:      req.Frames,
		ImageData:        imageData,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		FrameMs:          float64(result.Stats.Duration.Microseconds()) / 1000,
		FPS:              result.Stats.FPS(),
		SamplesPerSecond: result.Stats.SamplesPerSecond(),
		AverageLuminance: result.Stats.AverageLuminance,
		SphereCount:      scene.SphereCount(),
		IsLast:           result.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling frame update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "frame", Data: string(data)}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	if req.Frames, err = parseIntParam(query, "frames", 64, 0, MaxFrames); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, 0, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, 0, MaxDepth); err != nil {
		return nil, err
	}
	if req.Averaging, err = parseBoolParam(query, "averaging", true); err != nil {
		return nil, err
	}
	weight, err := parseFloatParam(query, "weight", 1, 0.01, 100)
	if err != nil {
		return nil, err
	}
	req.LastFrameWeight = float32(weight)

	req.Texture = query.Get("texture")
	if req.Texture == "" {
		req.Texture = renderer.FormatRGBA32F.String()
	}
	if _, err := renderer.ParseFormat(req.Texture); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 16 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
