package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/camera"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize        int     // Size of each tile (64x64 recommended)
	NumWorkers      int     // Number of parallel workers (0 = use CPU count)
	SamplesPerPixel int     // Camera samples per pixel per frame
	MaxDepth        int     // Maximum bounces per path
	Averaging       bool    // Blend each frame into the running average
	LastFrameWeight float32 // Influence of the newest frame on the average
	Format          Format  // Accumulator storage precision
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:        DefaultTileSize,
		NumWorkers:      0, // Auto-detect CPU count
		SamplesPerPixel: 1, // One sample per frame keeps frames interactive
		MaxDepth:        50,
		Averaging:       true,
		LastFrameWeight: 1,
		Format:          FormatRGBA32F,
	}
}

// ProgressiveRenderer drives the frame loop. It owns two textures and swaps
// them every frame so each frame reads the one written before it.
type ProgressiveRenderer struct {
	world         *geometry.World
	width, height int
	config        ProgressiveConfig
	camera        camera.Config
	basis         camera.Basis
	viewport      camera.Viewport
	frameRenderer *FrameRenderer
	prev, next    Texture // prev holds the latest completed frame
	frameIndex    int     // number of completed frames
	start         time.Time
	now           func() time.Time
	logger        core.Logger

	mu            sync.Mutex
	pendingCamera *camera.Config // applied before the next frame
}

// NewProgressiveRenderer creates a progressive renderer for a world and camera
func NewProgressiveRenderer(world *geometry.World, width, height int, cam camera.Config, config ProgressiveConfig, logger core.Logger) (*ProgressiveRenderer, error) {
	if world == nil {
		return nil, fmt.Errorf("world is nil")
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	prev, err := NewTexture(config.Format, width, height)
	if err != nil {
		return nil, fmt.Errorf("creating accumulator: %w", err)
	}
	next, err := NewTexture(config.Format, width, height)
	if err != nil {
		return nil, fmt.Errorf("creating accumulator: %w", err)
	}

	pr := &ProgressiveRenderer{
		world:         world,
		width:         width,
		height:        height,
		config:        config,
		frameRenderer: NewFrameRenderer(world, width, height, config.TileSize, config.NumWorkers),
		prev:          prev,
		next:          next,
		now:           time.Now,
		logger:        logger,
	}
	pr.setCamera(cam)
	pr.start = pr.now()

	return pr, nil
}

// SetClock replaces the time source used for elapsed time and restarts it
func (pr *ProgressiveRenderer) SetClock(now func() time.Time) {
	pr.now = now
	pr.start = now()
}

// SetCamera moves the camera and discards the accumulated image
func (pr *ProgressiveRenderer) SetCamera(cam camera.Config) {
	pr.setCamera(cam)
	pr.Reset()
}

// UpdateCamera schedules a camera move from any goroutine. It takes effect
// at the start of the next frame, which restarts accumulation; only the most
// recent update is kept.
func (pr *ProgressiveRenderer) UpdateCamera(cam camera.Config) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.pendingCamera = &cam
}

// applyPendingCamera moves the camera if an update is waiting
func (pr *ProgressiveRenderer) applyPendingCamera() {
	pr.mu.Lock()
	cam := pr.pendingCamera
	pr.pendingCamera = nil
	pr.mu.Unlock()

	if cam != nil {
		pr.SetCamera(*cam)
		pr.logger.Printf("Camera moved (yaw %.1f, pitch %.1f, fov %.1f), restarting accumulation\n", cam.Yaw, cam.Pitch, cam.VFov)
	}
}

func (pr *ProgressiveRenderer) setCamera(cam camera.Config) {
	pr.camera = cam
	pr.basis = cam.Basis()
	pr.viewport = cam.Viewport()
}

// Camera returns the current camera configuration
func (pr *ProgressiveRenderer) Camera() camera.Config {
	return pr.camera
}

// FrameIndex returns the number of frames rendered since the last reset
func (pr *ProgressiveRenderer) FrameIndex() int {
	return pr.frameIndex
}

// NumWorkers returns the number of parallel workers
func (pr *ProgressiveRenderer) NumWorkers() int {
	return pr.frameRenderer.NumWorkers()
}

// Texture returns the latest completed frame
func (pr *ProgressiveRenderer) Texture() Texture {
	return pr.prev
}

// Image returns the latest completed frame as an 8-bit image
func (pr *ProgressiveRenderer) Image() *image.RGBA {
	return ToImage(pr.prev)
}

// Reset clears the accumulated image and restarts the frame counter and clock
func (pr *ProgressiveRenderer) Reset() {
	pr.prev.Clear()
	pr.next.Clear()
	pr.frameIndex = 0
	pr.start = pr.now()
}

// Resume seeds the accumulator with a previously saved image that is the
// average of the given number of frames
func (pr *ProgressiveRenderer) Resume(img image.Image, frames int) error {
	if frames < 1 {
		return fmt.Errorf("resume frame count must be at least 1, got %d", frames)
	}
	if err := FromImage(pr.prev, img); err != nil {
		return fmt.Errorf("resuming: %w", err)
	}
	pr.frameIndex = frames
	pr.logger.Printf("Resumed accumulation at frame %d\n", frames)
	return nil
}

// params builds the uniform inputs for the next frame
func (pr *ProgressiveRenderer) params(frameIndex int) FrameParams {
	return FrameParams{
		Width:           pr.width,
		Height:          pr.height,
		Viewport:        pr.viewport,
		Camera:          pr.basis,
		MaxDepth:        pr.config.MaxDepth,
		SamplesPerPixel: pr.config.SamplesPerPixel,
		Time:            float32(pr.now().Sub(pr.start).Seconds()),
		FrameIndex:      frameIndex,
		Averaging:       pr.config.Averaging,
		LastFrameWeight: pr.config.LastFrameWeight,
	}
}

// RenderFrame renders the next frame and makes it the latest image
func (pr *ProgressiveRenderer) RenderFrame(ctx context.Context) (FrameStats, error) {
	pr.applyPendingCamera()
	frameIndex := pr.frameIndex + 1

	stats, err := pr.frameRenderer.RenderFrame(ctx, pr.params(frameIndex), pr.prev, pr.next)
	if err != nil {
		return FrameStats{}, err
	}

	pr.prev, pr.next = pr.next, pr.prev
	pr.frameIndex = frameIndex

	pr.logger.Printf("Frame %d completed in %v (%.1f fps, %d samples)\n",
		frameIndex, stats.Duration, stats.FPS(), stats.TotalSamples)

	return stats, nil
}

// FrameResult contains the result of a single frame
type FrameResult struct {
	FrameIndex int
	Image      *image.RGBA
	Stats      FrameStats
	IsLast     bool
}

// RenderProgressive renders up to maxFrames frames with channel-based communication.
// The caller should read from both channels; the frame channel is closed when
// rendering stops and at most one error is delivered. maxFrames <= 0 renders
// until the context is cancelled.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, maxFrames int) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		if maxFrames > 0 {
			pr.logger.Printf("Starting progressive rendering with %d frames (%d workers)...\n", maxFrames, pr.NumWorkers())
		} else {
			pr.logger.Printf("Starting continuous rendering (%d workers)...\n", pr.NumWorkers())
		}

		for n := 1; maxFrames <= 0 || n <= maxFrames; n++ {
			// Check if client disconnected before starting this frame
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before frame %d\n", pr.frameIndex+1)
				errChan <- ctx.Err()
				return
			default:
			}

			stats, err := pr.RenderFrame(ctx)
			if err != nil {
				errChan <- err
				return
			}

			result := FrameResult{
				FrameIndex: pr.frameIndex,
				Image:      pr.Image(),
				Stats:      stats,
				IsLast:     maxFrames > 0 && n == maxFrames,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, errChan
}

// Close stops the worker pool. The renderer cannot be used afterwards.
func (pr *ProgressiveRenderer) Close() {
	pr.frameRenderer.Close()
}
