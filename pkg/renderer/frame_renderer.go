package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

// DefaultTileSize is the tile edge length used when none is configured
const DefaultTileSize = 64

// RenderTile renders every pixel within bounds, reading the previous frame
// from prev and writing the blended result to out
func RenderTile(bounds image.Rectangle, params FrameParams, world *geometry.World, prev, out Texture) TileStats {
	stats := TileStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			texel := SamplePixel(x, y, params, world, prev.Load(x, y))
			out.Store(x, y, texel)

			stats.Pixels++
			stats.Samples += max(params.SamplesPerPixel, 0)
			stats.LuminanceSum += float64(texel.RGB().Luminance())
		}
	}

	return stats
}

// FrameRenderer evaluates whole frames by splitting them into tiles and
// handing the tiles to a worker pool
type FrameRenderer struct {
	world         *geometry.World
	width, height int
	tiles         []*Tile
	workerPool    *WorkerPool

	mu sync.Mutex // one frame in flight at a time
}

// NewFrameRenderer creates a frame renderer and starts its workers.
// Call Close when done to stop them.
func NewFrameRenderer(world *geometry.World, width, height, tileSize, numWorkers int) *FrameRenderer {
	tiles := NewTileGrid(width, height, tileSize)

	pool := NewWorkerPool(world, len(tiles), numWorkers)
	pool.Start()

	return &FrameRenderer{
		world:      world,
		width:      width,
		height:     height,
		tiles:      tiles,
		workerPool: pool,
	}
}

// NumWorkers returns the number of parallel workers
func (fr *FrameRenderer) NumWorkers() int {
	return fr.workerPool.GetNumWorkers()
}

// NumTiles returns the number of tiles per frame
func (fr *FrameRenderer) NumTiles() int {
	return len(fr.tiles)
}

// RenderFrame renders one complete frame into out. Once dispatched a frame
// always runs to completion; cancellation is only checked beforehand.
func (fr *FrameRenderer) RenderFrame(ctx context.Context, params FrameParams, prev, out Texture) (FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return FrameStats{}, err
	}
	if err := fr.checkTexture("previous", prev); err != nil {
		return FrameStats{}, err
	}
	if err := fr.checkTexture("output", out); err != nil {
		return FrameStats{}, err
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	params.Width, params.Height = fr.width, fr.height
	startTime := time.Now()

	// Submit all tiles as tasks
	for taskID, tile := range fr.tiles {
		task := TileTask{
			Tile:   tile,
			Params: params,
			Prev:   prev,
			Out:    out,
			TaskID: taskID,
		}
		if err := fr.workerPool.SubmitTask(task); err != nil {
			// Tiles already queued must not leak into the next frame's results
			fr.drainResults(taskID)
			return FrameStats{}, fmt.Errorf("submitting tile %d: %w", tile.ID, err)
		}
	}

	// Wait for all tiles to complete
	var totals TileStats
	for i := 0; i < len(fr.tiles); i++ {
		result, ok := fr.workerPool.GetResult()
		if !ok {
			return FrameStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		totals.Add(result.Stats)
	}

	return newFrameStats(params.FrameIndex, totals, time.Since(startTime)), nil
}

// drainResults discards up to n pending tile results
func (fr *FrameRenderer) drainResults(n int) {
	for i := 0; i < n; i++ {
		if _, ok := fr.workerPool.GetResult(); !ok {
			return
		}
	}
}

// Close stops the worker pool
func (fr *FrameRenderer) Close() {
	fr.workerPool.Stop()
}

func (fr *FrameRenderer) checkTexture(name string, tex Texture) error {
	if tex == nil {
		return fmt.Errorf("%s texture is nil", name)
	}
	if tex.Width() != fr.width || tex.Height() != fr.height {
		return fmt.Errorf("%s texture is %dx%d, expected %dx%d",
			name, tex.Width(), tex.Height(), fr.width, fr.height)
	}
	return nil
}
