package renderer

import "time"

// TileStats contains statistics about a single rendered tile
type TileStats struct {
	Pixels       int     // Number of pixels rendered
	Samples      int     // Number of camera samples taken
	LuminanceSum float64 // Sum of stored texel luminance
}

// Add accumulates another tile's statistics
func (ts *TileStats) Add(other TileStats) {
	ts.Pixels += other.Pixels
	ts.Samples += other.Samples
	ts.LuminanceSum += other.LuminanceSum
}

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	FrameIndex       int           // Frame number, starting at 1
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of samples taken
	Duration         time.Duration // Wall time spent rendering the frame
	AverageLuminance float64       // Mean luminance of the stored texels
}

// FPS returns the frame rate implied by the frame duration
func (fs FrameStats) FPS() float64 {
	if fs.Duration <= 0 {
		return 0
	}
	return float64(time.Second) / float64(fs.Duration)
}

// SamplesPerSecond returns the sampling throughput of the frame
func (fs FrameStats) SamplesPerSecond() float64 {
	if fs.Duration <= 0 {
		return 0
	}
	return float64(fs.TotalSamples) / fs.Duration.Seconds()
}

// newFrameStats finalizes accumulated tile statistics
func newFrameStats(frameIndex int, tiles TileStats, duration time.Duration) FrameStats {
	stats := FrameStats{
		FrameIndex:   frameIndex,
		TotalPixels:  tiles.Pixels,
		TotalSamples: tiles.Samples,
		Duration:     duration,
	}
	if tiles.Pixels > 0 {
		stats.AverageLuminance = tiles.LuminanceSum / float64(tiles.Pixels)
	}
	return stats
}
