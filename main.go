package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-realtime-pathtracer/pkg/config"
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/loaders"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// options are the command line settings that are not part of the render config
type options struct {
	Config       config.RenderConfig
	ResumeFrames int
	List         bool
	Help         bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if opts.Help {
		return
	}
	if opts.List {
		if err := listScenes(os.Stdout); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Starting Realtime Pathtracer...")

	// Ctrl-C stops after the current frame and still saves the image
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// parseFlags builds the render settings: defaults, then the -config file,
// then any flag given explicitly on the command line
func parseFlags(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)

	defaults := config.Default()
	configFile := fs.String("config", "", "JSON render config file (flags override its values)")
	sceneName := fs.String("scene", defaults.Scene, "Scene name, file:<name> or path to a scenes/*.json file")
	width := fs.Int("width", defaults.Width, "Image width in pixels")
	height := fs.Int("height", defaults.Height, "Image height in pixels")
	frames := fs.Int("frames", defaults.Frames, "Number of frames to accumulate (0 = until interrupted)")
	spp := fs.Int("spp", 0, "Samples per pixel per frame (0 = scene default)")
	depth := fs.Int("depth", 0, "Maximum bounces per path (0 = scene default)")
	averaging := fs.Bool("averaging", defaults.AveragingEnabled(), "Blend each frame into the running average")
	weight := fs.Float64("weight", float64(defaults.LastFrameWeight), "Weight of the newest frame in the average")
	texture := fs.String("texture", defaults.Texture, "Accumulator precision: rgba8, rgba16f or rgba32f")
	format := fs.String("format", defaults.Format, "Output image format: png, bmp or tiff")
	fov := fs.Float64("fov", 0, "Vertical field of view in degrees (0 = scene default)")
	workers := fs.Int("workers", 0, "Number of render workers (0 = CPU count)")
	tileSize := fs.Int("tile", defaults.TileSize, "Tile size in pixels")
	resume := fs.String("resume", "", "Image to continue accumulating from")
	resumeFrames := fs.Int("resume-frames", 1, "Number of frames already averaged into the -resume image")
	outputFile := fs.String("output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	list := fs.Bool("list", false, "List available scenes and exit")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *help {
		printHelp(output, fs)
		return options{Help: true}, nil
	}

	cfg := defaults
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}

	// Only flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "spp":
			cfg.SamplesPerPixel = *spp
		case "depth":
			cfg.MaxDepth = *depth
		case "averaging":
			cfg.Averaging = averaging
		case "weight":
			cfg.LastFrameWeight = float32(*weight)
		case "texture":
			cfg.Texture = *texture
		case "format":
			cfg.Format = *format
		case "fov":
			cfg.VFov = float32(*fov)
		case "workers":
			cfg.Workers = *workers
		case "tile":
			cfg.TileSize = *tileSize
		case "resume":
			cfg.Resume = *resume
		case "output":
			cfg.Output = *outputFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	return options{
		Config:       cfg,
		ResumeFrames: *resumeFrames,
		List:         *list,
	}, nil
}

// run renders the configured scene and saves the final image, returning its path
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	cfg := opts.Config

	selectedScene, err := scene.ByName(cfg.Scene)
	if err != nil {
		return "", err
	}
	cfg = cfg.WithSceneDefaults(selectedScene.SamplingConfig.SamplesPerPixel, selectedScene.SamplingConfig.MaxDepth)
	logger.Printf("Using %s scene (%d spheres) at %dx%d, %d spp, depth %d\n",
		selectedScene.Name, selectedScene.SphereCount(), cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth)

	cam := selectedScene.CameraFor(cfg.Width, cfg.Height)
	if cfg.VFov > 0 {
		cam.VFov = cfg.VFov
	}

	progressiveConfig, err := cfg.ProgressiveConfig()
	if err != nil {
		return "", err
	}

	pr, err := renderer.NewProgressiveRenderer(selectedScene.World, cfg.Width, cfg.Height, cam, progressiveConfig, logger)
	if err != nil {
		return "", err
	}
	defer pr.Close()

	if cfg.Resume != "" {
		img, err := loaders.LoadImage(cfg.Resume)
		if err != nil {
			return "", fmt.Errorf("loading resume image: %w", err)
		}
		if err := pr.Resume(img, opts.ResumeFrames); err != nil {
			return "", err
		}
	}

	startTime := time.Now()
	frameChan, errChan := pr.RenderProgressive(ctx, cfg.Frames)

	var last renderer.FrameResult
	for result := range frameChan {
		last = result
	}
	if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
		return "", fmt.Errorf("rendering failed: %w", err)
	}
	if last.Image == nil {
		// Cancelled before the first frame finished
		last.Image = pr.Image()
	}

	logger.Printf("Render completed in %v (%d frames)\n", time.Since(startTime), pr.FrameIndex())

	filename := cfg.OutputPath(time.Now().Format("20060102_150405"))
	if err := loaders.SaveImage(filename, last.Image); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return filename, nil
}

func listScenes(w io.Writer) error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %s (%d spheres)\n", info.ID, info.Description, info.Spheres)
		}
	}
	return nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Realtime Pathtracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run with -list to see the available scenes.")
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.<format>")
}
