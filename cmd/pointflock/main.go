// Command pointflock bounces textured point sprites around a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xlab/closer"

	"github.com/hubastard/pointflock/engine/assets"
	"github.com/hubastard/pointflock/engine/colors"
	"github.com/hubastard/pointflock/engine/core"
	"github.com/hubastard/pointflock/engine/gfx"
	"github.com/hubastard/pointflock/engine/gfx/record"
	"github.com/hubastard/pointflock/engine/platform"
	"github.com/hubastard/pointflock/engine/profiler"
	"github.com/hubastard/pointflock/engine/sprite"
)

const surfaceID = "canvas"

// headlessFrames bounds a headless run started without -frames.
const headlessFrames = 300

type options struct {
	width, height int
	sprites       int
	maxSpeed      float64
	seed          uint64
	image         string
	clear         colors.Color
	vsync         bool
	frames        int
	headless      bool
	verbose       bool
	profileOut    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	o := options{clear: colors.Yellow}
	fs := flag.NewFlagSet("pointflock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.width, "width", 640, "canvas width in pixels")
	fs.IntVar(&o.height, "height", 480, "canvas height in pixels")
	fs.IntVar(&o.sprites, "sprites", 1, "number of sprites")
	fs.Float64Var(&o.maxSpeed, "max-speed", 200, "largest velocity component in pixels per second")
	fs.Uint64Var(&o.seed, "seed", uint64(time.Now().UnixNano()), "seed for random placement")
	fs.StringVar(&o.image, "image", "", "sprite image (png, jpeg, gif, bmp or webp); empty draws a disc")
	clearHex := fs.String("clear", "#ffff00", "background color as #rrggbb or #rrggbbaa")
	fs.BoolVar(&o.vsync, "vsync", true, "wait for vertical sync")
	fs.IntVar(&o.frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	fs.BoolVar(&o.headless, "headless", false, "draw into a recording device instead of a window")
	fs.BoolVar(&o.verbose, "v", false, "log graphics device activity")
	fs.StringVar(&o.profileOut, "profile-out", "", "write a speedscope capture here on exit (profile builds)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	c, err := colors.Parse(*clearHex)
	if err != nil {
		return o, fmt.Errorf("-clear: %w", err)
	}
	o.clear = c
	switch {
	case o.width <= 0 || o.height <= 0:
		return o, fmt.Errorf("canvas size %dx%d must be positive", o.width, o.height)
	case o.sprites < 0:
		return o, errors.New("-sprites must not be negative")
	case o.maxSpeed < 0:
		return o, errors.New("-max-speed must not be negative")
	}
	return o, nil
}

func main() {
	defer closer.Close()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		closer.Fatalf("pointflock: %v", err)
	}

	ctx, in := newInterrupt(context.Background())
	closer.Bind(in.cleanup)

	err = run(ctx, opts)
	in.finished()
	if err != nil {
		closer.Fatalf("pointflock: %v", err)
	}
}

// interrupt hands a closer cleanup over to the frame loop. The cleanup
// cancels the loop and blocks until run has returned, so layers detach,
// windows close and the profile is written before closer exits.
type interrupt struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newInterrupt(parent context.Context) (context.Context, *interrupt) {
	ctx, cancel := context.WithCancel(parent)
	return ctx, &interrupt{cancel: cancel, done: make(chan struct{})}
}

func (in *interrupt) cleanup() {
	in.cancel()
	<-in.done
}

// finished marks run as returned. It must be called on every path before
// closer exits.
func (in *interrupt) finished() {
	in.once.Do(func() { close(in.done) })
}

func run(ctx context.Context, o options) error {
	if o.verbose {
		gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if o.profileOut != "" {
		profiler.Init(1 << 20)
		defer dumpProfile(o.profileOut)
	}

	img, err := loadImage(o.image)
	if err != nil {
		return err
	}

	win := core.Config{
		Title:     "pointflock",
		Width:     o.width,
		Height:    o.height,
		VSync:     o.vsync,
		MaxFrames: o.frames,
	}
	layer := &sceneLayer{cfg: sprite.SceneConfig{
		SurfaceID:  surfaceID,
		Count:      o.sprites,
		MaxSpeed:   float32(o.maxSpeed),
		Image:      img,
		Seed:       o.seed,
		ClearColor: o.clear,
	}}

	if o.headless {
		return runHeadless(ctx, win, layer)
	}

	p, err := platform.NewGLFWProvider(ctx, map[string]core.Config{surfaceID: win})
	if err != nil {
		return err
	}
	defer p.Terminate()
	w, err := p.Window(surfaceID)
	if err != nil {
		return err
	}
	layer.provider = p
	return core.Run(ctx, win, w, layer)
}

func runHeadless(ctx context.Context, win core.Config, layer *sceneLayer) error {
	if win.MaxFrames == 0 {
		win.MaxFrames = headlessFrames
	}
	p := record.NewProvider()
	s := p.Add(surfaceID, win.Width, win.Height)
	layer.provider = p
	if err := core.Run(ctx, win, s, layer); err != nil {
		return err
	}
	dev := s.Recorder()
	log.Printf("headless: %d frames, %d points drawn, %d shaders compiled, %d programs linked, %d textures uploaded",
		s.Frames(), dev.PointsDrawn(), dev.ShadersCompiled(), dev.ProgramsLinked(), dev.TexturesUploaded())
	return nil
}

func loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := assets.Images{FS: os.DirFS(filepath.Dir(path))}.Image(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("sprite image: %w", err)
	}
	return img, nil
}

func dumpProfile(path string) {
	if !profiler.Enabled {
		log.Printf("profile: %s not written, build with -tags profile", path)
		return
	}
	n, err := profiler.Dump(path)
	if err != nil {
		log.Printf("profile: %v", err)
		return
	}
	log.Printf("profile: wrote %d events to %s", n, path)
}
