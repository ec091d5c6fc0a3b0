package platform

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hubastard/pointflock/engine/core"
	"github.com/hubastard/pointflock/engine/gfx"
	glbackend "github.com/hubastard/pointflock/engine/gfx/gl"
)

// GLFWProvider resolves surface identifiers to GLFW windows. Windows are
// created on first request from the config registered under the id.
type GLFWProvider struct {
	ctx      context.Context
	surfaces map[string]core.Config
	windows  map[string]*GLFWWindow
}

var _ gfx.SurfaceProvider = (*GLFWProvider)(nil)

// Must be called on main thread before any GL calls.
func NewGLFWProvider(ctx context.Context, surfaces map[string]core.Config) (*GLFWProvider, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	return &GLFWProvider{
		ctx:      ctx,
		surfaces: surfaces,
		windows:  map[string]*GLFWWindow{},
	}, nil
}

// Surface implements gfx.SurfaceProvider.
func (p *GLFWProvider) Surface(id string) (gfx.Surface, error) {
	return p.Window(id)
}

// Window returns the window for id, creating it on first use.
func (p *GLFWProvider) Window(id string) (*GLFWWindow, error) {
	if w, ok := p.windows[id]; ok {
		return w, nil
	}
	cfg, ok := p.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", gfx.ErrSurfaceNotFound, id)
	}
	w, err := newGLFWWindow(p.ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("surface %q: %w", id, err)
	}
	p.windows[id] = w
	return w, nil
}

// Terminate destroys every window and shuts GLFW down.
func (p *GLFWProvider) Terminate() {
	for id, w := range p.windows {
		w.destroy()
		delete(p.windows, id)
	}
	glfw.Terminate()
}

// GLFWWindow implements core.Window and gfx.Surface.
type GLFWWindow struct {
	w   *glfw.Window
	dev *glbackend.DeviceGL
}

var (
	_ core.Window = (*GLFWWindow)(nil)
	_ gfx.Surface = (*GLFWWindow)(nil)
)

func newGLFWWindow(ctx context.Context, cfg core.Config) (*GLFWWindow, error) {
	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, err
	}
	log.Printf("GL: %s\n", gl.GoStr(gl.GetString(gl.VERSION)))

	dev, err := glbackend.NewDeviceGL(ctx)
	if err != nil {
		win.Destroy()
		return nil, err
	}

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return &GLFWWindow{w: win, dev: dev}, nil
}

func (g *GLFWWindow) destroy() {
	g.w.MakeContextCurrent()
	g.dev.Shutdown()
	g.w.Destroy()
}

// core.Window impl
func (g *GLFWWindow) PollEvents()       { glfw.PollEvents() }
func (g *GLFWWindow) ShouldClose() bool { return g.w.ShouldClose() }
func (g *GLFWWindow) Present()          { g.w.SwapBuffers() }

// gfx.Surface impl
func (g *GLFWWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) Device() gfx.Device          { return g.dev }

func (g *GLFWWindow) SetTitle(t string) { g.w.SetTitle(t) }
