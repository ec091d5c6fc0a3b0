package gfx

import (
	"fmt"

	"github.com/hubastard/pointflock/engine/colors"
)

// Surface is a drawable target bound 1:1 to a GPU context.
type Surface interface {
	// FramebufferSize reports the current drawable size in pixels.
	FramebufferSize() (int, int)
	// Device returns the GPU context of this surface, or nil if none could
	// be created.
	Device() Device
}

// SurfaceProvider resolves drawable surfaces by identifier.
type SurfaceProvider interface {
	Surface(id string) (Surface, error)
}

// Context owns a surface and its GPU context for the life of a scene.
type Context struct {
	id         string
	surface    Surface
	dev        Device
	ClearColor colors.Color
}

// NewContext resolves the surface named id and acquires its GPU context.
// There is no fallback: a missing surface or context is an error.
func NewContext(p SurfaceProvider, id string) (*Context, error) {
	s, err := p.Surface(id)
	if err != nil {
		return nil, fmt.Errorf("acquire surface %q: %w", id, err)
	}
	if s == nil {
		return nil, fmt.Errorf("acquire surface %q: %w", id, ErrSurfaceNotFound)
	}
	dev := s.Device()
	if dev == nil {
		return nil, fmt.Errorf("acquire surface %q: %w", id, ErrNoDevice)
	}
	c := &Context{id: id, surface: s, dev: dev, ClearColor: colors.Yellow}
	w, h := c.Dimensions()
	Logger().Info("gfx: context acquired", "surface", id, "width", w, "height", h)
	return c, nil
}

// Device returns the GPU context.
func (c *Context) Device() Device { return c.dev }

// Dimensions queries the surface size live; it is never cached.
func (c *Context) Dimensions() (width, height float32) {
	w, h := c.surface.FramebufferSize()
	return float32(w), float32(h)
}

// Clear resets the viewport to the current surface size and fills it with
// ClearColor. Call once at the start of every frame.
func (c *Context) Clear() {
	w, h := c.surface.FramebufferSize()
	c.dev.Viewport(w, h)
	c.dev.Clear(c.ClearColor)
}
