package record

import (
	"fmt"

	"github.com/hubastard/pointflock/engine/gfx"
)

// Surface is an in-memory drawable with a recording device. It also
// satisfies core.Window so the frame driver can run headless.
type Surface struct {
	width, height int
	dev           *Device
	noDevice      bool

	frames     int
	closeAfter int
}

// Resize changes the size reported from the next query on.
func (s *Surface) Resize(width, height int) { s.width, s.height = width, height }

// DisableDevice makes the surface report that no GPU context exists.
func (s *Surface) DisableDevice() { s.noDevice = true }

// CloseAfter makes ShouldClose report true once n frames were presented.
func (s *Surface) CloseAfter(n int) { s.closeAfter = n }

// Frames returns the number of presented frames.
func (s *Surface) Frames() int { return s.frames }

// Recorder returns the recording device behind the surface.
func (s *Surface) Recorder() *Device { return s.dev }

func (s *Surface) FramebufferSize() (int, int) { return s.width, s.height }

func (s *Surface) Device() gfx.Device {
	if s.noDevice {
		return nil
	}
	return s.dev
}

func (s *Surface) PollEvents() {}

func (s *Surface) ShouldClose() bool { return s.closeAfter > 0 && s.frames >= s.closeAfter }

func (s *Surface) Present() { s.frames++ }

// Provider resolves surfaces registered with Add.
type Provider struct {
	surfaces map[string]*Surface
}

var _ gfx.SurfaceProvider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{surfaces: map[string]*Surface{}}
}

// Add registers a surface of the given size with a fresh device.
func (p *Provider) Add(id string, width, height int) *Surface {
	s := &Surface{width: width, height: height, dev: NewDevice()}
	p.surfaces[id] = s
	return s
}

// Device returns the recording device of a registered surface, or nil.
func (p *Provider) Device(id string) *Device {
	if s, ok := p.surfaces[id]; ok {
		return s.dev
	}
	return nil
}

func (p *Provider) Surface(id string) (gfx.Surface, error) {
	s, ok := p.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", gfx.ErrSurfaceNotFound, id)
	}
	return s, nil
}
