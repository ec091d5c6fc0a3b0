package sprite

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/pointflock/engine/gfx"
)

// Sprite is one textured point moving in surface pixel space (origin
// top-left, y down). The shader and texture are shared, never owned.
type Sprite struct {
	ctx     *gfx.Context
	shader  *Shader
	texture *gfx.Texture

	position mgl32.Vec2
	velocity mgl32.Vec2
	vertex   [2]float32
}

func New(ctx *gfx.Context, shader *Shader, texture *gfx.Texture) *Sprite {
	return &Sprite{ctx: ctx, shader: shader, texture: texture}
}

// SetPosition places the sprite centre. No bounds are enforced.
func (s *Sprite) SetPosition(x, y float32) { s.position = mgl32.Vec2{x, y} }

// SetVelocity sets the velocity in pixels per second.
func (s *Sprite) SetVelocity(vx, vy float32) { s.velocity = mgl32.Vec2{vx, vy} }

func (s *Sprite) Position() mgl32.Vec2 { return s.position }
func (s *Sprite) Velocity() mgl32.Vec2 { return s.velocity }

// Shader returns the shared shader the sprite draws with.
func (s *Sprite) Shader() *Shader { return s.shader }

// Texture returns the shared texture the sprite draws with.
func (s *Sprite) Texture() *gfx.Texture { return s.texture }

// HalfExtent is half the texture size, the sprite's margin to each wall.
func (s *Sprite) HalfExtent() mgl32.Vec2 {
	w, h := s.texture.Dimensions()
	return mgl32.Vec2{w / 2, h / 2}
}

// Update advances the sprite by dt seconds. Each axis is handled on its
// own: if the step would push the sprite's extent past a wall, the velocity
// on that axis flips and the reversed step is applied to the position the
// sprite had before this update.
func (s *Sprite) Update(dt float32) {
	w, h := s.ctx.Dimensions()
	bounds := mgl32.Vec2{w, h}
	half := s.HalfExtent()

	for axis := 0; axis < 2; axis++ {
		d := dt * s.velocity[axis]
		next := s.position[axis] + d
		if next+half[axis] > bounds[axis] || next-half[axis] < 0 {
			d = -d
			s.velocity[axis] = -s.velocity[axis]
		}
		s.position[axis] += d
	}
}

// Draw issues a single point draw for the sprite. A device error is
// returned as is; there is no retry.
func (s *Sprite) Draw() error {
	dev := s.ctx.Device()
	sh := s.shader

	sh.program.Use()
	w, h := s.ctx.Dimensions()
	dev.Uniform2f(sh.screenSize, w, h)

	s.texture.Bind(0)
	dev.Uniform1i(sh.texture, 0)

	s.vertex = [2]float32{s.position.X(), s.position.Y()}
	vbo, err := dev.UploadVertices(s.vertex[:])
	if err != nil {
		return fmt.Errorf("sprite: upload position: %w", err)
	}
	dev.EnableVertexAttrib(sh.position, 2)

	// Keep the surface's own alpha out of the blend.
	dev.ColorMask(true, true, true, false)
	dev.EnableAlphaBlend()
	dev.DrawPoints(0, 1)
	dev.ColorMask(true, true, true, true)
	dev.DeleteBuffer(vbo)

	return gfx.Check(dev, "draw sprite")
}
