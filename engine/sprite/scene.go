package sprite

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/pointflock/engine/assets"
	"github.com/hubastard/pointflock/engine/colors"
	"github.com/hubastard/pointflock/engine/gfx"
	"github.com/hubastard/pointflock/engine/profiler"
)

// Placement is an explicit initial state for one sprite.
type Placement struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
}

// SceneConfig describes a scene to build.
type SceneConfig struct {
	SurfaceID string
	Count     int
	// MaxSpeed bounds each velocity component, in pixels per second.
	MaxSpeed float32
	// Image is the shared sprite image. Nil selects assets.Placeholder.
	// Images of another size are scaled to assets.SpriteSize square, the
	// point size the sprite shader draws.
	Image image.Image
	// Rand drives random placement. Nil seeds a PCG source with Seed.
	Rand *rand.Rand
	Seed uint64
	// Placements fixes the initial state of the first len(Placements)
	// sprites; the rest are placed at random.
	Placements []Placement
	// ClearColor is the background. The zero value selects colors.Yellow.
	ClearColor colors.Color
}

// Statistics captures the counts of the last drawn frame.
type Statistics struct {
	Sprites   int
	DrawCalls int
}

// Scene owns the graphics context, the one shared shader and texture, and
// a fixed population of sprites drawn in insertion order.
type Scene struct {
	ctx     *gfx.Context
	shader  *Shader
	texture *gfx.Texture
	sprites []*Sprite
	stats   Statistics
}

// NewScene acquires the surface, compiles the sprite shader, uploads the
// sprite texture once and populates the scene. Any failure aborts setup.
func NewScene(p gfx.SurfaceProvider, cfg SceneConfig) (*Scene, error) {
	ctx, err := gfx.NewContext(p, cfg.SurfaceID)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if cfg.ClearColor != (colors.Color{}) {
		ctx.ClearColor = cfg.ClearColor
	}

	shader, err := NewShader(ctx)
	if err != nil {
		return nil, fmt.Errorf("scene: compile sprite shader: %w", err)
	}

	img := cfg.Image
	switch {
	case img == nil:
		img = assets.Placeholder(color.NRGBA{R: 0xe8, G: 0x4a, B: 0x5f, A: 0xff})
	case img.Bounds().Dx() != assets.SpriteSize || img.Bounds().Dy() != assets.SpriteSize:
		img = assets.ToSprite(img)
	}
	texture, err := gfx.LoadTexture(ctx, img)
	if err != nil {
		shader.Release()
		return nil, fmt.Errorf("scene: load sprite texture: %w", err)
	}

	sc := &Scene{ctx: ctx, shader: shader, texture: texture}
	sc.populate(cfg)
	return sc, nil
}

func (sc *Scene) populate(cfg SceneConfig) {
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	w, h := sc.ctx.Dimensions()
	sc.sprites = make([]*Sprite, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		s := New(sc.ctx, sc.shader, sc.texture)
		if i < len(cfg.Placements) {
			pl := cfg.Placements[i]
			s.SetPosition(pl.Position.X(), pl.Position.Y())
			s.SetVelocity(pl.Velocity.X(), pl.Velocity.Y())
		} else {
			half := s.HalfExtent()
			s.SetPosition(randomIn(r, half.X(), w), randomIn(r, half.Y(), h))
			s.SetVelocity(randomSpeed(r, cfg.MaxSpeed), randomSpeed(r, cfg.MaxSpeed))
		}
		sc.sprites = append(sc.sprites, s)
	}
}

// randomIn picks a coordinate keeping a sprite of the given half extent
// inside [0, size]. When the sprite is larger than the surface it is
// centred.
func randomIn(r *rand.Rand, half, size float32) float32 {
	lo, hi := half, size-half
	if hi < lo {
		return size / 2
	}
	return lo + r.Float32()*(hi-lo)
}

func randomSpeed(r *rand.Rand, limit float32) float32 {
	return (r.Float32()*2 - 1) * limit
}

// Context returns the graphics context of the scene.
func (sc *Scene) Context() *gfx.Context { return sc.ctx }

// Sprites returns the sprites in draw order.
func (sc *Scene) Sprites() []*Sprite { return sc.sprites }

// Stats returns the statistics of the last Draw.
func (sc *Scene) Stats() Statistics { return sc.stats }

// Update advances every sprite by dt seconds.
func (sc *Scene) Update(dt float32) {
	defer profiler.Start("Scene.Update")()
	for _, s := range sc.sprites {
		s.Update(dt)
	}
}

// Draw clears the surface and draws every sprite in order. It stops at the
// first sprite whose draw fails.
func (sc *Scene) Draw() error {
	defer profiler.Start("Scene.Draw")()
	sc.stats = Statistics{Sprites: len(sc.sprites)}
	sc.ctx.Clear()
	for i, s := range sc.sprites {
		if err := s.Draw(); err != nil {
			return fmt.Errorf("scene: sprite %d: %w", i, err)
		}
		sc.stats.DrawCalls++
	}
	return nil
}

// Release frees the shared GPU resources. The scene must not be drawn
// afterwards.
func (sc *Scene) Release() {
	sc.texture.Release()
	sc.shader.Release()
}
