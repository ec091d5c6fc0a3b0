package sprite

import (
	"image"
	"math/rand/v2"
	"testing"

	"github.com/hubastard/pointflock/engine/gfx"
	"github.com/hubastard/pointflock/engine/gfx/record"
)

// newTestSprite builds a sprite on a w x h recording surface with a square
// texture of edge tex pixels.
func newTestSprite(t *testing.T, w, h, tex int) (*Sprite, *record.Surface) {
	t.Helper()
	p := record.NewProvider()
	surf := p.Add("canvas", w, h)
	ctx, err := gfx.NewContext(p, "canvas")
	if err != nil {
		t.Fatal(err)
	}
	sh, err := NewShader(ctx)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	tx, err := gfx.LoadTexture(ctx, image.NewRGBA(image.Rect(0, 0, tex, tex)))
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	surf.Recorder().Reset()
	return New(ctx, sh, tx), surf
}

func TestUpdateReflectsAtWall(t *testing.T) {
	s, _ := newTestSprite(t, 20, 20, 16)
	s.SetPosition(10, 10)
	s.SetVelocity(5, 0)

	s.Update(1)

	if got := s.Velocity().X(); got != -5 {
		t.Errorf("velocity.x = %v, want -5", got)
	}
	if got := s.Position(); got.X() != 5 || got.Y() != 10 {
		t.Errorf("position = %v, want (5, 10)", got)
	}
}

func TestUpdateReflectsAtLeftAndTopWalls(t *testing.T) {
	s, _ := newTestSprite(t, 100, 100, 16)
	s.SetPosition(10, 12)
	s.SetVelocity(-4, -6)

	s.Update(1)

	if v := s.Velocity(); v.X() != 4 || v.Y() != 6 {
		t.Errorf("velocity = %v, want (4, 6)", v)
	}
	if p := s.Position(); p.X() != 14 || p.Y() != 18 {
		t.Errorf("position = %v, want (14, 18)", p)
	}
}

func TestUpdateFreeFlight(t *testing.T) {
	s, _ := newTestSprite(t, 640, 480, 64)
	s.SetPosition(100, 250)
	s.SetVelocity(40, -20)

	s.Update(0.5)

	if p := s.Position(); p.X() != 120 || p.Y() != 240 {
		t.Errorf("position = %v, want (120, 240)", p)
	}
	if v := s.Velocity(); v.X() != 40 || v.Y() != -20 {
		t.Errorf("velocity changed to %v", v)
	}
}

func TestUpdateZeroVelocityIsIdempotent(t *testing.T) {
	s, _ := newTestSprite(t, 640, 480, 64)
	s.SetPosition(32, 448)
	for _, dt := range []float32{0, 0.016, 1, 1000} {
		s.Update(dt)
		if p := s.Position(); p.X() != 32 || p.Y() != 448 {
			t.Fatalf("after Update(%v) position = %v, want (32, 448)", dt, p)
		}
	}
}

func TestUpdateStaysInBounds(t *testing.T) {
	const (
		w, h = 640, 480
		eps  = 1e-3
	)
	s, _ := newTestSprite(t, w, h, 64)
	half := s.HalfExtent()
	r := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 50; trial++ {
		s.SetPosition(half.X()+r.Float32()*(w-2*half.X()), half.Y()+r.Float32()*(h-2*half.Y()))
		s.SetVelocity((r.Float32()*2-1)*200, (r.Float32()*2-1)*200)
		for step := 0; step < 500; step++ {
			s.Update(r.Float32() * 0.05)
			p := s.Position()
			if p.X()-half.X() < -eps || p.X()+half.X() > w+eps ||
				p.Y()-half.Y() < -eps || p.Y()+half.Y() > h+eps {
				t.Fatalf("trial %d step %d: position %v escaped %vx%v", trial, step, p, w, h)
			}
		}
	}
}

func TestDrawCommandSequence(t *testing.T) {
	s, surf := newTestSprite(t, 640, 480, 64)
	s.SetPosition(100, 250)

	if err := s.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	prog := s.Shader().Program().ID()
	tex := s.Texture().ID()
	want := []record.Call{
		{Op: record.OpUseProgram, Args: []any{prog}},
		{Op: record.OpUniform2f, Args: []any{int32(0), float32(640), float32(480)}},
		{Op: record.OpBindTexture, Args: []any{uint32(0), tex}},
		{Op: record.OpUniform1i, Args: []any{int32(1), int32(0)}},
		{Op: record.OpUploadVertices, Args: []any{[]float32{100, 250}}},
		{Op: record.OpEnableVertexAttrib, Args: []any{uint32(0), int32(2)}},
		{Op: record.OpColorMask, Args: []any{true, true, true, false}},
		{Op: record.OpEnableAlphaBlend},
		{Op: record.OpDrawPoints, Args: []any{int32(0), int32(1)}},
		{Op: record.OpColorMask, Args: []any{true, true, true, true}},
	}
	got := surf.Recorder().Calls()
	if len(got) != len(want)+1 {
		t.Fatalf("recorded %d calls, want %d:\n%v", len(got), len(want)+1, surf.Recorder().Trace())
	}
	for i, c := range want {
		if got[i].String() != c.String() {
			t.Errorf("call %d = %v, want %v", i, got[i], c)
		}
	}
	if last := got[len(got)-1]; last.Op != record.OpDeleteBuffer {
		t.Errorf("last call = %v, want DeleteBuffer", last)
	}
	if n := surf.Recorder().LiveObjects(); n != 2 {
		t.Errorf("LiveObjects = %d, want 2 (program and texture)", n)
	}
}

func TestDrawReadsSurfaceSizeEveryTime(t *testing.T) {
	s, surf := newTestSprite(t, 640, 480, 64)
	surf.Resize(1024, 768)
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	for _, c := range surf.Recorder().Calls() {
		if c.Op == record.OpUniform2f {
			if c.String() != "Uniform2f(0, 1024, 768)" {
				t.Errorf("screenSize = %v, want 1024x768", c)
			}
			return
		}
	}
	t.Fatal("no screenSize uniform recorded")
}

func TestDrawReportsDeviceError(t *testing.T) {
	s, surf := newTestSprite(t, 640, 480, 64)
	surf.Recorder().InjectError(0x0506)
	err := s.Draw()
	de, ok := err.(*gfx.DeviceError)
	if !ok || de.Code != 0x0506 || de.Op != "draw sprite" {
		t.Fatalf("Draw error = %v, want draw sprite device error 0x0506", err)
	}
}
