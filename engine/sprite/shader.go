package sprite

import (
	"fmt"

	"github.com/hubastard/pointflock/engine/assets"
	"github.com/hubastard/pointflock/engine/gfx"
)

// Shader is the program every sprite draws with, plus its resolved inputs.
// One Shader is shared by all sprites of a scene.
type Shader struct {
	program    *gfx.Program
	screenSize int32
	texture    int32
	position   uint32
}

// NewShader compiles the embedded sprite shaders.
func NewShader(c *gfx.Context) (*Shader, error) {
	vs, err := assets.LoadShader("sprite.vert")
	if err != nil {
		return nil, err
	}
	fs, err := assets.LoadShader("sprite.frag")
	if err != nil {
		return nil, err
	}
	return NewShaderFromSource(c, vs, fs)
}

// NewShaderFromSource compiles a sprite program from custom sources. The
// sources must declare the screenSize and spriteTexture uniforms and the
// spritePosition attribute.
func NewShaderFromSource(c *gfx.Context, vertexSource, fragmentSource string) (*Shader, error) {
	p, err := gfx.CompileProgram(c, vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	s := &Shader{program: p}
	if s.screenSize, err = p.UniformLocation("screenSize"); err != nil {
		p.Release()
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	if s.texture, err = p.UniformLocation("spriteTexture"); err != nil {
		p.Release()
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	if s.position, err = p.AttribLocation("spritePosition"); err != nil {
		p.Release()
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	return s, nil
}

// Program returns the underlying linked program.
func (s *Shader) Program() *gfx.Program { return s.program }

func (s *Shader) Release() { s.program.Release() }
