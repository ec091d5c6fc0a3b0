package gfx

import "fmt"

// Program is a linked vertex+fragment shader pair. A Program value always
// holds a successfully linked program.
type Program struct {
	dev Device
	id  uint32
}

// CompileProgram compiles both stages and links them. Stage compile errors
// are reported as *CompileError and link errors as *LinkError; in every
// failure case no program is returned.
func CompileProgram(c *Context, vertexSource, fragmentSource string) (*Program, error) {
	dev := c.Device()

	vs, err := compileStage(dev, VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(dev, FragmentStage, fragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	id, err := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}
	Logger().Debug("gfx: program linked", "program", id)
	return &Program{dev: dev, id: id}, nil
}

func compileStage(dev Device, stage ShaderStage, src string) (uint32, error) {
	id, err := dev.CompileShader(stage, src)
	if err != nil {
		return 0, &CompileError{Stage: stage, Log: err.Error()}
	}
	Logger().Debug("gfx: shader compiled", "stage", stage, "shader", id)
	return id, nil
}

// ID returns the device handle of the program.
func (p *Program) ID() uint32 { return p.id }

// Use makes p the active program for following draws.
func (p *Program) Use() { p.dev.UseProgram(p.id) }

// UniformLocation resolves a uniform of the linked program.
func (p *Program) UniformLocation(name string) (int32, error) {
	loc := p.dev.UniformLocation(p.id, name)
	if loc < 0 {
		return -1, fmt.Errorf("%w: uniform %q", ErrShaderInputMissing, name)
	}
	return loc, nil
}

// AttribLocation resolves a vertex attribute of the linked program.
func (p *Program) AttribLocation(name string) (uint32, error) {
	loc := p.dev.AttribLocation(p.id, name)
	if loc < 0 {
		return 0, fmt.Errorf("%w: attribute %q", ErrShaderInputMissing, name)
	}
	return uint32(loc), nil
}

// Release deletes the program. p must not be used afterwards.
func (p *Program) Release() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}
