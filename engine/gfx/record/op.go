// Package record provides a gfx.Device that executes nothing and records
// every command it receives.
//
// Commands are captured as typed Call values so tests can assert the exact
// sequence a frame produces. Shader sources go through a small GLSL checker
// that reports syntax errors in the style of a real compiler log and assigns
// locations to declared uniforms and attributes, so missing-input and
// compile-failure paths behave like a live driver.
//
// # Example
//
//	p := record.NewProvider()
//	p.Add("canvas", 640, 480)
//	ctx, _ := gfx.NewContext(p, "canvas")
//	...
//	for _, c := range p.Device("canvas").Calls() {
//	    fmt.Println(c)
//	}
package record

import (
	"fmt"
	"strings"
)

// Op identifies a recorded device command.
type Op uint8

const (
	OpCompileShader Op = iota
	OpDeleteShader
	OpLinkProgram
	OpDeleteProgram
	OpUseProgram
	OpUniform1i
	OpUniform2f
	OpUploadTexture
	OpDeleteTexture
	OpBindTexture
	OpUploadVertices
	OpDeleteBuffer
	OpEnableVertexAttrib
	OpEnableAlphaBlend
	OpColorMask
	OpViewport
	OpClear
	OpDrawPoints
)

var opNames = [...]string{
	OpCompileShader:      "CompileShader",
	OpDeleteShader:       "DeleteShader",
	OpLinkProgram:        "LinkProgram",
	OpDeleteProgram:      "DeleteProgram",
	OpUseProgram:         "UseProgram",
	OpUniform1i:          "Uniform1i",
	OpUniform2f:          "Uniform2f",
	OpUploadTexture:      "UploadTexture",
	OpDeleteTexture:      "DeleteTexture",
	OpBindTexture:        "BindTexture",
	OpUploadVertices:     "UploadVertices",
	OpDeleteBuffer:       "DeleteBuffer",
	OpEnableVertexAttrib: "EnableVertexAttrib",
	OpEnableAlphaBlend:   "EnableAlphaBlend",
	OpColorMask:          "ColorMask",
	OpViewport:           "Viewport",
	OpClear:              "Clear",
	OpDrawPoints:         "DrawPoints",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Call is one recorded command with its arguments.
type Call struct {
	Op   Op
	Args []any
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Op.String() + "(" + strings.Join(args, ", ") + ")"
}
