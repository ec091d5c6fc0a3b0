package gfx

import (
	"errors"
	"fmt"
)

var (
	ErrSurfaceNotFound    = errors.New("gfx: surface not found")
	ErrNoDevice           = errors.New("gfx: surface has no GPU context")
	ErrShaderInputMissing = errors.New("gfx: shader input missing")
	ErrTextureRejected    = errors.New("gfx: texture upload rejected")
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gfx: %s shader compile failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "gfx: program link failed: " + e.Log
}

// DeviceError is a GPU error observed while issuing frame commands.
type DeviceError struct {
	Op   string
	Code uint32
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("gfx: %s: device error 0x%04x", e.Op, e.Code)
}

// Check polls dev once and attributes any pending error to op.
func Check(dev Device, op string) error {
	err := dev.Err()
	if err == nil {
		return nil
	}
	var de *DeviceError
	if errors.As(err, &de) {
		return &DeviceError{Op: op, Code: de.Code}
	}
	return fmt.Errorf("gfx: %s: %w", op, err)
}
