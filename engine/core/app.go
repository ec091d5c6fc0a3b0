package core

import "time"

// Engine exposes frame driver state to the layers.
type Engine struct {
	Window Window
	Config Config
	start  time.Time
	now    func() time.Time
	frame  int
}

// Uptime is the time elapsed since Run started.
func (e *Engine) Uptime() time.Duration { return e.now().Sub(e.start) }

// Frame is the number of frames presented so far.
func (e *Engine) Frame() int { return e.frame }

// Window abstraction.
type Window interface {
	PollEvents()
	ShouldClose() bool
	Present()
}

// Config for the engine run.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool

	// MaxFrames stops the loop after that many frames. Zero runs until the
	// window closes or the context is cancelled.
	MaxFrames int
	// MaxDelta caps the step handed to OnUpdate. Zero selects
	// DefaultMaxDelta.
	MaxDelta time.Duration
	// Clock replaces time.Now, for tests.
	Clock func() time.Time
}

// DefaultMaxDelta keeps a stalled frame (a dragged window, a debugger
// break) from moving sprites by seconds at once.
const DefaultMaxDelta = 250 * time.Millisecond
