package core

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/hubastard/pointflock/engine/profiler"
)

// Run attaches the layers and drives the frame loop on win until the
// window asks to close, ctx is cancelled or cfg.MaxFrames is reached.
// Every frame polls events, updates each layer with the elapsed time,
// renders each layer and presents. A render error stops the loop and is
// returned with the frame number.
func Run(ctx context.Context, cfg Config, win Window, layers ...Layer) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	maxDelta := cfg.MaxDelta
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}

	eng := &Engine{Window: win, Config: cfg, start: clock(), now: clock}
	var stack LayerStack
	defer func() {
		for l, ok := stack.Pop(); ok; l, ok = stack.Pop() {
			l.OnDetach(eng)
		}
	}()
	for _, l := range layers {
		if err := l.OnAttach(eng); err != nil {
			return fmt.Errorf("attach layer: %w", err)
		}
		stack.Push(l)
	}

	prev := eng.start
	for ctx.Err() == nil && !win.ShouldClose() {
		if cfg.MaxFrames > 0 && eng.frame >= cfg.MaxFrames {
			break
		}
		if err := runFrame(eng, &stack, win, &prev, maxDelta); err != nil {
			return fmt.Errorf("frame %d: %w", eng.frame, err)
		}
		eng.frame++
	}

	log.Println("Engine exit")
	return nil
}

func runFrame(eng *Engine, stack *LayerStack, win Window, prev *time.Time, maxDelta time.Duration) error {
	defer profiler.Start("Frame")()

	win.PollEvents()

	now := eng.now()
	dt := min(now.Sub(*prev), maxDelta)
	*prev = now

	stack.ForEach(func(l Layer) { l.OnUpdate(eng, dt.Seconds()) })
	if err := stack.Each(func(l Layer) error { return l.OnRender(eng) }); err != nil {
		return err
	}

	win.Present()
	return nil
}
