package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hubastard/pointflock/engine/core"
	"github.com/hubastard/pointflock/engine/gfx"
	"github.com/hubastard/pointflock/engine/sprite"
)

// titler is implemented by windows with a title bar.
type titler interface {
	SetTitle(title string)
}

// sceneLayer drives a sprite.Scene from the frame loop and reports the
// frame rate once per second, in the log and in the window title.
type sceneLayer struct {
	provider gfx.SurfaceProvider
	cfg      sprite.SceneConfig
	scene    *sprite.Scene

	frames     int
	lastReport time.Duration
}

func (l *sceneLayer) OnAttach(e *core.Engine) error {
	sc, err := sprite.NewScene(l.provider, l.cfg)
	if err != nil {
		return err
	}
	l.scene = sc
	l.lastReport = e.Uptime()
	log.Printf("Scene ready: %d sprites on %q", len(sc.Sprites()), l.cfg.SurfaceID)
	return nil
}

func (l *sceneLayer) OnDetach(e *core.Engine) {
	l.scene.Release()
}

func (l *sceneLayer) OnUpdate(e *core.Engine, dt float64) {
	l.scene.Update(float32(dt))
}

func (l *sceneLayer) OnRender(e *core.Engine) error {
	if err := l.scene.Draw(); err != nil {
		return err
	}
	l.frames++
	if up := e.Uptime(); up-l.lastReport >= time.Second {
		st := l.scene.Stats()
		log.Printf("FPS: %d sprites: %d draw calls: %d", l.frames, st.Sprites, st.DrawCalls)
		if w, ok := e.Window.(titler); ok {
			w.SetTitle(fmt.Sprintf("%s | %d FPS", e.Config.Title, l.frames))
		}
		l.frames = 0
		l.lastReport = up
	}
	return nil
}
