package core

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type fakeWindow struct {
	presented  int
	polled     int
	closeAfter int
}

func (w *fakeWindow) PollEvents()       { w.polled++ }
func (w *fakeWindow) ShouldClose() bool { return w.closeAfter > 0 && w.presented >= w.closeAfter }
func (w *fakeWindow) Present()          { w.presented++ }

// steppedClock returns a clock that advances by the given steps, one per
// call after the first, and then stands still.
func steppedClock(steps ...time.Duration) func() time.Time {
	now := time.Unix(1_700_000_000, 0)
	calls := 0
	return func() time.Time {
		if calls > 0 && calls <= len(steps) {
			now = now.Add(steps[calls-1])
		}
		calls++
		return now
	}
}

type recLayer struct {
	name      string
	log       *[]string
	dts       []float64
	renders   int
	attachErr error
	renderErr error
	failAt    int
}

func (l *recLayer) OnAttach(e *Engine) error {
	*l.log = append(*l.log, "attach "+l.name)
	return l.attachErr
}

func (l *recLayer) OnDetach(e *Engine) { *l.log = append(*l.log, "detach "+l.name) }

func (l *recLayer) OnUpdate(e *Engine, dt float64) { l.dts = append(l.dts, dt) }

func (l *recLayer) OnRender(e *Engine) error {
	l.renders++
	if l.renderErr != nil && e.Frame() == l.failAt {
		return l.renderErr
	}
	return nil
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	var log []string
	win := &fakeWindow{}
	l := &recLayer{name: "scene", log: &log}
	cfg := Config{
		MaxFrames: 3,
		Clock:     steppedClock(16*time.Millisecond, 20*time.Millisecond, 2*time.Second),
	}

	if err := Run(context.Background(), cfg, win, l); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if win.presented != 3 || win.polled != 3 || l.renders != 3 {
		t.Errorf("presented %d, polled %d, rendered %d; want 3 each", win.presented, win.polled, l.renders)
	}
	want := []float64{0.016, 0.020, DefaultMaxDelta.Seconds()}
	if !slices.Equal(l.dts, want) {
		t.Errorf("dts = %v, want %v", l.dts, want)
	}
	if !slices.Equal(log, []string{"attach scene", "detach scene"}) {
		t.Errorf("lifecycle = %v", log)
	}
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	var log []string
	win := &fakeWindow{closeAfter: 2}
	if err := Run(context.Background(), Config{}, win, &recLayer{name: "a", log: &log}); err != nil {
		t.Fatal(err)
	}
	if win.presented != 2 {
		t.Errorf("presented %d frames, want 2", win.presented)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	win := &fakeWindow{}
	if err := Run(ctx, Config{}, win, &recLayer{name: "a", log: &log}); err != nil {
		t.Fatal(err)
	}
	if win.presented != 0 {
		t.Errorf("presented %d frames after cancel, want 0", win.presented)
	}
}

func TestRunRenderErrorCarriesFrame(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	win := &fakeWindow{}
	first := &recLayer{name: "a", log: &log, renderErr: boom, failAt: 2}
	second := &recLayer{name: "b", log: &log}

	err := Run(context.Background(), Config{MaxFrames: 10}, win, first, second)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want boom", err)
	}
	if err.Error() != "frame 2: boom" {
		t.Errorf("error = %q", err)
	}
	if win.presented != 2 || second.renders != 2 {
		t.Errorf("presented %d, second rendered %d; want 2 and 2", win.presented, second.renders)
	}
	want := []string{"attach a", "attach b", "detach b", "detach a"}
	if !slices.Equal(log, want) {
		t.Errorf("lifecycle = %v, want %v", log, want)
	}
}

func TestRunAttachErrorDetachesEarlierLayers(t *testing.T) {
	var log []string
	bad := errors.New("no surface")
	win := &fakeWindow{}
	err := Run(context.Background(), Config{}, win,
		&recLayer{name: "a", log: &log},
		&recLayer{name: "b", log: &log, attachErr: bad},
		&recLayer{name: "c", log: &log},
	)
	if !errors.Is(err, bad) {
		t.Fatalf("Run error = %v, want %v", err, bad)
	}
	want := []string{"attach a", "attach b", "detach a"}
	if !slices.Equal(log, want) {
		t.Errorf("lifecycle = %v, want %v", log, want)
	}
	if win.presented != 0 {
		t.Errorf("presented %d frames, want 0", win.presented)
	}
}

func TestEngineUptime(t *testing.T) {
	e := &Engine{now: steppedClock(3 * time.Second)}
	e.start = e.now()
	if got := e.Uptime(); got != 3*time.Second {
		t.Errorf("Uptime = %v, want 3s", got)
	}
}
