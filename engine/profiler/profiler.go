//go:build profile

// Package profiler records nested timing scopes into a fixed ring and
// writes them as an evented speedscope capture.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Enabled reports whether scopes are recorded in this build.
const Enabled = true

// ErrNoEvents is returned by Dump when nothing was recorded.
var ErrNoEvents = errors.New("profiler: no events to dump")

// Init must be called once before the first scope with the ring capacity
// in events. Zero selects 1<<20.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	ring.init(capacity)
}

// Start opens a scope and returns the func that closes it.
func Start(name string) func() {
	if !ring.ready.Load() {
		return func() {}
	}
	id := names.intern(name)
	start := time.Now().UnixNano()
	ring.push(event{at: start, frame: id, open: true})
	return func() {
		end := max(time.Now().UnixNano(), start)
		ring.push(event{at: end, frame: id})
	}
}

// Dump writes the recorded scopes to path in speedscope format and
// returns the number of events written.
func Dump(path string) (int, error) {
	evs := ring.snapshot()
	if len(evs) == 0 {
		return 0, ErrNoEvents
	}
	doc := capture(evs, names.snapshot())
	if len(doc.Profiles[0].Events) == 0 {
		return 0, ErrNoEvents
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("profiler: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("profiler: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("profiler: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("profiler: %w", err)
	}
	return len(doc.Profiles[0].Events), nil
}

type event struct {
	at    int64
	frame int
	open  bool
}

type eventRing struct {
	ready atomic.Bool
	size  uint64
	write atomic.Uint64
	evs   []event
}

func (r *eventRing) init(capacity int) {
	r.size = uint64(capacity)
	r.evs = make([]event, r.size)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *eventRing) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.size] = e
}

// snapshot returns the retained events in write order.
func (r *eventRing) snapshot() []event {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	var first uint64
	if n > r.size {
		first = n - r.size
	}
	out := make([]event, 0, n-first)
	for k := first; k < n; k++ {
		out = append(out, r.evs[k%r.size])
	}
	return out
}

var ring eventRing

type interner struct {
	mu    sync.Mutex
	list  []string
	index map[string]int
}

func (in *interner) intern(name string) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[name]; ok {
		return id
	}
	if in.index == nil {
		in.index = map[string]int{}
	}
	id := len(in.list)
	in.index[name] = id
	in.list = append(in.list, name)
	return id
}

func (in *interner) snapshot() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.list...)
}

var names interner

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`
	At    int64  `json:"at"`
	Frame int    `json:"frame"`
}

// capture converts ring events into a balanced evented profile. Closes
// that do not match the innermost open scope are dropped and scopes still
// open at the end are closed at the last timestamp.
func capture(evs []event, frameNames []string) *ssFile {
	frames := make([]ssFrame, len(frameNames))
	for i, n := range frameNames {
		frames[i] = ssFrame{Name: n}
	}

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 16)
	var last int64
	for _, e := range evs {
		at := max((e.at-base)/1000, last)
		if e.open {
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.frame})
			stack = append(stack, e.frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}

	return &ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "pointflock frames",
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "pointflock-profiler",
		Name:     "pointflock capture",
	}
}
