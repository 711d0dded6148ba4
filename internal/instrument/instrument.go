// Package instrument records timed scopes and writes them as a Chrome
// trace-event file (chrome://tracing, Perfetto).
package instrument

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MaxEvents bounds the number of recorded scopes; later scopes are dropped.
const MaxEvents = 1 << 20

type traceEvent struct {
	Name string `json:"name"`
	Cat  string `json:"cat"`
	Ph   string `json:"ph"`
	Ts   int64  `json:"ts"`
	Dur  int64  `json:"dur"`
	Pid  int    `json:"pid"`
	Tid  int    `json:"tid"`
}

type traceFile struct {
	OtherData   map[string]string `json:"otherData"`
	TraceEvents []traceEvent      `json:"traceEvents"`
}

// Profiler collects scopes for a single goroutine. A nil *Profiler is valid
// and records nothing.
type Profiler struct {
	path    string
	start   time.Time
	events  []traceEvent
	dropped int
	now     func() time.Time
}

// New returns a profiler writing to path, or nil when path is empty.
func New(path string) *Profiler {
	if path == "" {
		return nil
	}
	return &Profiler{path: path, start: time.Now(), now: time.Now}
}

// Scope starts timing name and returns the function that ends it.
//
//	defer prof.Scope("Window.Update")()
func (p *Profiler) Scope(name string) func() {
	if p == nil {
		return func() {}
	}
	begin := p.now()
	return func() {
		if len(p.events) >= MaxEvents {
			p.dropped++
			return
		}
		p.events = append(p.events, traceEvent{
			Name: name,
			Cat:  "function",
			Ph:   "X",
			Ts:   begin.Sub(p.start).Microseconds(),
			Dur:  p.now().Sub(begin).Microseconds(),
			Pid:  os.Getpid(),
			Tid:  1,
		})
	}
}

// Len returns the number of recorded scopes.
func (p *Profiler) Len() int {
	if p == nil {
		return 0
	}
	return len(p.events)
}

// Flush writes the trace file and clears recorded scopes.
func (p *Profiler) Flush() error {
	if p == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	data, err := json.Marshal(traceFile{
		OtherData:   map[string]string{"dropped": fmt.Sprint(p.dropped)},
		TraceEvents: p.events,
	})
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	p.events = nil
	p.dropped = 0
	return nil
}
