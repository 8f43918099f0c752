package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed section of a compile.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases; it is safe for use by concurrent file workers.
// Methods on a nil *Timer are no-ops.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns a handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	now := time.Now()
	t.mu.Lock()
	t.phases = append(t.phases, Phase{Name: name, Start: now})
	idx := len(t.phases) - 1
	t.mu.Unlock()
	return idx
}

// End closes the phase behind idx. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	if idx >= 0 && idx < len(t.phases) {
		t.phases[idx].Dur = time.Since(t.phases[idx].Start)
		t.phases[idx].Note = note
	}
	t.mu.Unlock()
}

// Track times fn and marks the phase "failed" when it returns an error.
func (t *Timer) Track(name string, fn func() error) (err error) {
	idx := t.Begin(name)
	defer func() {
		var note string
		if err != nil {
			note = "failed"
		}
		t.End(idx, note)
	}()
	return fn()
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the recorded phases.
func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders Report as an aligned table ending in a total row.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-24s %8.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&b, "  // %s", note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }
