package anim

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Spec describes one animation of a single numeric property.
type Spec struct {
	ID       string // identifies the animation in FrameMsg and DoneMsg
	From, To float64
	Duration time.Duration
	Easing   string
}

// At returns the property value after elapsed time.
func (s Spec) At(elapsed time.Duration) float64 {
	if s.Duration <= 0 || elapsed >= s.Duration {
		return s.To
	}
	if elapsed <= 0 {
		return s.From
	}
	p := float64(elapsed) / float64(s.Duration)
	return s.From + (s.To-s.From)*Lookup(s.Easing)(p)
}

// FrameMsg reports an intermediate value. The receiver applies Value and
// returns Next() to keep the animation running; dropping Next stops it.
type FrameMsg struct {
	ID    string
	Value float64
	next  tea.Cmd
}

// Next returns the command that produces the following frame.
func (f FrameMsg) Next() tea.Cmd {
	return f.next
}

// DoneMsg is delivered exactly once when an animation reaches its end value.
type DoneMsg struct {
	ID    string
	Value float64
}

// Driver starts animations.
type Driver interface {
	Start(spec Spec) tea.Cmd
}

// DefaultFPS is used when TickDriver.FPS is unset.
const DefaultFPS = 60

// TickDriver animates with tea.Tick at a fixed frame rate.
type TickDriver struct {
	FPS int
	Now func() time.Time // nil means time.Now
}

// NewTickDriver creates a driver ticking at fps frames per second.
func NewTickDriver(fps int) *TickDriver {
	return &TickDriver{FPS: fps}
}

// Start implements Driver.
func (d *TickDriver) Start(spec Spec) tea.Cmd {
	if spec.Duration <= 0 {
		return done(spec)
	}
	start := d.now()
	return d.frame(spec, start)
}

func (d *TickDriver) frame(spec Spec, start time.Time) tea.Cmd {
	return tea.Tick(d.interval(), func(time.Time) tea.Msg {
		elapsed := d.now().Sub(start)
		if elapsed >= spec.Duration {
			return DoneMsg{ID: spec.ID, Value: spec.To}
		}
		return FrameMsg{
			ID:    spec.ID,
			Value: spec.At(elapsed),
			next:  d.frame(spec, start),
		}
	})
}

func (d *TickDriver) interval() time.Duration {
	fps := d.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

func (d *TickDriver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// InstantDriver completes every animation immediately with its end value.
type InstantDriver struct{}

// Start implements Driver.
func (InstantDriver) Start(spec Spec) tea.Cmd {
	return done(spec)
}

func done(spec Spec) tea.Cmd {
	return func() tea.Msg {
		return DoneMsg{ID: spec.ID, Value: spec.To}
	}
}

// Recorder records started animations and never completes them on its own.
// Tests deliver Done (or DoneMsg) explicitly to control when completion
// happens.
type Recorder struct {
	mu      sync.Mutex
	started []Spec
}

// Start implements Driver. The returned command is nil.
func (r *Recorder) Start(spec Spec) tea.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, spec)
	return nil
}

// Started returns the specs started so far.
func (r *Recorder) Started() []Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Spec, len(r.started))
	copy(out, r.started)
	return out
}

// Last returns the most recently started spec.
func (r *Recorder) Last() (Spec, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.started) == 0 {
		return Spec{}, false
	}
	return r.started[len(r.started)-1], true
}

// Done returns the completion message for the most recently started spec.
func (r *Recorder) Done() DoneMsg {
	s, _ := r.Last()
	return DoneMsg{ID: s.ID, Value: s.To}
}
