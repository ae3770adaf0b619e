// Package timing provides a simple labelled code timer and a concurrency
// safe recorder for per-check durations.
package timing

import (
	"fmt"
	"sync"
	"time"
)

// Timer measures one labelled code section. Call Start once, Lap or Delta
// while running, and Stop to finish.
type Timer struct {
	label   string
	startT  time.Time
	prevT   time.Time
	running bool
}

// New creates a timer with the given label.
func New(label string) *Timer {
	return &Timer{label: label}
}

// Start starts the timer. Starting a running timer restarts it.
func (t *Timer) Start() {
	t.startT = time.Now()
	t.prevT = t.startT
	t.running = true
}

// Lap returns the elapsed time since Start without stopping the timer.
func (t *Timer) Lap() (time.Duration, error) {
	if !t.running {
		return 0, fmt.Errorf("timer %q not started", t.label)
	}
	now := time.Now()
	t.prevT = now
	return now.Sub(t.startT), nil
}

// Delta returns the time since the previous Delta, Lap, or Start call.
func (t *Timer) Delta() (time.Duration, error) {
	if !t.running {
		return 0, fmt.Errorf("timer %q not started", t.label)
	}
	now := time.Now()
	d := now.Sub(t.prevT)
	t.prevT = now
	return d, nil
}

// Stop stops the timer and returns the total elapsed time.
func (t *Timer) Stop() (time.Duration, error) {
	if !t.running {
		return 0, fmt.Errorf("timer %q not started", t.label)
	}
	t.running = false
	return time.Since(t.startT), nil
}

// Reset clears the timer state.
func (t *Timer) Reset() {
	*t = Timer{label: t.label}
}

// Running reports whether the timer has been started and not yet stopped.
func (t *Timer) Running() bool {
	return t.running
}

// Label returns the timer's label.
func (t *Timer) Label() string {
	return t.label
}

// Lap is one recorded section duration.
type Lap struct {
	Label   string
	Elapsed time.Duration
}

// Recorder collects labelled durations from concurrent checks.
type Recorder struct {
	mu   sync.Mutex
	laps []Lap
}

// Time runs fn and records its duration under label.
func (r *Recorder) Time(label string, fn func()) {
	t := New(label)
	t.Start()
	fn()
	elapsed, _ := t.Stop()
	r.Record(label, elapsed)
}

// Record stores one duration.
func (r *Recorder) Record(label string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.laps = append(r.laps, Lap{Label: label, Elapsed: elapsed})
}

// Laps returns a copy of the recorded durations in recording order.
func (r *Recorder) Laps() []Lap {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Lap, len(r.laps))
	copy(out, r.laps)
	return out
}
