package timing

import (
	"sync"
	"testing"
	"time"
)

func TestTimerLifecycle(t *testing.T) {
	tm := New("check")
	if _, err := tm.Stop(); err == nil {
		t.Fatalf("stopping an unstarted timer must fail")
	}

	tm.Start()
	if !tm.Running() {
		t.Fatalf("timer should be running after Start")
	}
	if _, err := tm.Lap(); err != nil {
		t.Fatalf("lap: %v", err)
	}
	if _, err := tm.Delta(); err != nil {
		t.Fatalf("delta: %v", err)
	}
	d, err := tm.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if d < 0 {
		t.Fatalf("elapsed must be non-negative, got %v", d)
	}
	if tm.Running() {
		t.Fatalf("timer should not be running after Stop")
	}

	tm.Reset()
	if _, err := tm.Lap(); err == nil {
		t.Fatalf("lap after reset must fail")
	}
}

func TestRecorder_Time(t *testing.T) {
	var r Recorder
	ran := false
	r.Time("changelog", func() { ran = true })
	if !ran {
		t.Fatalf("fn was not invoked")
	}
	laps := r.Laps()
	if len(laps) != 1 || laps[0].Label != "changelog" {
		t.Fatalf("unexpected laps: %+v", laps)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("check", time.Millisecond)
		}()
	}
	wg.Wait()
	if got := len(r.Laps()); got != 16 {
		t.Fatalf("expected 16 laps, got %d", got)
	}
}
