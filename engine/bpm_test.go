package engine

import (
	"testing"
	"time"
)

// fakeClock lets tests drive bpmEstimator's windows without real wall time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func feedWindow(t *testing.T, est *bpmEstimator, clock *fakeClock, cfg Config, perTick time.Duration) (sample float64, accepted bool, err error) {
	t.Helper()
	for i := 0; i < clocksPerQuarterNote; i++ {
		clock.advance(perTick)
		sample, accepted, err = est.onTick(cfg)
	}
	return sample, accepted, err
}

func TestBPMEstimatorAcceptsSteadyWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := newBPMEstimator(clock, 120)
	cfg := DefaultConfig()

	// 24 ticks at exactly 120bpm: 500ms per quarter note / 24 ticks.
	perTick := 500 * time.Millisecond / clocksPerQuarterNote
	sample, accepted, err := feedWindow(t, est, clock, cfg, perTick)
	if err != nil {
		t.Fatalf("onTick error = %v", err)
	}
	if accepted {
		t.Errorf("first steady window should not move BPM away from its own initial value, got accepted=%v sample=%v", accepted, sample)
	}
}

func TestBPMEstimatorAcceptsChangeAboveThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := newBPMEstimator(clock, 120)
	cfg := DefaultConfig()

	// 24 ticks at 100bpm: 600ms per quarter note.
	perTick := 600 * time.Millisecond / clocksPerQuarterNote
	sample, accepted, err := feedWindow(t, est, clock, cfg, perTick)
	if err != nil {
		t.Fatalf("onTick error = %v", err)
	}
	if !accepted {
		t.Fatalf("expected acceptance of a 20bpm swing, got accepted=%v", accepted)
	}
	if sample < 99 || sample > 101 {
		t.Errorf("sample = %v, want ~100", sample)
	}
}

func TestBPMEstimatorRejectsOutOfRangeElapsed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := newBPMEstimator(clock, 120)
	cfg := DefaultConfig()

	// 4 seconds for the whole window is outside the (0.2s, 3.0s) bound.
	perTick := 4 * time.Second / clocksPerQuarterNote
	_, accepted, err := feedWindow(t, est, clock, cfg, perTick)
	if err != ErrBpmOutOfRange {
		t.Fatalf("err = %v, want ErrBpmOutOfRange", err)
	}
	if accepted {
		t.Errorf("accepted = true, want false on out-of-range elapsed time")
	}
}

func TestBPMEstimatorBlockedUpdatesStillSample(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := newBPMEstimator(clock, 120)
	est.blockUpdates(true)
	cfg := DefaultConfig()

	perTick := 600 * time.Millisecond / clocksPerQuarterNote
	sample, accepted, err := feedWindow(t, est, clock, cfg, perTick)
	if err != nil {
		t.Fatalf("onTick error = %v", err)
	}
	if accepted {
		t.Errorf("accepted = true while updates blocked, want false")
	}
	if sample < 99 || sample > 101 {
		t.Errorf("sample = %v, want ~100 even while blocked", sample)
	}
	if est.current != 120 {
		t.Errorf("current = %v, want unchanged 120 while blocked", est.current)
	}
}

func TestBPMEstimatorResetRestartsWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := newBPMEstimator(clock, 120)
	cfg := DefaultConfig()

	clock.advance(200 * time.Millisecond)
	est.onTick(cfg)
	est.reset()
	if est.windowRemaining != 0 {
		t.Errorf("windowRemaining after reset = %d, want 0", est.windowRemaining)
	}
}
