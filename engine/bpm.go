package engine

import "time"

const clocksPerQuarterNote = 24

// bpmEstimator measures elapsed wall time across a fixed 24-clock window
// (one quarter note) and derives BPM from it, exactly as spec.md §4.3
// describes. It holds no package-level state — everything lives on the
// instance, unlike the original's static clock-window fields.
type bpmEstimator struct {
	clock Clock

	windowStart     time.Time
	windowRemaining uint32

	current float64

	updateBlocked bool
}

func newBPMEstimator(clock Clock, initial float64) *bpmEstimator {
	return &bpmEstimator{clock: clock, current: initial, windowStart: clock.Now()}
}

// blockUpdates suppresses estimator writes while the control surface edits
// BPM by hand; window sampling continues regardless.
func (b *bpmEstimator) blockUpdates(block bool) {
	b.updateBlocked = block
}

// reset restarts the sliding window from the current instant, used whenever
// the engine's own notion of position jumps (Start, Continue, SPP) so a stale
// elapsed interval is never interpreted as an extreme BPM.
func (b *bpmEstimator) reset() {
	b.windowStart = b.clock.Now()
	b.windowRemaining = 0
}

// onTick runs once per inbound clock tick. When the tick completes a window
// whose elapsed time is in range it returns that window's BPM sample;
// accepted is true only if the sample also became the current BPM (updates
// not blocked and the change above the threshold).
// cfg supplies the clamp range and the acceptance threshold.
func (b *bpmEstimator) onTick(cfg Config) (sample float64, accepted bool, err error) {
	now := b.clock.Now()

	// A fresh window is measured from the instant captured at construction
	// or reset, so its 24 ticks span 24 clock intervals.
	if b.windowRemaining == 0 {
		b.windowRemaining = clocksPerQuarterNote
	}
	b.windowRemaining--

	if b.windowRemaining != 0 {
		return 0, false, nil
	}

	elapsed := now.Sub(b.windowStart)
	elapsedSeconds := elapsed.Seconds()

	// Restart the window unconditionally, regardless of acceptance.
	b.windowStart = now
	b.windowRemaining = clocksPerQuarterNote

	if elapsedSeconds <= 0.2 || elapsedSeconds >= 3.0 {
		return 0, false, ErrBpmOutOfRange
	}

	proposed := 60.0 / elapsedSeconds
	if proposed < cfg.BpmMin || proposed > cfg.BpmMax {
		return 0, false, ErrBpmOutOfRange
	}

	if b.updateBlocked {
		return proposed, false, nil
	}

	delta := proposed - b.current
	if delta < 0 {
		delta = -delta
	}
	if delta <= cfg.BpmChangeThreshold {
		return proposed, false, nil
	}

	b.current = proposed
	return proposed, true, nil
}
