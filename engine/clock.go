package engine

import "time"

// Clock is the injectable time source the BPM estimator uses,
// so tests can supply a fake instead of depending on wall time — the same
// seam the teacher reaches for with its Controller interface rather than
// touching a global.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
