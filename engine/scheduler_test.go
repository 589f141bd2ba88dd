package engine

import "testing"

func runScheduler(cfg Config, bpm float64, ticks int64) (noteOnBoundaries []int64, noteOffs int) {
	var p positionClock
	s := boundaryScheduler{state: newBoundaryState()}
	for i := int64(0); i < ticks; i++ {
		tick := p.advance()
		qn := p.quarterNotes()
		d := s.onTick(tick, qn, bpm, cfg)
		if d.emitNoteOn {
			noteOnBoundaries = append(noteOnBoundaries, d.noteOnBoundary)
		}
		if d.emitNoteOff {
			noteOffs++
		}
	}
	return noteOnBoundaries, noteOffs
}

func TestBoundarySchedulerFirstDownbeatFiresOnFirstTick(t *testing.T) {
	cfg := DefaultConfig()
	boundaries, _ := runScheduler(cfg, 120, 1)
	if len(boundaries) != 1 || boundaries[0] != 0 {
		t.Fatalf("boundaries after 1 tick = %v, want [0]", boundaries)
	}
}

func TestBoundarySchedulerEmitsEachBoundaryOnce(t *testing.T) {
	cfg := DefaultConfig()
	boundaries, _ := runScheduler(cfg, 120, 96*3)
	// Boundary 3 is emitted predictively at tick 285, inside the run.
	want := []int64{0, 1, 2, 3}
	if len(boundaries) != len(want) {
		t.Fatalf("boundaries = %v, want %v", boundaries, want)
	}
	for i, b := range want {
		if boundaries[i] != b {
			t.Errorf("boundaries[%d] = %d, want %d", i, boundaries[i], b)
		}
	}
}

func TestBoundarySchedulerReleasesNoteWithinWindow(t *testing.T) {
	cfg := DefaultConfig()
	_, noteOffs := runScheduler(cfg, 120, 96*3)
	// Boundaries 0, 1 and 2 are each released once, within the window just
	// past the boundary (ticks 1, 97, 193). Boundary 3's note-on is sent
	// predictively at tick 285; its release would fall on tick 289, after
	// the run ends.
	if noteOffs != 3 {
		t.Errorf("noteOffs = %d, want 3", noteOffs)
	}
}

func TestBoundarySchedulerOutOfRangeBPMFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	// An absurd bpm should still produce a sane first downbeat, since the
	// scheduler substitutes 120 internally rather than dividing by it raw.
	boundaries, _ := runScheduler(cfg, 5000, 1)
	if len(boundaries) != 1 {
		t.Fatalf("boundaries = %v, want a single first downbeat", boundaries)
	}
}

func TestBoundarySchedulerReleaseSoundingNote(t *testing.T) {
	s := boundaryScheduler{state: newBoundaryState()}
	if s.releaseSoundingNote() {
		t.Errorf("releaseSoundingNote() on idle state = true, want false")
	}
	s.state.noteOn = true
	if !s.releaseSoundingNote() {
		t.Errorf("releaseSoundingNote() with note sounding = false, want true")
	}
	if s.state.noteOn {
		t.Errorf("noteOn still true after releaseSoundingNote()")
	}
}

func TestBoundarySchedulerRebaseForSPPBackwardsSeek(t *testing.T) {
	s := boundaryScheduler{state: newBoundaryState()}
	s.state.lastEmittedBoundary = 5
	s.rebaseForSPP(4.0, true, true) // jump back to whole-note index 1
	if s.state.lastEmittedBoundary != 0 {
		t.Errorf("lastEmittedBoundary after backwards SPP to qn=4.0 = %d, want 0", s.state.lastEmittedBoundary)
	}
}

func TestBoundarySchedulerRebaseForSPPForwardDuringPlaybackIsNoop(t *testing.T) {
	s := boundaryScheduler{state: newBoundaryState()}
	s.state.lastEmittedBoundary = 2
	s.rebaseForSPP(40.0, true, false)
	if s.state.lastEmittedBoundary != 2 {
		t.Errorf("lastEmittedBoundary after forward SPP during playback = %d, want unchanged 2", s.state.lastEmittedBoundary)
	}
}

func TestBoundarySchedulerRebaseForContinue(t *testing.T) {
	s := boundaryScheduler{state: newBoundaryState()}
	s.state.noteOn = true
	s.rebaseForContinue(4.5) // whole note index 1, half a quarter note into it
	if s.state.lastEmittedBoundary != 0 {
		t.Errorf("lastEmittedBoundary after rebaseForContinue(4.5) = %d, want 0", s.state.lastEmittedBoundary)
	}
	if s.state.noteOn {
		t.Errorf("noteOn after rebaseForContinue() = true, want false")
	}
}

func TestBoundarySchedulerDesyncFault(t *testing.T) {
	s := boundaryScheduler{state: newBoundaryState()}
	s.state.lastEmittedBoundary = 50
	cfg := DefaultConfig()
	d := s.onTick(1, 1.0/24.0, 120, cfg)
	if len(d.faults) != 1 || d.faults[0] != ErrSchedulerDesync {
		t.Fatalf("faults = %v, want [ErrSchedulerDesync]", d.faults)
	}
}
