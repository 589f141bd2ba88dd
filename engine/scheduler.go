package engine

const ticksPerWholeNote = 96

// boundaryState is the scheduler's memory across ticks, per spec.md §3.
type boundaryState struct {
	lastEmittedBoundary    int64
	noteOn                 bool
	ticksSinceLastBoundary uint32
}

func newBoundaryState() boundaryState {
	return boundaryState{lastEmittedBoundary: -1}
}

// boundaryScheduler implements spec.md §4.4: a predictive note-on decision
// and a retrospective note-off decision, called once per tick.
type boundaryScheduler struct {
	state boundaryState
}

// decision is what the scheduler wants the caller (SyncEngine) to do after
// a single tick; both fields may be set on the same tick (note-off for the
// boundary just crossed, note-on for the one approaching).
type decision struct {
	emitNoteOn     bool
	noteOnBoundary int64

	emitNoteOff bool

	faults []error
}

// onTick runs the note-on and note-off decisions for the current tick.
// quarterNotes and tick must reflect the position *after* this tick's
// advance.
func (s *boundaryScheduler) onTick(tick int64, quarterNotes float64, bpm float64, cfg Config) decision {
	var d decision

	currentBoundary := tick / ticksPerWholeNote
	ticksInto := tick % ticksPerWholeNote
	ticksToNext := int64(ticksPerWholeNote) - ticksInto
	nextBoundary := currentBoundary + 1

	if s.state.lastEmittedBoundary > currentBoundary+1 {
		d.faults = append(d.faults, ErrSchedulerDesync)
		s.state.lastEmittedBoundary = currentBoundary
	}

	effectiveBPM := bpm
	if effectiveBPM < cfg.BpmMin || effectiveBPM > cfg.BpmMax {
		effectiveBPM = 120
	}
	msPerTick := (60000.0 / effectiveBPM) / clocksPerQuarterNote
	advanceTicks := float64(cfg.EmissionAdvance.Milliseconds()) / msPerTick
	if advanceTicks < 1.5 {
		advanceTicks = 1.5
	}

	firstDownbeat := currentBoundary == 0 && s.state.lastEmittedBoundary < 0 && quarterNotes < 1.0

	boundaryToEmit := nextBoundary
	if firstDownbeat {
		boundaryToEmit = currentBoundary
	}

	if firstDownbeat || (nextBoundary > s.state.lastEmittedBoundary && float64(ticksToNext) <= advanceTicks) {
		d.emitNoteOn = true
		d.noteOnBoundary = boundaryToEmit
		s.state.lastEmittedBoundary = boundaryToEmit
		s.state.noteOn = true
		s.state.ticksSinceLastBoundary = 0
	} else {
		s.state.ticksSinceLastBoundary++
		if s.state.ticksSinceLastBoundary > ticksPerWholeNote {
			s.state.ticksSinceLastBoundary = ticksPerWholeNote
		}
	}

	positionInCurrent := quarterNotes - float64(currentBoundary*4)
	if s.state.noteOn && positionInCurrent > 0 && positionInCurrent < cfg.NoteOffWindowQuarters {
		d.emitNoteOff = true
		s.state.noteOn = false
	}

	return d
}

// releaseSoundingNote is called on Stop: if a note is currently sounding it
// must be released even though no boundary was crossed.
func (s *boundaryScheduler) releaseSoundingNote() bool {
	if !s.state.noteOn {
		return false
	}
	s.state.noteOn = false
	return true
}

// rebaseForSPP implements spec.md §4.5.1's classification: backwards seek
// and stopped/first-receipt both rebase lastEmittedBoundary from the new
// position; forward-during-playback leaves it untouched so the tick-driven
// scheduler (not the SPP handler) decides.
func (s *boundaryScheduler) rebaseForSPP(quarterNotes float64, wasRunning, backwards bool) {
	if wasRunning && !backwards {
		return
	}
	wn := int64(quarterNotes / 4.0)
	frac := quarterNotes - float64(wn*4)
	if frac < 2.0 {
		s.state.lastEmittedBoundary = wn - 1
	} else {
		s.state.lastEmittedBoundary = wn
	}
	ticksInto := int64((quarterNotes - float64(wn*4)) * clocksPerQuarterNote)
	if ticksInto < 0 {
		ticksInto = 0
	}
	s.state.ticksSinceLastBoundary = uint32(ticksInto)
}

// rebaseForContinue implements the Continue transition of spec.md §4.5:
// preserve position, recompute boundary state so the current boundary does
// not re-emit.
func (s *boundaryScheduler) rebaseForContinue(quarterNotes float64) {
	currentWholeNote := int64(quarterNotes / 4.0)
	s.state.lastEmittedBoundary = currentWholeNote - 1
	positionInCurrent := quarterNotes - float64(currentWholeNote*4)
	s.state.ticksSinceLastBoundary = uint32(positionInCurrent * clocksPerQuarterNote)
	s.state.noteOn = false
}

func (s *boundaryScheduler) resetForStart() {
	s.state = newBoundaryState()
}
