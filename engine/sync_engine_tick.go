package engine

// masterTick runs once per internal tick while RunningMaster: advance the
// position, run the boundary scheduler, and send the outbound clock pulse
// plus any note-on/note-off the scheduler decides on this tick.
func (e *SyncEngine) masterTick() {
	e.mu.Lock()
	if e.state != RunningMaster {
		e.mu.Unlock()
		return
	}
	tick := e.pos.advance()
	qn := e.pos.quarterNotes()
	bpm := e.bpm
	d := e.sched.onTick(tick, qn, bpm, e.cfg)
	beats := e.pos.beats()
	e.mu.Unlock()

	e.reportFaults(d.faults)

	e.sendOutbound(func() error { return e.transport.SendClock() })
	e.cfg.Observers.clockTick()

	e.applyDecision(d, qn, beats)
}

// handleInbound runs on the engine goroutine for every event popped off the
// InboundQueue. It implements the transition table of spec.md §4.5 and the
// SPP classification of §4.5.1.
func (e *SyncEngine) handleInbound(ev InboundEvent) {
	switch ev.Kind {
	case InboundClock:
		e.handleInboundClock()
	case InboundStart:
		e.handleInboundStart()
	case InboundStop:
		e.handleInboundStop()
	case InboundContinue:
		e.handleInboundContinue()
	case InboundSongPositionPointer:
		e.handleInboundSPP(ev.SPPSixteenths)
	case InboundUnknown:
		e.log.Debugw("unknown inbound status", "category", "transport", "status", ev.UnknownStatus)
	}
}

func (e *SyncEngine) handleInboundClock() {
	e.mu.Lock()
	if e.state != RunningSlave {
		e.mu.Unlock()
		return
	}
	tick := e.pos.advance()
	qn := e.pos.quarterNotes()
	bpm := e.bpm
	d := e.sched.onTick(tick, qn, bpm, e.cfg)
	beats := e.pos.beats()

	sample, accepted, bpmErr := e.bpmEst.onTick(e.cfg)
	if accepted {
		e.bpm = sample
	}
	e.mu.Unlock()

	e.reportFaults(d.faults)
	if bpmErr != nil {
		e.log.Debugw("bpm sample rejected", "category", "bpm", "err", bpmErr)
	}

	e.cfg.Observers.clockTick()
	if accepted {
		e.cfg.Observers.bpmChanged(sample)
	}

	e.applyDecision(d, qn, beats)
}

func (e *SyncEngine) handleInboundStart() {
	e.mu.Lock()
	if e.transportSyncBlocked || e.state != Stopped {
		e.mu.Unlock()
		return
	}
	e.transportSyncBlocked = true
	e.state = RunningSlave
	e.pos.reset()
	e.sched.resetForStart()
	e.bpmEst.reset()
	e.transportSyncBlocked = false
	e.mu.Unlock()

	e.cfg.Observers.runningChanged(true)
}

func (e *SyncEngine) handleInboundStop() {
	e.mu.Lock()
	if e.transportSyncBlocked || e.state == Stopped {
		e.mu.Unlock()
		return
	}
	e.transportSyncBlocked = true
	noteWasOn := e.sched.releaseSoundingNote()
	e.queue.drain()
	e.pos.reset()
	e.sched.resetForStart()
	e.state = Stopped
	e.transportSyncBlocked = false
	e.mu.Unlock()

	if noteWasOn {
		e.sendOutbound(func() error {
			return e.transport.SendNoteOff(e.cfg.MidiChannel, e.cfg.MidiNote)
		})
	}
	e.cfg.Observers.runningChanged(false)
	e.cfg.Observers.positionChanged(0, 0)
}

func (e *SyncEngine) handleInboundContinue() {
	e.mu.Lock()
	if e.transportSyncBlocked || e.state != Stopped {
		e.mu.Unlock()
		return
	}
	e.transportSyncBlocked = true
	qn := e.pos.quarterNotes()
	e.sched.rebaseForContinue(qn)
	e.bpmEst.reset()
	e.state = RunningSlave
	e.transportSyncBlocked = false
	e.mu.Unlock()

	e.cfg.Observers.runningChanged(true)
}

func (e *SyncEngine) handleInboundSPP(sixteenths uint16) {
	e.mu.Lock()
	previousQN := e.pos.quarterNotes()
	wasRunning := e.state != Stopped
	e.pos.setFromSPP(sixteenths)
	newQN := e.pos.quarterNotes()
	backwards := newQN < previousQN-0.5
	e.sched.rebaseForSPP(newQN, wasRunning, backwards)
	e.bpmEst.reset()
	beats := e.pos.beats()
	e.mu.Unlock()

	e.cfg.Observers.positionChanged(beats, newQN)
}

// applyDecision sends whatever outbound messages and observer notifications
// the scheduler's decision for this tick calls for.
func (e *SyncEngine) applyDecision(d decision, qn float64, beats int32) {
	if d.emitNoteOff {
		e.sendOutbound(func() error {
			return e.transport.SendNoteOff(e.cfg.MidiChannel, e.cfg.MidiNote)
		})
	}
	if d.emitNoteOn {
		e.sendOutbound(func() error {
			return e.transport.SendNoteOn(e.cfg.MidiChannel, e.cfg.MidiNote, e.cfg.MidiVelocity)
		})
		e.cfg.Observers.beatSent(int32(d.noteOnBoundary * 4))
	}
	e.cfg.Observers.positionChanged(beats, qn)
}

func (e *SyncEngine) reportFaults(faults []error) {
	for _, err := range faults {
		e.log.Warnw("scheduler fault", "category", "scheduler", "err", err)
		e.cfg.Observers.fault(err)
	}
}
