package engine

// InboundKind tags the variant carried by an InboundEvent.
type InboundKind int

const (
	// InboundClock is a 0xF8 MIDI clock pulse.
	InboundClock InboundKind = iota
	// InboundStart is a 0xFA transport Start.
	InboundStart
	// InboundStop is a 0xFC transport Stop.
	InboundStop
	// InboundContinue is a 0xFB transport Continue.
	InboundContinue
	// InboundSongPositionPointer is a 0xF2 Song Position Pointer.
	InboundSongPositionPointer
	// InboundUnknown is any status byte the core does not act on (includes
	// 0xFF System Reset; 0xFE Active Sensing is dropped before it becomes
	// an event at all).
	InboundUnknown
)

func (k InboundKind) String() string {
	switch k {
	case InboundClock:
		return "clock"
	case InboundStart:
		return "start"
	case InboundStop:
		return "stop"
	case InboundContinue:
		return "continue"
	case InboundSongPositionPointer:
		return "spp"
	default:
		return "unknown"
	}
}

// InboundEvent is the tagged variant the transport callback pushes onto the
// InboundQueue and the engine goroutine drains.
type InboundEvent struct {
	Kind InboundKind

	// SPPSixteenths is populated only when Kind == InboundSongPositionPointer.
	SPPSixteenths uint16

	// UnknownStatus is populated only when Kind == InboundUnknown.
	UnknownStatus byte
}

// RunState is one of the three top-level SyncEngine states.
type RunState int

const (
	Stopped RunState = iota
	RunningMaster
	RunningSlave
)

func (s RunState) String() string {
	switch s {
	case RunningMaster:
		return "running-master"
	case RunningSlave:
		return "running-slave"
	default:
		return "stopped"
	}
}

// Observers are fire-and-forget notifications, set once at construction via
// the WithObservers option. A nil observer is simply not called; the
// engine never blocks waiting on one.
type Observers struct {
	RunningChanged  func(running bool)
	BpmChanged      func(bpm float64)
	ClockTick       func()
	BeatSent        func(quarterNote int32)
	PositionChanged func(beats int32, quarterNotes float64)
	Fault           func(err error)
}

func (o Observers) runningChanged(running bool) {
	if o.RunningChanged != nil {
		o.RunningChanged(running)
	}
}

func (o Observers) bpmChanged(bpm float64) {
	if o.BpmChanged != nil {
		o.BpmChanged(bpm)
	}
}

func (o Observers) clockTick() {
	if o.ClockTick != nil {
		o.ClockTick()
	}
}

func (o Observers) beatSent(quarterNote int32) {
	if o.BeatSent != nil {
		o.BeatSent(quarterNote)
	}
}

func (o Observers) positionChanged(beats int32, quarterNotes float64) {
	if o.PositionChanged != nil {
		o.PositionChanged(beats, quarterNotes)
	}
}

func (o Observers) fault(err error) {
	if o.Fault != nil {
		o.Fault(err)
	}
}
