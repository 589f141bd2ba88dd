package engine

import (
	"sync"
	"time"
)

// MidiTransport is the narrow collaborator the core consumes. It is
// implemented by the transport package (gitlab.com/gomidi/midi/v2-backed)
// but SyncEngine never imports that package directly — it only depends on
// this interface, matching spec.md §9's "non-owning handle" redesign of the
// original's cyclic engine↔controller ownership.
type MidiTransport interface {
	SendClock() error
	SendStart() error
	SendStop() error
	SendContinue() error
	SendSongPositionPointer(sixteenths uint16) error
	SendNoteOn(channel, note, velocity uint8) error
	SendNoteOff(channel, note uint8) error
}

// Logger is the narrow logging seam SyncEngine depends on, satisfied by
// *midilog.Logger. A nil Logger is valid and simply drops log calls.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Infow(string, ...interface{})  {}
func (noopLogger) Warnw(string, ...interface{})  {}

// SyncEngine is the top-level state machine of spec.md §4.5. Scheduler,
// position, and BPM state is written by its run goroutine and by the
// control-surface Start, Stop and SetBPM calls, always under the mutex
// below; control-surface reads take snapshots under the same mutex.
type SyncEngine struct {
	transport MidiTransport
	log       Logger
	cfg       Config

	queue *inboundQueue

	wake   chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu                   sync.RWMutex
	state                RunState
	bpm                  float64
	pos                  positionClock
	sched                boundaryScheduler
	bpmEst               *bpmEstimator
	transportSyncBlocked bool

	// overflowReported is the queue's drop count as of the last time
	// PushInbound logged an overflow. PushInbound is only ever called from
	// the transport's single producer, so this needs no lock of its own.
	overflowReported uint64
}

// NewSyncEngine constructs an engine bound to transport and starts its
// single engine-context goroutine. Call Close when done to stop it.
func NewSyncEngine(transport MidiTransport, log Logger, opts ...Option) *SyncEngine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if log == nil {
		log = noopLogger{}
	}

	e := &SyncEngine{
		transport: transport,
		log:       log,
		cfg:       cfg,
		queue:     newInboundQueue(cfg.QueueCapacity),
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		state:     Stopped,
		bpm:       120,
		sched:     boundaryScheduler{state: newBoundaryState()},
	}
	e.bpmEst = newBPMEstimator(systemClock{}, e.bpm)

	e.wg.Add(1)
	go e.run()
	return e
}

// Close stops the engine-context goroutine. It does not stop a sounding
// note or send a transport STOP; call Stop first if that matters.
func (e *SyncEngine) Close() {
	close(e.stopCh)
	e.wg.Wait()
}

func (e *SyncEngine) signalWake() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// run is the single engine-context goroutine: it drains the inbound queue
// and, while RunningMaster, also generates internal ticks at the BPM's
// period. There is no parallelism inside it.
func (e *SyncEngine) run() {
	defer e.wg.Done()

	var ticker *time.Ticker
	var tickerPeriod time.Duration
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
	}
	defer stopTicker()

	for {
		e.mu.RLock()
		state := e.state
		bpm := e.bpm
		e.mu.RUnlock()

		if state == RunningMaster {
			period := tickPeriod(bpm)
			if ticker == nil {
				ticker = time.NewTicker(period)
				tickerPeriod = period
			} else if period != tickerPeriod {
				ticker.Reset(period)
				tickerPeriod = period
			}
		} else {
			stopTicker()
		}

		var tickerC <-chan time.Time
		if ticker != nil {
			tickerC = ticker.C
		}

		select {
		case <-e.stopCh:
			return
		case <-e.wake:
		case <-e.queue.signal():
			for {
				ev, ok := e.queue.pop()
				if !ok {
					break
				}
				e.handleInbound(ev)
			}
		case <-tickerC:
			e.masterTick()
		}
	}
}

func tickPeriod(bpm float64) time.Duration {
	if bpm <= 0 {
		bpm = 120
	}
	msPerTick := (60000.0 / bpm) / clocksPerQuarterNote
	return time.Duration(msPerTick * float64(time.Millisecond))
}

// ---- control surface ----

// Start enters RunningMaster from Stopped: resets all per-run state, starts
// the internal tick source, and sends an outbound START.
func (e *SyncEngine) Start() {
	e.mu.Lock()
	if e.state != Stopped {
		e.mu.Unlock()
		return
	}
	e.state = RunningMaster
	e.pos.reset()
	e.sched.resetForStart()
	e.bpmEst.reset()
	e.mu.Unlock()

	e.signalWake()
	e.sendOutbound(func() error { return e.transport.SendStart() })
	e.cfg.Observers.runningChanged(true)
}

// Stop enters Stopped from either Running state: stops the internal tick
// source, releases a sounding note, resets per-run state, and sends an
// outbound STOP.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	if e.state == Stopped {
		e.mu.Unlock()
		return
	}
	e.state = Stopped
	noteWasOn := e.sched.releaseSoundingNote()
	e.queue.drain()
	e.pos.reset()
	e.sched.resetForStart()
	e.mu.Unlock()

	if noteWasOn {
		e.sendOutbound(func() error {
			return e.transport.SendNoteOff(e.cfg.MidiChannel, e.cfg.MidiNote)
		})
	}
	e.sendOutbound(func() error { return e.transport.SendStop() })
	e.cfg.Observers.runningChanged(false)
}

// SetBPM clamps to [BpmMin, BpmMax], updates the live BPM, and — if
// RunningMaster — reschedules the internal tick source on the engine's own
// goroutine via signalWake.
func (e *SyncEngine) SetBPM(bpm float64) {
	e.mu.Lock()
	if bpm < e.cfg.BpmMin {
		bpm = e.cfg.BpmMin
	}
	if bpm > e.cfg.BpmMax {
		bpm = e.cfg.BpmMax
	}
	changed := bpm != e.bpm
	e.bpm = bpm
	e.mu.Unlock()

	if changed {
		e.signalWake()
		e.cfg.Observers.bpmChanged(bpm)
	}
}

// BlockBPMUpdates suppresses estimator writes while the control surface
// edits BPM by hand; window sampling continues.
func (e *SyncEngine) BlockBPMUpdates(block bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bpmEst.blockUpdates(block)
}

// BlockTransportSync sets or clears the transportSyncBlocked flag. While it
// is set, inbound Start, Stop and Continue events are ignored. The
// control-surface Start and Stop do not consult the flag, and the inbound
// handlers set it only inside their own critical section, clearing it
// before observers are notified, so observer callbacks are not kept from
// triggering outbound transport messages.
func (e *SyncEngine) BlockTransportSync(block bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transportSyncBlocked = block
}

// CurrentBPM is a snapshot read of the live BPM.
func (e *SyncEngine) CurrentBPM() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bpm
}

// IsRunning is a snapshot read of whether the engine is in either Running state.
func (e *SyncEngine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state != Stopped
}

// State is a snapshot read of the full run state.
func (e *SyncEngine) State() RunState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// PositionQuarterNotes is a snapshot read of tick / 24.
func (e *SyncEngine) PositionQuarterNotes() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pos.quarterNotes()
}

// PositionBeats is a snapshot read of the current beat count.
func (e *SyncEngine) PositionBeats() int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pos.beats()
}

// PushInbound is called from the transport callback context to hand a
// decoded event to the engine goroutine. It never blocks beyond the
// queue's single-slot copy. spec.md §7's QueueOverflow diagnostic fires
// once per overflow episode — only when the drop count has risen since the
// last report, not on every push while the queue stays saturated.
func (e *SyncEngine) PushInbound(ev InboundEvent) {
	e.queue.push(ev)
	e.signalWake()

	if n := e.queue.overflowCount(); n > e.overflowReported {
		e.overflowReported = n
		e.log.Warnw("inbound queue overflow", "category", "engine", "err", ErrQueueOverflow, "dropped", n)
		e.cfg.Observers.fault(ErrQueueOverflow)
	}
}

// sendOutbound runs a transport send outside any lock. A failure is logged
// and reported to Observers.Fault on every failed send (there is no
// once-per-episode suppression) and is not propagated — spec.md §7's
// TransportUnavailable is locally recovered.
func (e *SyncEngine) sendOutbound(send func() error) {
	if e.transport == nil {
		e.log.Warnw("transport unavailable", "category", "engine", "err", ErrTransportUnavailable)
		e.cfg.Observers.fault(ErrTransportUnavailable)
		return
	}
	if err := send(); err != nil {
		e.log.Warnw("outbound send failed", "category", "engine", "err", err)
		e.cfg.Observers.fault(err)
	}
}
