// Package transport adapts gitlab.com/gomidi/midi/v2 (with the rtmididrv
// backend) into the engine.MidiTransport collaborator: it enumerates and
// opens real MIDI ports, decodes inbound bytes on the realtime-priority
// callback gomidi.ListenTo owns, and sends outbound clock/transport/note
// messages. Apart from the standalone cmd/miditest tool, it is the only
// package in this module that imports the MIDI I/O library — engine never
// does.
package transport

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"midisync/engine"
)

// Sink receives decoded inbound events. engine.SyncEngine.PushInbound
// satisfies it.
type Sink interface {
	PushInbound(ev engine.InboundEvent)
}

// Logger is the narrow logging seam Transport depends on, the same shape
// as engine.Logger so a single *midilog.Logger (Named "transport") can be
// passed in. A nil Logger is valid and simply drops log calls.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Warnw(string, ...interface{})  {}

// Transport owns one open input port and one open output port at a time,
// grounded in the teacher's midi.DeviceManager (port enumeration) and
// sequencer.Manager (multi-port outbound sender map), narrowed to the
// single in/single out loopback pairing the spec assumes.
type Transport struct {
	mu sync.Mutex

	log Logger

	inPort  drivers.In
	outPort drivers.Out
	send    func(gomidi.Message) error
	stopIn  func()
}

// New returns an unopened Transport that logs through log as given
// (cmd/midisync passes one Named "transport"). log may be nil. Call Open
// before sending or receiving.
func New(log Logger) *Transport {
	if log == nil {
		log = noopLogger{}
	}
	return &Transport{log: log}
}

// ListPorts returns the names of every currently visible MIDI input and
// output port, the same shape as the teacher's DeviceManager.scan.
func ListPorts() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// Open opens the named input and output ports and starts listening. sink
// receives every decoded InboundEvent from the gomidi.ListenTo callback
// goroutine; Open never calls into sink's owner's locks itself.
func (t *Transport) Open(inName, outName string, sink Sink) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	in, err := findInPort(inName)
	if err != nil {
		return err
	}
	out, err := findOutPort(outName)
	if err != nil {
		return err
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		return fmt.Errorf("transport: open output %q: %w", outName, err)
	}

	dec := &decoder{}
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		ev, ok, decErr := dec.decode([]byte(msg))
		if decErr != nil {
			t.log.Warnw("inbound decode failed", "err", decErr)
		}
		if ok {
			sink.PushInbound(ev)
		}
	})
	if err != nil {
		return fmt.Errorf("transport: open input %q: %w", inName, err)
	}

	t.inPort, t.outPort, t.send, t.stopIn = in, out, send, stop
	t.log.Debugw("ports opened", "in", inName, "out", outName)
	return nil
}

// Close stops the inbound listener and releases the output sender.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopIn != nil {
		t.stopIn()
	}
	t.inPort, t.outPort, t.send, t.stopIn = nil, nil, nil, nil
}

func findInPort(name string) (drivers.In, error) {
	for _, p := range gomidi.GetInPorts() {
		if p.String() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("transport: input port %q not found", name)
}

func findOutPort(name string) (drivers.Out, error) {
	for _, p := range gomidi.GetOutPorts() {
		if p.String() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("transport: output port %q not found", name)
}

func (t *Transport) sendRaw(raw []byte) error {
	t.mu.Lock()
	send := t.send
	t.mu.Unlock()
	if send == nil {
		return engine.ErrTransportUnavailable
	}
	return send(gomidi.Message(raw))
}

// ---- outbound: engine.MidiTransport ----

func (t *Transport) SendClock() error { return t.sendRaw([]byte{0xF8}) }
func (t *Transport) SendStart() error { return t.sendRaw([]byte{0xFA}) }
func (t *Transport) SendStop() error  { return t.sendRaw([]byte{0xFC}) }
func (t *Transport) SendContinue() error { return t.sendRaw([]byte{0xFB}) }

func (t *Transport) SendSongPositionPointer(sixteenths uint16) error {
	lsb := byte(sixteenths & 0x7F)
	msb := byte((sixteenths >> 7) & 0x7F)
	return t.sendRaw([]byte{0xF2, lsb, msb})
}

func (t *Transport) SendNoteOn(channel, note, velocity uint8) error {
	t.mu.Lock()
	send := t.send
	t.mu.Unlock()
	if send == nil {
		return engine.ErrTransportUnavailable
	}
	return send(gomidi.NoteOn(channel, note, velocity))
}

func (t *Transport) SendNoteOff(channel, note uint8) error {
	t.mu.Lock()
	send := t.send
	t.mu.Unlock()
	if send == nil {
		return engine.ErrTransportUnavailable
	}
	return send(gomidi.NoteOff(channel, note))
}
