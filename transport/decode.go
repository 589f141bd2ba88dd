package transport

import "midisync/engine"

// Status bytes the core consumes, bit-exact per spec.md §6.
const (
	statusClock       byte = 0xF8
	statusStart       byte = 0xFA
	statusContinue    byte = 0xFB
	statusStop        byte = 0xFC
	statusSPP         byte = 0xF2
	statusActiveSense byte = 0xFE
	statusSystemReset byte = 0xFF
)

// decoder turns raw MIDI bytes into engine.InboundEvent values. gomidi's
// ListenTo callback already reassembles whole messages, so SPP's three
// bytes (status, LSB, MSB) arrive together and decoder needs no byte-at-a-
// time state machine of its own — unlike the original's handleRawMIDIByte,
// which had to because RtMidi delivered bytes one at a time.
type decoder struct{}

// decode reports ok=false for Active Sensing (dropped before it becomes an
// event at all, per spec.md §6) and for an empty message. err is
// engine.ErrInboundDecodeFailed for a malformed or truncated message — an
// empty message (ok=false, nothing to hand the engine) or a Song Position
// Pointer missing its LSB/MSB bytes (ok=true, reported to the engine as
// InboundUnknown per spec.md §7).
func (d *decoder) decode(raw []byte) (ev engine.InboundEvent, ok bool, err error) {
	if len(raw) == 0 {
		return engine.InboundEvent{}, false, engine.ErrInboundDecodeFailed
	}

	switch raw[0] {
	case statusClock:
		return engine.InboundEvent{Kind: engine.InboundClock}, true, nil
	case statusStart:
		return engine.InboundEvent{Kind: engine.InboundStart}, true, nil
	case statusContinue:
		return engine.InboundEvent{Kind: engine.InboundContinue}, true, nil
	case statusStop:
		return engine.InboundEvent{Kind: engine.InboundStop}, true, nil
	case statusSPP:
		if len(raw) < 3 {
			return engine.InboundEvent{Kind: engine.InboundUnknown, UnknownStatus: raw[0]}, true, engine.ErrInboundDecodeFailed
		}
		lsb, msb := raw[1]&0x7F, raw[2]&0x7F
		sixteenths := uint16(lsb) | uint16(msb)<<7
		return engine.InboundEvent{Kind: engine.InboundSongPositionPointer, SPPSixteenths: sixteenths}, true, nil
	case statusActiveSense:
		return engine.InboundEvent{}, false, nil
	default:
		return engine.InboundEvent{Kind: engine.InboundUnknown, UnknownStatus: raw[0]}, true, nil
	}
}
