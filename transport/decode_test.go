package transport

import (
	"testing"

	"midisync/engine"
)

func TestDecoderClockStartStopContinue(t *testing.T) {
	d := &decoder{}

	cases := []struct {
		raw  []byte
		kind engine.InboundKind
	}{
		{[]byte{0xF8}, engine.InboundClock},
		{[]byte{0xFA}, engine.InboundStart},
		{[]byte{0xFC}, engine.InboundStop},
		{[]byte{0xFB}, engine.InboundContinue},
	}
	for _, c := range cases {
		ev, ok, err := d.decode(c.raw)
		if !ok {
			t.Fatalf("decode(%v) ok = false, want true", c.raw)
		}
		if err != nil {
			t.Errorf("decode(%v) err = %v, want nil", c.raw, err)
		}
		if ev.Kind != c.kind {
			t.Errorf("decode(%v).Kind = %v, want %v", c.raw, ev.Kind, c.kind)
		}
	}
}

func TestDecoderSongPositionPointer(t *testing.T) {
	d := &decoder{}
	// sixteenths = 200 = 0b0000001_1001000 -> lsb=0x48, msb=0x01
	ev, ok, err := d.decode([]byte{0xF2, 0x48, 0x01})
	if !ok {
		t.Fatalf("decode(spp) ok = false, want true")
	}
	if err != nil {
		t.Errorf("decode(spp) err = %v, want nil", err)
	}
	if ev.Kind != engine.InboundSongPositionPointer {
		t.Fatalf("decode(spp).Kind = %v, want InboundSongPositionPointer", ev.Kind)
	}
	if ev.SPPSixteenths != 200 {
		t.Errorf("decode(spp).SPPSixteenths = %d, want 200", ev.SPPSixteenths)
	}
}

func TestDecoderTruncatedSongPositionPointerIsDecodeFailure(t *testing.T) {
	d := &decoder{}
	ev, ok, err := d.decode([]byte{0xF2, 0x48})
	if !ok {
		t.Fatalf("decode(truncated spp) ok = false, want true (reported as InboundUnknown)")
	}
	if err != engine.ErrInboundDecodeFailed {
		t.Errorf("decode(truncated spp) err = %v, want ErrInboundDecodeFailed", err)
	}
	if ev.Kind != engine.InboundUnknown || ev.UnknownStatus != 0xF2 {
		t.Errorf("decode(truncated spp) = %+v, want Unknown/0xF2", ev)
	}
}

func TestDecoderDropsActiveSensing(t *testing.T) {
	d := &decoder{}
	_, ok, err := d.decode([]byte{0xFE})
	if ok {
		t.Errorf("decode(active sensing) ok = true, want false")
	}
	if err != nil {
		t.Errorf("decode(active sensing) err = %v, want nil", err)
	}
}

func TestDecoderReportsSystemResetAsUnknown(t *testing.T) {
	d := &decoder{}
	ev, ok, err := d.decode([]byte{0xFF})
	if !ok {
		t.Fatalf("decode(system reset) ok = false, want true")
	}
	if err != nil {
		t.Errorf("decode(system reset) err = %v, want nil", err)
	}
	if ev.Kind != engine.InboundUnknown || ev.UnknownStatus != 0xFF {
		t.Errorf("decode(system reset) = %+v, want Unknown/0xFF", ev)
	}
}

func TestDecoderEmptyMessageIsDecodeFailure(t *testing.T) {
	d := &decoder{}
	_, ok, err := d.decode(nil)
	if ok {
		t.Errorf("decode(nil) ok = true, want false")
	}
	if err != engine.ErrInboundDecodeFailed {
		t.Errorf("decode(nil) err = %v, want ErrInboundDecodeFailed", err)
	}
}
