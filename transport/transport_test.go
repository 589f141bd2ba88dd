package transport

import "testing"

func TestTransportSendsFailCleanlyBeforeOpen(t *testing.T) {
	tp := New(nil)

	if err := tp.SendClock(); err == nil {
		t.Errorf("SendClock() on unopened Transport = nil error, want ErrTransportUnavailable")
	}
	if err := tp.SendStart(); err == nil {
		t.Errorf("SendStart() on unopened Transport = nil error, want ErrTransportUnavailable")
	}
	if err := tp.SendNoteOn(0, 60, 100); err == nil {
		t.Errorf("SendNoteOn() on unopened Transport = nil error, want ErrTransportUnavailable")
	}
	if err := tp.SendNoteOff(0, 60); err == nil {
		t.Errorf("SendNoteOff() on unopened Transport = nil error, want ErrTransportUnavailable")
	}
}

func TestTransportCloseOnUnopenedIsSafe(t *testing.T) {
	tp := New(nil)
	tp.Close() // must not panic with nothing open
}

func TestFindPortsReportNotFound(t *testing.T) {
	if _, err := findInPort("a port name that cannot exist in this test process"); err == nil {
		t.Errorf("findInPort(missing) = nil error, want not-found error")
	}
	if _, err := findOutPort("a port name that cannot exist in this test process"); err == nil {
		t.Errorf("findOutPort(missing) = nil error, want not-found error")
	}
}
