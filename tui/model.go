// Package tui is the control surface: a bubbletea program that starts and
// stops the engine, nudges its BPM, picks MIDI ports, and shows live
// position/BPM/beat state — grounded in the teacher's tui.Model /
// ListenForUpdates pattern, driving an engine.SyncEngine instead of a
// sequencer.Manager.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midisync/engine"
	"midisync/theme"
	"midisync/transport"
	"midisync/widgets"
)

// tickFlashDuration is how long the beat glyph stays bright after a
// beat_sent notification before View dims it back down.
const tickFlashDuration = 80 * time.Millisecond

// Events is the bridge from engine.Observers callbacks (invoked on the
// engine goroutine) to bubbletea's Update loop. push is non-blocking: a
// slow or absent reader simply drops the notification, matching the
// spec's "fire-and-forget" contract.
type Events struct {
	ch chan tea.Msg
}

func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, 32)}
}

func (e *Events) push(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

// Observers returns engine.Observers that forward every notification onto
// this Events bridge.
func (e *Events) Observers() engine.Observers {
	return engine.Observers{
		RunningChanged: func(running bool) { e.push(runningMsg{running}) },
		BpmChanged:     func(bpm float64) { e.push(bpmMsg{bpm}) },
		BeatSent:       func(qn int32) { e.push(beatMsg{qn}) },
		PositionChanged: func(beats int32, qn float64) {
			e.push(positionMsg{beats: beats, quarterNotes: qn})
		},
		Fault: func(err error) { e.push(faultMsg{err}) },
	}
}

type runningMsg struct{ running bool }
type bpmMsg struct{ bpm float64 }
type beatMsg struct{ quarterNote int32 }
type positionMsg struct {
	beats        int32
	quarterNotes float64
}
type faultMsg struct{ err error }
type flashExpiredMsg struct{}

// Model is the bubbletea model driving a single SyncEngine.
type Model struct {
	eng   *engine.SyncEngine
	xport *transport.Transport
	theme *theme.Theme
	ev    *Events

	inPorts, outPorts   []string
	inIdx, outIdx       int

	running      bool
	bpm          float64
	beats        int32
	quarterNotes float64
	flashing     bool
	lastFault    error
	quitting     bool
}

func NewModel(eng *engine.SyncEngine, xport *transport.Transport, th *theme.Theme, ev *Events) Model {
	ins, outs := transport.ListPorts()
	return Model{
		eng:      eng,
		xport:    xport,
		theme:    th,
		ev:       ev,
		inPorts:  ins,
		outPorts: outs,
		bpm:      eng.CurrentBPM(),
	}
}

func listen(ev *Events) tea.Cmd {
	return func() tea.Msg { return <-ev.ch }
}

func (m Model) Init() tea.Cmd {
	return listen(m.ev)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.eng.Stop()
			return m, tea.Quit
		case "s":
			if m.running {
				m.eng.Stop()
			} else {
				m.eng.Start()
			}
			return m, listen(m.ev)
		case "+", "=":
			m.eng.SetBPM(m.eng.CurrentBPM() + 1)
			return m, listen(m.ev)
		case "-", "_":
			m.eng.SetBPM(m.eng.CurrentBPM() - 1)
			return m, listen(m.ev)
		case "i":
			if len(m.inPorts) > 0 {
				m.inIdx = (m.inIdx + 1) % len(m.inPorts)
			}
			return m, listen(m.ev)
		case "o":
			if len(m.outPorts) > 0 {
				m.outIdx = (m.outIdx + 1) % len(m.outPorts)
			}
			return m, listen(m.ev)
		case "c":
			if len(m.inPorts) > 0 && len(m.outPorts) > 0 {
				_ = m.xport.Open(m.inPorts[m.inIdx], m.outPorts[m.outIdx], m.eng)
			}
			return m, listen(m.ev)
		}
		return m, nil

	case runningMsg:
		m.running = msg.running
		return m, listen(m.ev)
	case bpmMsg:
		m.bpm = msg.bpm
		return m, listen(m.ev)
	case beatMsg:
		m.flashing = true
		return m, tea.Batch(listen(m.ev), flashTimeout())
	case positionMsg:
		m.beats, m.quarterNotes = msg.beats, msg.quarterNotes
		return m, listen(m.ev)
	case faultMsg:
		m.lastFault = msg.err
		return m, listen(m.ev)
	case flashExpiredMsg:
		m.flashing = false
		return m, nil
	}
	return m, nil
}

func flashTimeout() tea.Cmd {
	return tea.Tick(tickFlashDuration, func(tea.Time) tea.Msg { return flashExpiredMsg{} })
}

func (m Model) View() string {
	if m.quitting {
		return "midisync stopped\n"
	}

	glyph := m.theme.Symbols.Stopped
	if m.running {
		glyph = m.theme.Symbols.Master
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n",
		widgets.RenderStateGlyph(m.theme, glyph, m.running),
		lipgloss.NewStyle().Foreground(m.theme.FG()).Render("midisync"))
	fmt.Fprintf(&b, "%s  %s\n",
		widgets.RenderBpmMeter(m.theme, m.bpm, 20, 300, 24),
		widgets.RenderBeatFlash(m.theme, m.theme.Symbols.Beat, m.flashing))
	fmt.Fprintf(&b, "beats=%d  quarter_notes=%.2f\n", m.beats, m.quarterNotes)

	if len(m.inPorts) > 0 {
		fmt.Fprintf(&b, "in:  %s\n", m.inPorts[m.inIdx])
	}
	if len(m.outPorts) > 0 {
		fmt.Fprintf(&b, "out: %s\n", m.outPorts[m.outIdx])
	}
	if m.lastFault != nil {
		fmt.Fprintf(&b, "%s\n", lipgloss.NewStyle().Foreground(m.theme.Warning()).Render(m.lastFault.Error()))
	}

	b.WriteString("\n[s] start/stop  [i/o] pick ports  [c] connect  [+/-] bpm  [q] quit\n")
	return b.String()
}
