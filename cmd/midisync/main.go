// Command midisync runs the whole-note beacon: it opens a pair of MIDI
// ports, starts the sync engine against them, and drives a bubbletea
// control surface on top — grounded in the teacher's main.go wiring of
// midi.NewDeviceManager + sequencer.NewManager + tui.NewModel.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"midisync/engine"
	"midisync/internal/midilog"
	"midisync/theme"
	"midisync/transport"
	"midisync/tui"
)

func main() {
	dev := flag.Bool("dev", false, "use development (console) logging instead of production JSON")
	inName := flag.String("in", "", "MIDI input port name to open on startup")
	outName := flag.String("out", "", "MIDI output port name to open on startup")
	bpm := flag.Float64("bpm", 120, "initial BPM")
	flag.Parse()

	log, err := midilog.New(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "midisync: logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	events := tui.NewEvents()

	xport := transport.New(log.Named("transport"))

	eng := engine.NewSyncEngine(xport, log.Named("engine"),
		engine.WithObservers(events.Observers()),
	)
	defer eng.Close()
	eng.SetBPM(*bpm)

	if *inName != "" && *outName != "" {
		if err := xport.Open(*inName, *outName, eng); err != nil {
			log.Warnw("startup port open failed", "err", err)
		}
	}

	model := tui.NewModel(eng, xport, theme.New(), events)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "midisync: %v\n", err)
		os.Exit(1)
	}
}
