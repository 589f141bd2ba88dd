// Command miditest is a small standalone diagnostic for bringing up a MIDI
// interface against this module: list visible ports, watch for hotplug
// changes, or exchange raw bytes with one port to confirm it's alive before
// pointing midisync at it.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollDevices()
	case "listen":
		listen(os.Args[2:])
	case "send-clock":
		sendClock(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List all MIDI ports")
	fmt.Println("  poll                 - Poll for device changes")
	fmt.Println("  listen <in-index>    - Print raw bytes received on a port")
	fmt.Println("  send-clock <out-index> [count] - Send clock pulses to a port")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)
			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}

func listen(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: miditest listen <in-index>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("bad index %q: %v\n", args[0], err)
		return
	}

	ins := midi.GetInPorts()
	if idx < 0 || idx >= len(ins) {
		fmt.Printf("no input port at index %d\n", idx)
		return
	}
	in := ins[idx]
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		fmt.Printf("[%s] % X\n", time.Now().Format("15:04:05.000"), []byte(msg))
	})
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer stop()

	select {}
}

func sendClock(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: miditest send-clock <out-index> [count]")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("bad index %q: %v\n", args[0], err)
		return
	}
	count := 24
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			count = n
		}
	}

	outs := midi.GetOutPorts()
	if idx < 0 || idx >= len(outs) {
		fmt.Printf("no output port at index %d\n", idx)
		return
	}
	out := outs[idx]

	send, err := midi.SendTo(out)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Printf("Sending %d clock pulses (0xF8) to %s...\n", count, out.String())
	for i := 0; i < count; i++ {
		if err := send(midi.Message([]byte{0xF8})); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	fmt.Println("Done!")
}
