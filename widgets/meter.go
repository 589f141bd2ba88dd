// Package widgets renders small lipgloss-styled status widgets for the
// control surface, grounded in the teacher's widgets.RenderPad /
// RenderPadRow — here repurposed from LED-pad rendering to a BPM meter and
// beat flash.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"midisync/theme"
)

// RenderStateGlyph renders the single run-state symbol in its role color.
func RenderStateGlyph(th *theme.Theme, glyph rune, running bool) string {
	color := th.Muted()
	if running {
		color = th.Running()
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(glyph))
}

// RenderBpmMeter renders a fixed-width bar whose fill reflects where bpm
// sits within [bpmMin, bpmMax].
func RenderBpmMeter(th *theme.Theme, bpm, bpmMin, bpmMax float64, width int) string {
	if width < 1 {
		width = 1
	}
	frac := (bpm - bpmMin) / (bpmMax - bpmMin)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(th.Accent()).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(th.Muted()).Render(strings.Repeat("·", width-filled)))
	return fmt.Sprintf("%s %5.1f bpm", b.String(), bpm)
}

// RenderBeatFlash renders the beat glyph bright while flashing is set (the
// caller sets it for a short time after a beat_sent) and dim otherwise.
func RenderBeatFlash(th *theme.Theme, glyph rune, flashing bool) string {
	color := th.Muted()
	if flashing {
		color = th.Beat()
	}
	return lipgloss.NewStyle().Foreground(color).Bold(flashing).Render(string(glyph))
}
