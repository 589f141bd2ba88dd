// Package theme supplies the color and symbol set the control-surface TUI
// renders with, grounded in the teacher's theme.Theme/Symbols split but
// with theme.Palette's GPL-file loader dropped: the sync beacon has no
// artist palettes to load, just a small fixed status palette.
package theme

import "github.com/charmbracelet/lipgloss"

// Symbols are the glyphs the control surface uses for run state and the
// beat flash.
type Symbols struct {
	Stopped rune // ■ idle
	Master  rune // ▶ running, internal clock
	Slave   rune // ◀ running, following inbound clock
	Beat    rune // ● flashes on beat_sent
}

// Theme pins a small fixed color set instead of loading an artist palette
// from a .gpl file — there is nothing to theme here beyond run-state and
// fault colors.
type Theme struct {
	Symbols Symbols
}

func New() *Theme {
	return &Theme{
		Symbols: Symbols{
			Stopped: '■',
			Master:  '▶',
			Slave:   '◀',
			Beat:    '●',
		},
	}
}

func (t *Theme) FG() lipgloss.Color      { return lipgloss.Color("#e8e8e8") }
func (t *Theme) Muted() lipgloss.Color   { return lipgloss.Color("#6c6c6c") }
func (t *Theme) Accent() lipgloss.Color  { return lipgloss.Color("#c64fd1") }
func (t *Theme) Running() lipgloss.Color { return lipgloss.Color("#52d97f") }
func (t *Theme) Warning() lipgloss.Color { return lipgloss.Color("#e0a030") }
func (t *Theme) Beat() lipgloss.Color    { return lipgloss.Color("#ff5f87") }
