package engine

import "time"

// Config holds the recognized options from spec.md §3. It is built once at
// construction via functional Options — there is no file, environment
// variable, or other persisted source, matching the teacher's
// options-struct-plus-Option-func shape (leandrodaf-midi's ClientOptions).
type Config struct {
	EmissionAdvance time.Duration

	BpmMin, BpmMax     float64
	BpmChangeThreshold float64

	MidiChannel  uint8
	MidiNote     uint8
	MidiVelocity uint8

	// NoteOffWindowQuarters is the fraction of a quarter note past a
	// crossed boundary within which a still-sounding note is released.
	NoteOffWindowQuarters float64

	// QueueCapacity bounds the InboundQueue. Overflow drops the oldest
	// queued event and increments a diagnostic counter.
	QueueCapacity int

	Observers Observers
}

// DefaultConfig returns the configuration spec.md §3 names as defaults.
func DefaultConfig() Config {
	return Config{
		EmissionAdvance:       70 * time.Millisecond,
		BpmMin:                20,
		BpmMax:                300,
		BpmChangeThreshold:    0.5,
		MidiChannel:           0,
		MidiNote:              60,
		MidiVelocity:          100,
		NoteOffWindowQuarters: 0.4,
		QueueCapacity:         256,
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithEmissionAdvance sets the predictive lead time before each boundary.
func WithEmissionAdvance(d time.Duration) Option {
	return func(c *Config) { c.EmissionAdvance = d }
}

// WithBPMRange sets the clamp range for accepted BPM values.
func WithBPMRange(min, max float64) Option {
	return func(c *Config) { c.BpmMin, c.BpmMax = min, max }
}

// WithBPMChangeThreshold sets the minimum |ΔBPM| the estimator will accept.
func WithBPMChangeThreshold(threshold float64) Option {
	return func(c *Config) { c.BpmChangeThreshold = threshold }
}

// WithNote sets the emitted beacon note's channel, note number, and velocity.
func WithNote(channel, note, velocity uint8) Option {
	return func(c *Config) {
		c.MidiChannel, c.MidiNote, c.MidiVelocity = channel, note, velocity
	}
}

// WithNoteOffWindow sets the fraction of a quarter note past a boundary
// within which a still-sounding note is released.
func WithNoteOffWindow(fraction float64) Option {
	return func(c *Config) { c.NoteOffWindowQuarters = fraction }
}

// WithQueueCapacity bounds the InboundQueue.
func WithQueueCapacity(capacity int) Option {
	return func(c *Config) { c.QueueCapacity = capacity }
}

// WithObservers installs the fire-and-forget notification callbacks.
func WithObservers(o Observers) Option {
	return func(c *Config) { c.Observers = o }
}
