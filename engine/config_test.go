package engine

import "testing"

func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BpmMin != 20 || cfg.BpmMax != 300 {
		t.Errorf("BPM range = [%v, %v], want [20, 300]", cfg.BpmMin, cfg.BpmMax)
	}
	if cfg.MidiNote != 60 || cfg.MidiChannel != 0 || cfg.MidiVelocity != 100 {
		t.Errorf("note = ch%d/n%d/v%d, want ch0/n60/v100", cfg.MidiChannel, cfg.MidiNote, cfg.MidiVelocity)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithBPMRange(40, 200),
		WithNote(1, 72, 90),
		WithQueueCapacity(16),
	} {
		opt(&cfg)
	}
	if cfg.BpmMin != 40 || cfg.BpmMax != 200 {
		t.Errorf("BPM range after WithBPMRange = [%v, %v], want [40, 200]", cfg.BpmMin, cfg.BpmMax)
	}
	if cfg.MidiChannel != 1 || cfg.MidiNote != 72 || cfg.MidiVelocity != 90 {
		t.Errorf("note after WithNote = ch%d/n%d/v%d, want ch1/n72/v90", cfg.MidiChannel, cfg.MidiNote, cfg.MidiVelocity)
	}
	if cfg.QueueCapacity != 16 {
		t.Errorf("QueueCapacity after WithQueueCapacity = %d, want 16", cfg.QueueCapacity)
	}
}
