package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the rate every chime is rendered at
const SampleRate = beep.SampleRate(44100)

// Note is one tone of a chime
type Note struct {
	Freq     float64
	Duration time.Duration
}

const (
	noteAttack  = 8 * time.Millisecond
	noteRelease = 40 * time.Millisecond
	noteGap     = 30 * time.Millisecond
)

// Ascending C major arpeggio for a run where some experiment succeeded
var successNotes = []Note{
	{Freq: 523.25, Duration: 110 * time.Millisecond},
	{Freq: 659.25, Duration: 110 * time.Millisecond},
	{Freq: 783.99, Duration: 110 * time.Millisecond},
	{Freq: 1046.50, Duration: 240 * time.Millisecond},
}

// Falling minor third for a run where every experiment exhausted its generations
var exhaustedNotes = []Note{
	{Freq: 329.63, Duration: 160 * time.Millisecond},
	{Freq: 261.63, Duration: 320 * time.Millisecond},
}

// Notes returns the melody announcing a finished run
func Notes(succeeded bool) []Note {
	if succeeded {
		return successNotes
	}
	return exhaustedNotes
}

// NewChime renders notes as one streamer, each note shaped and followed by a short gap
func NewChime(notes []Note, volume float64, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, 2*len(notes))
	for _, n := range notes {
		tone := NewOscillator(n.Freq, n.Duration, WaveTriangle, rate)
		parts = append(parts,
			NewEnvelope(tone, n.Duration, noteAttack, noteRelease, rate),
			beep.Silence(rate.N(noteGap)))
	}
	return newVolume(beep.Seq(parts...), volume)
}

// ChimeSamples is the total length of a chime in samples
func ChimeSamples(notes []Note, rate beep.SampleRate) int {
	total := 0
	for _, n := range notes {
		total += rate.N(n.Duration) + rate.N(noteGap)
	}
	return total
}
