package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player plays chimes on the default output device
// Without a device it degrades to a no-op
type Player struct {
	mu          sync.Mutex
	volume      float64
	initialized bool
}

// NewPlayer creates a player at the given linear volume (0..1)
func NewPlayer(volume float64) *Player {
	return &Player{volume: min(max(volume, 0), 1)}
}

// Initialize opens the speaker
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// Announce plays the run-end chime and waits until it finishes or ctx ends
func (p *Player) Announce(ctx context.Context, succeeded bool) {
	p.Play(ctx, NewChime(Notes(succeeded), p.volume, SampleRate))
}

// Play streams s and waits for it to drain
func (p *Player) Play(ctx context.Context, s beep.Streamer) {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()
	if !ready {
		return
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))

	select {
	case <-done:
	case <-ctx.Done():
		speaker.Clear()
	}
}

// Close releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Close()
	p.initialized = false
}
