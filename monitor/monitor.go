// Package monitor shows a live status board of a running set of experiments in the terminal
package monitor

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/evolve/status"
)

// DefaultInterval is the redraw period
const DefaultInterval = 100 * time.Millisecond

// Monitor redraws the status board until its context ends
// A stop key (q, Esc, Ctrl-C) calls the stop function so the caller can cancel the run
type Monitor struct {
	screen   tcell.Screen
	registry *status.Registry
	interval time.Duration
	stop     func()
}

// New creates a monitor over an initialized screen
func New(screen tcell.Screen, registry *status.Registry, stop func()) *Monitor {
	if stop == nil {
		stop = func() {}
	}
	return &Monitor{
		screen:   screen,
		registry: registry,
		interval: DefaultInterval,
		stop:     stop,
	}
}

// SetInterval changes the redraw period
func (m *Monitor) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Run draws until ctx is done, then draws one final frame
// The caller owns the screen and finalizes it after Run returns
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go m.poll(events, quit)

	m.draw()
	for {
		select {
		case <-ctx.Done():
			m.draw()
			return

		case ev := <-events:
			m.handle(ev)

		case <-ticker.C:
			m.draw()
		}
	}
}

func (m *Monitor) poll(events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

func (m *Monitor) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			m.stop()
		}
	case *tcell.EventResize:
		m.screen.Sync()
		m.draw()
	}
}

func (m *Monitor) draw() {
	Render(m.screen, m.registry.Snapshot())
}
