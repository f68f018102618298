package monitor

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/evolve/status"
)

// Canvas is the drawing surface the monitor renders onto; tcell.Screen satisfies it
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Clear()
	Show()
}

var (
	styleTitle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleLabel = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGood  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBad   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBar   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHint  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Render draws one frame of the status board
func Render(c Canvas, snap status.Snapshot) {
	c.Clear()
	width, height := c.Size()

	total := snap.Ints[status.KeyExperimentsTotal]
	done := snap.Ints[status.KeyExperimentsDone]
	phase := snap.Strings[status.KeyPhase]

	phaseStyle := styleValue
	switch phase {
	case status.PhaseDone:
		phaseStyle = styleGood
	case status.PhaseCancelled, status.PhaseFailed:
		phaseStyle = styleBad
	}

	y := 0
	x := drawText(c, 0, y, width, styleTitle, "evolve ")
	drawText(c, x, y, width, styleLabel, snap.Strings[status.KeyRunID])
	y++
	x = drawText(c, 0, y, width, styleLabel, "phase      ")
	drawText(c, x, y, width, phaseStyle, phase)
	y++
	x = drawText(c, 0, y, width, styleLabel, "reference  ")
	drawText(c, x, y, width, styleValue, snap.Strings[status.KeyReference])
	y += 2

	rows := []struct{ label, value string }{
		{"experiments", fmt.Sprintf("%d/%d  active %d", done, total, snap.Ints[status.KeyExperimentsActive])},
		{"succeeded", fmt.Sprintf("%d", snap.Ints[status.KeySuccesses])},
		{"avg success", fmt.Sprintf("%.2f generations", snap.Floats[status.KeyAverageGens])},
		{"generation", fmt.Sprintf("%d  evaluated %d", snap.Ints[status.KeyGeneration], snap.Ints[status.KeyGenerations])},
		{"exact", fmt.Sprintf("%d", snap.Ints[status.KeyTopCount])},
		{"best score", fmt.Sprintf("%d  mean %.2f", snap.Ints[status.KeyBestScore], snap.Floats[status.KeyMeanScore])},
	}
	for _, row := range rows {
		x = drawText(c, 0, y, width, styleLabel, fmt.Sprintf("%-11s", row.label))
		drawText(c, x, y, width, styleValue, row.value)
		y++
	}
	y++

	drawBar(c, y, width, done, total)
	if height > y+2 {
		drawText(c, 0, height-1, width, styleHint, "q / Esc: stop run")
	}
	c.Show()
}

// drawText writes s from (x, y), clipped at width, and returns the next column
func drawText(c Canvas, x, y, width int, style tcell.Style, s string) int {
	for _, r := range s {
		if x >= width {
			break
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func drawBar(c Canvas, y, width int, done, total int64) {
	inner := width - 2
	if inner <= 0 {
		return
	}
	filled := 0
	if total > 0 {
		filled = int(int64(inner) * min(done, total) / total)
	}

	c.SetContent(0, y, '[', nil, styleLabel)
	for i := 0; i < inner; i++ {
		r := '·'
		if i < filled {
			r = '█'
		}
		c.SetContent(1+i, y, r, nil, styleBar)
	}
	c.SetContent(width-1, y, ']', nil, styleLabel)
}
