package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/antpole/internal/pole"
)

const (
	DefaultWidth = 60
	clearScreen  = "\033[2J\033[H"
	hideCursor   = "\033[?25l"
	showCursor   = "\033[?25h"
)

// RenderPole draws the pole as a single line of width cells between two
// end markers. Ants on the pole are drawn as '<' or '>' by facing; cells
// holding more than one ant show '*'. Ants on either end are not drawn.
func RenderPole(length, width int, positions []int, directions []pole.Direction) string {
	if width < 1 {
		width = 1
	}
	cells := []rune(strings.Repeat(".", width))
	occupied := make([]int, width)

	for i, p := range positions {
		if p <= 0 || p >= length {
			continue
		}
		col := p * width / length
		if col >= width {
			col = width - 1
		}
		occupied[col]++
		switch {
		case occupied[col] > 1:
			cells[col] = '*'
		case directions[i] == pole.Right:
			cells[col] = '>'
		default:
			cells[col] = '<'
		}
	}
	return "|" + string(cells) + "|"
}

// LiveRenderer prints one line per step. With a positive frame rate it
// sleeps between steps and redraws in place.
type LiveRenderer struct {
	out       io.Writer
	length    int
	width     int
	frameRate int
	lastFrame time.Time
	sleep     func(time.Duration)
}

func NewLiveRenderer(out io.Writer, length, width, frameRate int) *LiveRenderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &LiveRenderer{
		out:       out,
		length:    length,
		width:     width,
		frameRate: frameRate,
		sleep:     time.Sleep,
	}
}

func (r *LiveRenderer) OnStep(positions []int, directions []pole.Direction, t int) {
	if r.frameRate > 0 {
		frame := time.Second / time.Duration(r.frameRate)
		if wait := frame - time.Since(r.lastFrame); wait > 0 && !r.lastFrame.IsZero() {
			r.sleep(wait)
		}
		r.lastFrame = time.Now()
		fmt.Fprint(r.out, clearScreen)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("t=%4d %s ", t, RenderPole(r.length, r.width, positions, directions)))
	for i, p := range positions {
		b.WriteString(fmt.Sprintf(" %d:%d%s", i, p, directions[i]))
	}
	b.WriteString("\n")
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) OnComplete(elapsed int) {
	fmt.Fprintf(r.out, "pole empty at t=%d\n", elapsed)
}

func (r *LiveRenderer) Start() {
	if r.frameRate > 0 {
		fmt.Fprint(r.out, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.frameRate > 0 {
		fmt.Fprint(r.out, showCursor)
	}
}
