package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/antpole/internal/pole"
)

var palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#88ff88", "#ff8800", "#cccccc"}

// WorldlinesToSVG draws a space-time diagram of a run: position on the
// horizontal axis, time growing downward, one polyline per ant. The start
// layout is taken as the row at t=0.
func WorldlinesToSVG(length int, start []int, frames []pole.Frame, width, height int) string {
	if length <= 0 || len(start) == 0 {
		return ""
	}

	maxT := 1
	if len(frames) > 0 && frames[len(frames)-1].Time > 0 {
		maxT = frames[len(frames)-1].Time
	}

	x := func(p int) float64 { return float64(p) / float64(length) * float64(width) }
	y := func(t int) float64 { return float64(t) / float64(maxT) * float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, p0 := range start {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M%.1f,%.1f`,
			palette[i%len(palette)], x(p0), y(0)))

		last := p0
		for _, f := range frames {
			if i >= len(f.Positions) {
				break
			}
			p := f.Positions[i]
			if p == last && (p <= 0 || p >= length) {
				break
			}
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x(p), y(f.Time)))
			last = p
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
