package pole

import (
	"fmt"
	"strings"
)

// IndexToDirections maps bit k of index to ant k: a set bit faces Right,
// a clear bit faces Left.
func IndexToDirections(index, antCount int) []Direction {
	dirs := make([]Direction, antCount)
	for k := range dirs {
		if index&(1<<k) != 0 {
			dirs[k] = Right
		} else {
			dirs[k] = Left
		}
	}
	return dirs
}

// DirectionsToIndex is the inverse of IndexToDirections.
func DirectionsToIndex(dirs []Direction) int {
	index := 0
	for k, d := range dirs {
		if d == Right {
			index |= 1 << k
		}
	}
	return index
}

// ParseDirections reads one character per ant: '+', 'r', 'R' or '>' face
// right; '-', 'l', 'L' or '<' face left. Commas and spaces are ignored.
func ParseDirections(s string) ([]Direction, error) {
	dirs := make([]Direction, 0, len(s))
	for i, c := range s {
		switch c {
		case '+', 'r', 'R', '>':
			dirs = append(dirs, Right)
		case '-', 'l', 'L', '<':
			dirs = append(dirs, Left)
		case ',', ' ':
		default:
			return nil, invalid("directions", "unexpected %q at offset %d", c, i)
		}
	}
	return dirs, nil
}

func FormatDirections(dirs []Direction) string {
	var b strings.Builder
	for _, d := range dirs {
		b.WriteString(d.String())
	}
	return b.String()
}

// FormatPositions renders positions as a brace list, e.g. {30, 80}.
func FormatPositions(positions []int) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprint(p)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
