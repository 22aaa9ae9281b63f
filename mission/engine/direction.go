package engine

import (
	"encoding/json"
	"fmt"
	"unicode"
)

// Direction is a rover heading. Values are ordered clockwise so rotation is
// index arithmetic modulo 4.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

const directionCount = 4

var directionChars = [directionCount]rune{'N', 'E', 'S', 'W'}

var directionNames = [directionCount]string{"NORTH", "EAST", "SOUTH", "WEST"}

// Directions lists every heading in clockwise order starting at North
func Directions() []Direction {
	return []Direction{North, East, South, West}
}

// IsValid reports whether d is one of the four headings
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// TurnLeft returns the heading 90 degrees counter-clockwise of d
func (d Direction) TurnLeft() Direction {
	return (d + directionCount - 1) % directionCount
}

// TurnRight returns the heading 90 degrees clockwise of d
func (d Direction) TurnRight() Direction {
	return (d + 1) % directionCount
}

// Char returns the single-letter form of d (N, E, S or W)
func (d Direction) Char() rune {
	if !d.IsValid() {
		return '?'
	}
	return directionChars[d]
}

func (d Direction) String() string {
	return string(d.Char())
}

// Name returns the long form of d, e.g. NORTH
func (d Direction) Name() string {
	if !d.IsValid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the x and y offset of one step in direction d
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection is the case-insensitive inverse of Char. It reports false for
// anything that is not N, E, S or W.
func ParseDirection(c rune) (Direction, bool) {
	upper := unicode.ToUpper(c)
	for i, ch := range directionChars {
		if ch == upper {
			return Direction(i), true
		}
	}
	return North, false
}

// MarshalJSON encodes d as its single-letter form
func (d Direction) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a single-letter heading in either case
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("direction must be a string: %w", err)
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return fmt.Errorf("direction must be a single character, got %q", s)
	}
	parsed, ok := ParseDirection(runes[0])
	if !ok {
		return fmt.Errorf("unknown direction %q", s)
	}
	*d = parsed
	return nil
}
