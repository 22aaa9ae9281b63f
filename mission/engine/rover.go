package engine

import "fmt"

// Rover is the mutable state of one rover: where it is and where it faces.
// A Rover belongs to a single mission and is not safe for concurrent use.
type Rover struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}

// NewRover creates a rover at (x, y) facing d
func NewRover(x, y int, d Direction) *Rover {
	return &Rover{Position: Position{X: x, Y: y}, Direction: d}
}

// Report formats the rover as "x y D", e.g. "1 3 N"
func (r Rover) Report() string {
	return fmt.Sprintf("%d %d %c", r.Position.X, r.Position.Y, r.Direction.Char())
}

func (r Rover) String() string {
	return r.Report()
}

// Apply returns the rover after one command rune together with what happened.
// The receiver is not modified.
func (r Rover) Apply(plateau Plateau, c rune) (Rover, Outcome) {
	cmd, ok := ParseCommand(c)
	if !ok {
		return r, OutcomeIgnored
	}

	switch cmd {
	case CommandLeft:
		r.Direction = r.Direction.TurnLeft()
		return r, OutcomeTurnedLeft
	case CommandRight:
		r.Direction = r.Direction.TurnRight()
		return r, OutcomeTurnedRight
	default:
		candidate := r.Position.Step(r.Direction)
		if !plateau.IsWithinBounds(candidate) {
			return r, OutcomeBlocked
		}
		r.Position = candidate
		return r, OutcomeMoved
	}
}
