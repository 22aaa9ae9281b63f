package engine

import "unicode"

// Command is one of the three rover instructions
type Command rune

const (
	CommandLeft  Command = 'L'
	CommandRight Command = 'R'
	CommandMove  Command = 'M'
)

// Outcome describes what a single command rune did to the rover
type Outcome string

const (
	OutcomeTurnedLeft  Outcome = "turned_left"
	OutcomeTurnedRight Outcome = "turned_right"
	OutcomeMoved       Outcome = "moved"
	OutcomeBlocked     Outcome = "blocked"
	OutcomeIgnored     Outcome = "ignored"
)

// ParseCommand maps a rune to a Command, ignoring case. Anything other than
// L, R or M reports false.
func ParseCommand(c rune) (Command, bool) {
	switch Command(unicode.ToUpper(c)) {
	case CommandLeft:
		return CommandLeft, true
	case CommandRight:
		return CommandRight, true
	case CommandMove:
		return CommandMove, true
	}
	return 0, false
}

// ExecuteMovements applies commands to rover in place, left to right.
// Moves that would leave the plateau and unknown runes are no-ops.
func ExecuteMovements(rover *Rover, plateau Plateau, commands string) {
	for _, c := range commands {
		*rover, _ = rover.Apply(plateau, c)
	}
}

// Step records a single command rune processed during a walk
type Step struct {
	Index   int       `json:"index"`
	Input   string    `json:"input"`
	From    Position  `json:"from"`
	To      Position  `json:"to"`
	Heading Direction `json:"heading_from"`
	Facing  Direction `json:"heading_to"`
	Outcome Outcome   `json:"outcome"`
}

// Summary counts the outcomes of a walk
type Summary struct {
	Moves   int `json:"moves"`
	Blocked int `json:"blocked"`
	Turns   int `json:"turns"`
	Ignored int `json:"ignored"`
}

// Add records one outcome
func (s *Summary) Add(o Outcome) {
	switch o {
	case OutcomeMoved:
		s.Moves++
	case OutcomeBlocked:
		s.Blocked++
	case OutcomeTurnedLeft, OutcomeTurnedRight:
		s.Turns++
	case OutcomeIgnored:
		s.Ignored++
	}
}

// Trace performs the same walk as ExecuteMovements without touching rover and
// returns every step along with the final rover.
func Trace(rover Rover, plateau Plateau, commands string) ([]Step, Rover) {
	steps := make([]Step, 0, len(commands))
	current := rover

	for i, c := range []rune(commands) {
		next, outcome := current.Apply(plateau, c)
		steps = append(steps, Step{
			Index:   i,
			Input:   string(c),
			From:    current.Position,
			To:      next.Position,
			Heading: current.Direction,
			Facing:  next.Direction,
			Outcome: outcome,
		})
		current = next
	}

	return steps, current
}

// Summarize counts the outcomes in steps
func Summarize(steps []Step) Summary {
	var s Summary
	for _, step := range steps {
		s.Add(step.Outcome)
	}
	return s
}
