package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMovements_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		plateau  Plateau
		start    Rover
		commands string
		want     string
	}{
		{
			name:     "classic first rover",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{1, 2}, North},
			commands: "LMLMLMLMM",
			want:     "1 3 N",
		},
		{
			name:     "single move",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{0, 0}, North},
			commands: "M",
			want:     "0 1 N",
		},
		{
			name:     "blocked at top right corner",
			plateau:  Plateau{MaxX: 2, MaxY: 2},
			start:    Rover{Position{2, 2}, North},
			commands: "M",
			want:     "2 2 N",
		},
		{
			name:     "all moves blocked and S ignored",
			plateau:  Plateau{MaxX: 1, MaxY: 1},
			start:    Rover{Position{0, 0}, West},
			commands: "MMMMSMMM",
			want:     "0 0 W",
		},
		{
			name:     "invalid characters skipped",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{1, 1}, North},
			commands: "MXL1R@M",
			want:     "1 3 N",
		},
		{
			name:     "single cell plateau",
			plateau:  Plateau{MaxX: 0, MaxY: 0},
			start:    Rover{Position{0, 0}, North},
			commands: "MRLM",
			want:     "0 0 N",
		},
		{
			name:     "classic second rover",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{3, 3}, East},
			commands: "MMRMMRMRRM",
			want:     "5 1 E",
		},
		{
			name:     "lowercase commands",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{1, 2}, North},
			commands: "lmlmlmlmm",
			want:     "1 3 N",
		},
		{
			name:     "empty command string",
			plateau:  Plateau{MaxX: 5, MaxY: 5},
			start:    Rover{Position{4, 4}, South},
			commands: "",
			want:     "4 4 S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rover := tt.start
			ExecuteMovements(&rover, tt.plateau, tt.commands)
			assert.Equal(t, tt.want, rover.Report())
		})
	}
}

func TestExecuteMovements_BoundaryClamping(t *testing.T) {
	plateau := Plateau{MaxX: 4, MaxY: 3}

	tests := []struct {
		name  string
		start Rover
	}{
		{"east edge", Rover{Position{4, 1}, East}},
		{"west edge", Rover{Position{0, 2}, West}},
		{"north edge", Rover{Position{3, 3}, North}},
		{"south edge", Rover{Position{2, 0}, South}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rover := tt.start
			ExecuteMovements(&rover, plateau, "M")
			assert.Equal(t, tt.start, rover)

			ExecuteMovements(&rover, plateau, strings.Repeat("M", 10))
			assert.Equal(t, tt.start, rover)
		})
	}
}

func TestExecuteMovements_NoOpCharacters(t *testing.T) {
	plateau := Plateau{MaxX: 5, MaxY: 5}
	inputs := []string{
		"",
		"XYZ",
		"   ",
		"1234567890",
		"!@#$%^&*()",
		"nsewNSEW",
		"\t\n",
		"ĹṀŔ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			start := Rover{Position{2, 3}, East}
			rover := start
			ExecuteMovements(&rover, plateau, in)
			assert.Equal(t, start, rover)
		})
	}
}

func TestExecuteMovements_StaysOnPlateau(t *testing.T) {
	plateau := Plateau{MaxX: 3, MaxY: 2}
	commands := "MMMMRMMMMMRMMMMMRMMMMMLMMLMMRRMMMM"

	for _, d := range Directions() {
		rover := Rover{Position{1, 1}, d}
		for _, c := range commands {
			ExecuteMovements(&rover, plateau, string(c))
			require.True(t, plateau.IsWithinBounds(rover.Position), "rover left plateau at %s", rover)
		}
	}
}

func TestRover_Apply(t *testing.T) {
	plateau := Plateau{MaxX: 2, MaxY: 2}
	start := Rover{Position{1, 1}, North}

	tests := []struct {
		in      rune
		want    Rover
		outcome Outcome
	}{
		{'L', Rover{Position{1, 1}, West}, OutcomeTurnedLeft},
		{'r', Rover{Position{1, 1}, East}, OutcomeTurnedRight},
		{'M', Rover{Position{1, 2}, North}, OutcomeMoved},
		{'Z', start, OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, outcome := start.Apply(plateau, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, Rover{Position{1, 1}, North}, start, "Apply must not modify the receiver")
		})
	}

	edge := Rover{Position{2, 2}, North}
	got, outcome := edge.Apply(plateau, 'm')
	assert.Equal(t, edge, got)
	assert.Equal(t, OutcomeBlocked, outcome)
}

func TestParseCommand(t *testing.T) {
	for _, c := range "LRMlrm" {
		_, ok := ParseCommand(c)
		assert.True(t, ok, "%c", c)
	}
	for _, c := range "NSEWX1 @" {
		_, ok := ParseCommand(c)
		assert.False(t, ok, "%c", c)
	}
}

func TestTrace(t *testing.T) {
	plateau := Plateau{MaxX: 5, MaxY: 5}
	start := Rover{Position{1, 1}, North}

	steps, final := Trace(start, plateau, "MXL1R@M")
	require.Len(t, steps, 7)
	assert.Equal(t, "1 3 N", final.Report())

	assert.Equal(t, OutcomeMoved, steps[0].Outcome)
	assert.Equal(t, Position{1, 1}, steps[0].From)
	assert.Equal(t, Position{1, 2}, steps[0].To)
	assert.Equal(t, OutcomeIgnored, steps[1].Outcome)
	assert.Equal(t, "X", steps[1].Input)
	assert.Equal(t, OutcomeTurnedLeft, steps[2].Outcome)
	assert.Equal(t, West, steps[2].Facing)
	assert.Equal(t, OutcomeIgnored, steps[3].Outcome)
	assert.Equal(t, OutcomeTurnedRight, steps[4].Outcome)
	assert.Equal(t, OutcomeIgnored, steps[5].Outcome)
	assert.Equal(t, OutcomeMoved, steps[6].Outcome)

	summary := Summarize(steps)
	assert.Equal(t, Summary{Moves: 2, Turns: 2, Ignored: 3}, summary)
}

func TestTrace_AgreesWithExecuteMovements(t *testing.T) {
	plateaus := []Plateau{{0, 0}, {1, 1}, {5, 5}, {7, 2}}
	commands := []string{"", "M", "LMLMLMLMM", "MMRMMRMRRM", "mmmmmmmmrmmmmmmm", "LX?RM M M"}

	for _, plateau := range plateaus {
		for _, cmd := range commands {
			start := Rover{Position{0, 0}, North}
			_, traced := Trace(start, plateau, cmd)

			executed := start
			ExecuteMovements(&executed, plateau, cmd)

			assert.Equal(t, executed, traced, "plateau %s commands %q", plateau, cmd)
		}
	}
}

func TestTrace_Blocked(t *testing.T) {
	steps, final := Trace(Rover{Position{0, 0}, West}, Plateau{MaxX: 1, MaxY: 1}, "MMMMSMMM")
	assert.Equal(t, "0 0 W", final.Report())
	assert.Equal(t, Summary{Blocked: 7, Ignored: 1}, Summarize(steps))
}
