// Command trace replays rover missions and prints, for each rover, a map of
// the plateau with the path it drove followed by the outcome of every command.
//
// Missions come from a JSON or text file (- for stdin), or from the
// --plateau, --start and --commands flags.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
)

// maxMapCells bounds the plateau size that is drawn
const maxMapCells = 2500

// Map legend
const (
	cellEmpty   = '.'
	cellVisited = '*'
	cellStart   = 'o'
	cellBlocked = '!'
)

func main() {
	cmd := &cli.Command{
		Name:      "trace",
		Usage:     "Draw the path of rover missions step by step",
		ArgsUsage: "[file|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "plateau", Usage: `Upper-right corner, e.g. "5 5"`},
			&cli.StringFlag{Name: "start", Usage: `Landing position and heading, e.g. "1 2 N"`},
			&cli.StringFlag{Name: "commands", Usage: "Command string, e.g. LMLMLMLMM"},
			&cli.BoolFlag{Name: "no-map", Usage: "Only print the steps"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := loadMissions(cmd, os.Stdin)
			if err != nil {
				return err
			}
			for i, config := range configs {
				if i > 0 {
					fmt.Println()
				}
				fmt.Print(renderMission(config, !cmd.Bool("no-map")))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadMissions reads missions from the file argument or the mission flags
func loadMissions(cmd *cli.Command, stdin io.Reader) ([]*engine.MissionConfig, error) {
	if cmd.IsSet("plateau") || cmd.IsSet("start") {
		return missionFromFlags(cmd.String("plateau"), cmd.String("start"), cmd.String("commands"))
	}

	if !cmd.Args().Present() {
		return nil, fmt.Errorf("expected a mission file, - for stdin, or --plateau and --start")
	}

	var data []byte
	var err error
	if path := cmd.Args().First(); path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read missions: %w", err)
	}
	return decodeMissions(data)
}

// missionFromFlags builds one mission in the classic text format and decodes it
func missionFromFlags(plateau, start, commands string) ([]*engine.MissionConfig, error) {
	text := fmt.Sprintf("%s\n%s\n%s\n", plateau, start, commands)
	return input.DecodeText([]byte(text))
}

// decodeMissions accepts a JSON payload or the classic text format
func decodeMissions(data []byte) ([]*engine.MissionConfig, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		config, err := input.Decode(data)
		if err != nil {
			return nil, err
		}
		return []*engine.MissionConfig{config}, nil
	}
	return input.DecodeText(data)
}

// renderMission prints the header, optional map and step table of one mission
func renderMission(config *engine.MissionConfig, withMap bool) string {
	start := config.StartRover()
	steps, final := engine.Trace(start, config.Plateau, config.Commands)
	summary := engine.Summarize(steps)

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", config.Name)
	fmt.Fprintf(&b, "Plateau %s, start %s, commands %q\n", config.Plateau, start.Report(), config.Commands)

	if withMap {
		if m := renderPlateau(config.Plateau, start, steps, final); m != "" {
			b.WriteString("\n" + m)
			fmt.Fprintf(&b, "legend: %c start, %c visited, %c blocked, letter = final heading\n",
				cellStart, cellVisited, cellBlocked)
		} else {
			fmt.Fprintf(&b, "\n(plateau larger than %d cells, map skipped)\n", maxMapCells)
		}
	}

	b.WriteString("\n")
	b.WriteString(renderSteps(steps))
	fmt.Fprintf(&b, "\nmoves %d, turns %d, blocked %d, ignored %d\n",
		summary.Moves, summary.Turns, summary.Blocked, summary.Ignored)
	fmt.Fprintf(&b, "Final: %s\n", final.Report())
	return b.String()
}

// renderPlateau draws the plateau north side up. Returns "" when the plateau
// is too large to draw.
func renderPlateau(plateau engine.Plateau, start engine.Rover, steps []engine.Step, final engine.Rover) string {
	if plateau.Cells() > maxMapCells {
		return ""
	}

	grid := make([][]rune, plateau.Height())
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(cellEmpty), plateau.Width()))
	}
	mark := func(p engine.Position, c rune) {
		grid[p.Y][p.X] = c
	}

	for _, step := range steps {
		switch step.Outcome {
		case engine.OutcomeMoved:
			mark(step.To, cellVisited)
		case engine.OutcomeBlocked:
			mark(step.From, cellBlocked)
		}
	}
	mark(start.Position, cellStart)
	mark(final.Position, final.Direction.Char())

	var b strings.Builder
	for y := plateau.MaxY; y >= 0; y-- {
		fmt.Fprintf(&b, "%3d %s\n", y, string(grid[y]))
	}
	return b.String()
}

func renderSteps(steps []engine.Step) string {
	if len(steps) == 0 {
		return "(no commands)\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4s %-3s %-9s %-9s %s\n", "#", "cmd", "from", "to", "outcome")
	for _, step := range steps {
		fmt.Fprintf(&b, "%4d %-3q %-9s %-9s %s\n",
			step.Index+1, step.Input,
			fmt.Sprintf("%s %s", step.From, step.Heading),
			fmt.Sprintf("%s %s", step.To, step.Facing),
			step.Outcome)
	}
	return b.String()
}
