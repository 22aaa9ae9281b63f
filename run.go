package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/mission/session"
)

// runCommand executes missions offline, without starting a server
func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute missions from a JSON or text file (- for stdin) and print the final reports",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "auto", Usage: "Input format: auto, json or text"},
			&cli.BoolFlag{Name: "trace", Usage: "Print the outcome of every command"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("run expects exactly one file argument (use - for stdin)", 2)
			}

			cleanup, err := setupTelemetry(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := readMissionInput(cmd.Args().First(), os.Stdin)
			if err != nil {
				return err
			}

			if err := runMissions(ctx, os.Stdout, data, cmd.String("format"), cmd.Bool("trace")); err != nil {
				if input.IsValidationError(err) {
					return cli.Exit(fmt.Sprintf("%s: %v", input.ErrorCode(err), err), 2)
				}
				return err
			}
			return nil
		},
	}
}

// readMissionInput reads path, or stdin when path is "-"
func readMissionInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}
	return data, nil
}

// detectFormat treats input starting with an object as JSON and anything
// else as the classic text format
func detectFormat(data []byte) string {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return "json"
	}
	return "text"
}

// runMissions executes every mission in data and writes one report per line
func runMissions(ctx context.Context, w io.Writer, data []byte, format string, trace bool) error {
	svc := service.NewMissionService(session.NewManager(), nil)
	opts := service.ExecuteOptions{Source: service.SourceCLI, Trace: trace}

	if format == "" || format == "auto" {
		format = detectFormat(data)
	}

	var results []*service.MissionResult
	switch format {
	case "json":
		result, err := svc.ExecuteMission(ctx, data, opts)
		if err != nil {
			return err
		}
		results = append(results, result)
	case "text":
		batch, err := svc.ExecuteBatch(ctx, data, opts)
		if err != nil {
			return err
		}
		results = batch.Results
	default:
		return fmt.Errorf("unsupported input format %q", format)
	}

	for _, result := range results {
		if trace {
			writeTrace(w, result)
		}
		fmt.Fprintln(w, result.Report)
	}
	return nil
}

func writeTrace(w io.Writer, result *service.MissionResult) {
	fmt.Fprintf(w, "# plateau %s, start %s\n", result.Plateau, result.Start.Report())
	for _, step := range result.Steps {
		fmt.Fprintf(w, "# %3d %s  %s %s -> %s %s  %s\n",
			step.Index+1, step.Input,
			step.From, step.Heading, step.To, step.Facing, step.Outcome)
	}
	s := result.Summary
	fmt.Fprintf(w, "# moves %d, turns %d, blocked %d, ignored %d\n", s.Moves, s.Turns, s.Blocked, s.Ignored)
}
