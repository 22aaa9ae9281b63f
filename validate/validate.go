// Command validate checks mission scenario files in a scenarios directory.
// For every .json, .yaml or .yml file it checks:
//   - the file decodes and carries every required field
//   - the plateau, landing position and heading pass input validation
//   - no two files share a scenario ID
//   - replaying the commands yields the expected report, when one is given
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/scenario"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Info   []string
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateScenario loads a single scenario file and replays its commands
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := scenario.ReadFile(filePath)
	if err != nil {
		if code := input.ErrorCode(err); code != "" {
			result.fail("%v [%s]", err, code)
		} else {
			result.fail("%v", err)
		}
		return result
	}

	result.info("Name: %s", config.Name)
	result.info("Plateau %s, landing at %s", config.Plateau, config.StartRover().Report())

	steps, final := engine.Trace(config.StartRover(), config.Plateau, config.Commands)
	summary := engine.Summarize(steps)
	result.info("Commands: %d (moves %d, turns %d, blocked %d, ignored %d)",
		len(steps), summary.Moves, summary.Turns, summary.Blocked, summary.Ignored)

	if summary.Ignored > 0 {
		result.info("Warning: %d characters are not L, R or M and are ignored", summary.Ignored)
	}

	switch {
	case config.Expected == "":
		result.info("No expected report, rover ends at %s", final.Report())
	case !strings.EqualFold(config.Expected, final.Report()):
		result.fail("Expected report %q, rover ends at %q", config.Expected, final.Report())
	default:
		result.info("Report %s matches expected", final.Report())
	}

	return result
}

// validateDir validates every scenario file in dir, sorted by file name
func validateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && scenario.IsScenarioFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string)
	results := make([]ValidationResult, 0, len(files))
	for _, name := range files {
		result := validateScenario(filepath.Join(dir, name))

		id := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if first, ok := seen[id]; ok {
			result.fail("Scenario ID %q is already used by %s", id, first)
		} else {
			seen[id] = name
		}

		results = append(results, result)
	}
	return results, nil
}

// printResults writes a concise report and tells whether every file is valid
func printResults(results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  ✓ " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Println("No scenario files found")
	case allValid:
		fmt.Printf("✅ All %d scenarios are valid!\n", len(results))
	default:
		fmt.Println("❌ Some scenarios have errors")
	}
	return allValid
}

// main validates the scenario directory given as argument, SCENARIO_DIR or
// ./scenarios, exiting non-zero if any file is invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Check mission scenario files",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scenario-dir", Value: "scenarios", Usage: "Directory containing mission scenarios", Sources: cli.EnvVars("SCENARIO_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("scenario-dir")
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			results, err := validateDir(dir)
			if err != nil {
				return err
			}
			if !printResults(results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
