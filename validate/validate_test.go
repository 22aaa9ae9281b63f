package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateScenario_ValidScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classic.json", `{
		"name": "Classic",
		"topRightCorner": {"x": 5, "y": 5},
		"roverPosition": {"x": 1, "y": 2},
		"roverDirection": "N",
		"movements": "LMLMLMLMM",
		"expected": "1 3 N"
	}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, but got errors: %v", result.Errors)
	}

	if result.File != "classic.json" {
		t.Errorf("Expected file name classic.json, got %s", result.File)
	}

	joined := strings.Join(result.Info, "\n")
	if !strings.Contains(joined, "Report 1 3 N matches expected") {
		t.Errorf("Expected match info, got:\n%s", joined)
	}
	if !strings.Contains(joined, "Commands: 9 (moves 5, turns 4, blocked 0, ignored 0)") {
		t.Errorf("Expected command summary, got:\n%s", joined)
	}
}

func TestValidateScenario_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "edge.yaml", `name: Edge
topRightCorner: {x: 2, y: 2}
roverPosition: {x: 2, y: 2}
roverDirection: N
movements: M
expected: 2 2 N
`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, but got errors: %v", result.Errors)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "blocked 1") {
		t.Errorf("Expected blocked move to be reported, got %v", result.Info)
	}
}

func TestValidateScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "invalid json",
			file:    "broken.json",
			content: `{"name": "test", invalid json}`,
			want:    "invalid scenario",
		},
		{
			name:    "missing movements",
			file:    "missing.json",
			content: `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":2},"roverDirection":"N"}`,
			want:    "[invalid_input_format]",
		},
		{
			name:    "negative plateau",
			file:    "negative.json",
			content: `{"topRightCorner":{"x":-1,"y":5},"roverPosition":{"x":0,"y":0},"roverDirection":"N","movements":""}`,
			want:    "[invalid_plateau]",
		},
		{
			name:    "landing outside plateau",
			file:    "outside.json",
			content: `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":6,"y":0},"roverDirection":"N","movements":"M"}`,
			want:    "[invalid_initial_position]",
		},
		{
			name:    "bad heading",
			file:    "heading.json",
			content: `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":0,"y":0},"roverDirection":"NE","movements":"M"}`,
			want:    "[invalid_direction]",
		},
		{
			name:    "wrong expected report",
			file:    "wrong.json",
			content: `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":0,"y":0},"roverDirection":"N","movements":"M","expected":"0 2 N"}`,
			want:    `Expected report "0 2 N", rover ends at "0 1 N"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			result := validateScenario(path)
			if result.Valid {
				t.Fatal("Expected scenario to be invalid")
			}
			if !strings.Contains(strings.Join(result.Errors, "\n"), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateScenario_IgnoredCharacters(t *testing.T) {
	path := writeFile(t, t.TempDir(), "noisy.json", `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":1},"roverDirection":"N","movements":"MXL1R@M","expected":"1 3 N"}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Ignored characters should not invalidate a scenario: %v", result.Errors)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "3 characters are not L, R or M") {
		t.Errorf("Expected ignored character warning, got %v", result.Info)
	}
}

func TestValidateScenario_FileNotFound(t *testing.T) {
	result := validateScenario("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for non-existent file")
	}
	if len(result.Errors) == 0 {
		t.Error("Expected error message for non-existent file")
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	valid := `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":0,"y":0},"roverDirection":"N","movements":"M","expected":"0 1 N"}`
	writeFile(t, dir, "b.json", valid)
	writeFile(t, dir, "a.yaml", "topRightCorner: {x: 1, y: 1}\nroverPosition: {x: 0, y: 0}\nroverDirection: W\nmovements: MMMMSMMM\nexpected: 0 0 W\n")
	writeFile(t, dir, "b.yml", "topRightCorner: {x: 1, y: 1}\nroverPosition: {x: 0, y: 0}\nroverDirection: N\nmovements: M\n")
	writeFile(t, dir, "README.md", "not a scenario")
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	names := []string{results[0].File, results[1].File, results[2].File}
	if strings.Join(names, ",") != "a.yaml,b.json,b.yml" {
		t.Errorf("Unexpected order %v", names)
	}

	if !results[0].Valid || !results[1].Valid {
		t.Errorf("Expected first two scenarios to be valid: %v %v", results[0].Errors, results[1].Errors)
	}
	if results[2].Valid {
		t.Error("Expected duplicate scenario ID to be invalid")
	}
	if !strings.Contains(strings.Join(results[2].Errors, "\n"), `"b" is already used by b.json`) {
		t.Errorf("Unexpected duplicate error %v", results[2].Errors)
	}
}

func TestValidateDir_Missing(t *testing.T) {
	if _, err := validateDir("/non/existent/dir"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestShippedScenarios(t *testing.T) {
	results, err := validateDir("../scenarios")
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected shipped scenarios")
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s is invalid: %v", result.File, result.Errors)
		}
	}
}
