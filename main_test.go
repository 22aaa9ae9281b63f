package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/mission/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

const classicText = `5 5
1 2 N
LMLMLMLMM
3 3 E
MMRMMRMRRM
`

func TestRunMissions(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   string
		expected string
	}{
		{
			name:     "text batch",
			data:     classicText,
			format:   "auto",
			expected: "1 3 N\n5 1 E\n",
		},
		{
			name:     "json payload",
			data:     `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":1},"roverDirection":"N","movements":"MXL1R@M"}`,
			format:   "auto",
			expected: "1 3 N\n",
		},
		{
			name:     "explicit json format",
			data:     `  {"topRightCorner":{"x":0,"y":0},"roverPosition":{"x":0,"y":0},"roverDirection":"n","movements":"MRLM"}`,
			format:   "json",
			expected: "0 0 N\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runMissions(context.Background(), &out, []byte(tt.data), tt.format, false); err != nil {
				t.Fatalf("runMissions failed: %v", err)
			}
			if out.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out.String())
			}
		})
	}
}

func TestRunMissionsTrace(t *testing.T) {
	var out bytes.Buffer
	data := `{"topRightCorner":{"x":2,"y":2},"roverPosition":{"x":2,"y":2},"roverDirection":"N","movements":"M"}`
	if err := runMissions(context.Background(), &out, []byte(data), "auto", true); err != nil {
		t.Fatalf("runMissions failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[len(lines)-1] != "2 2 N" {
		t.Errorf("Expected final report last, got %q", lines[len(lines)-1])
	}
	if !strings.Contains(out.String(), "blocked") {
		t.Errorf("Expected blocked step in trace, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "# moves 0, turns 0, blocked 1, ignored 0") {
		t.Errorf("Expected summary line, got:\n%s", out.String())
	}
}

func TestRunMissionsErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		target error
	}{
		{"bad direction", `{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":1},"roverDirection":"Q","movements":"M"}`, "json", input.ErrInvalidDirection},
		{"outside plateau", "5 5\n6 6 N\nM\n", "text", input.ErrInvalidInitialPosition},
		{"negative plateau", "-1 5\n0 0 N\nM\n", "text", input.ErrInvalidPlateau},
		{"malformed json", `{"topRightCorner":`, "json", input.ErrInvalidInputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runMissions(context.Background(), &out, []byte(tt.data), tt.format, false)
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
			if out.Len() != 0 {
				t.Errorf("Expected no output, got %q", out.String())
			}
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		if err := runMissions(context.Background(), &bytes.Buffer{}, []byte(classicText), "xml", false); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestDetectFormat(t *testing.T) {
	if got := detectFormat([]byte("\n  {\"a\":1}")); got != "json" {
		t.Errorf("Expected json, got %s", got)
	}
	if got := detectFormat([]byte(classicText)); got != "text" {
		t.Errorf("Expected text, got %s", got)
	}
}

func TestReadMissionInput(t *testing.T) {
	data, err := readMissionInput("-", strings.NewReader(classicText))
	if err != nil || string(data) != classicText {
		t.Errorf("Expected stdin contents, got %q (%v)", data, err)
	}

	path := filepath.Join(t.TempDir(), "mission.txt")
	if err := os.WriteFile(path, []byte(classicText), 0644); err != nil {
		t.Fatalf("Failed to write mission file: %v", err)
	}
	data, err = readMissionInput(path, nil)
	if err != nil || string(data) != classicText {
		t.Errorf("Expected file contents, got %q (%v)", data, err)
	}

	if _, err := readMissionInput(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestConfigFromCommand(t *testing.T) {
	var cfg appConfig
	cmd := newCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		cfg = configFromCommand(c)
		return nil
	}

	err := cmd.Run(context.Background(), []string{"marsrover",
		"--port", "9090",
		"--host", "0.0.0.0",
		"--scenario-dir", "testdata/scenarios",
		"--mission-db", "",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.ScenarioDir != "testdata/scenarios" {
		t.Errorf("Expected scenario dir override, got %s", cfg.ScenarioDir)
	}
	if cfg.MissionDB != "" {
		t.Errorf("Expected mission log to be disabled, got %s", cfg.MissionDB)
	}
	if cfg.addr() != "0.0.0.0:9090" {
		t.Errorf("Unexpected listen address %s", cfg.addr())
	}
	if cfg.localURL() != "http://localhost:9090" {
		t.Errorf("Unexpected local URL %s", cfg.localURL())
	}
}

const classicScenario = `{
  "name": "Classic",
  "topRightCorner": {"x": 5, "y": 5},
  "roverPosition": {"x": 1, "y": 2},
  "roverDirection": "N",
  "movements": "LMLMLMLMM",
  "expected": "1 3 N"
}`

func testConfig(t *testing.T) appConfig {
	t.Helper()
	dir := t.TempDir()
	scenarioDir := filepath.Join(dir, "scenarios")
	if err := os.MkdirAll(scenarioDir, 0755); err != nil {
		t.Fatalf("Failed to create scenario dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scenarioDir, "classic.json"), []byte(classicScenario), 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}
	return appConfig{
		Host:        "127.0.0.1",
		Port:        8080,
		ScenarioDir: scenarioDir,
		SessionsDir: filepath.Join(dir, "sessions"),
		MissionDB:   filepath.Join(dir, "missions.db"),
	}
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := initializeServices(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	if svcs.mission == nil {
		t.Fatal("Expected mission service to be initialized")
	}
	if svcs.missions == nil {
		t.Error("Expected mission log to be opened")
	}

	run, err := svcs.mission.RunScenario(ctx, "classic", service.ExecuteOptions{})
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}
	if !run.Passed {
		t.Errorf("Expected classic scenario to pass, got %s", run.Result.Report)
	}

	records, err := svcs.mission.ListMissions(ctx, 10)
	if err != nil {
		t.Fatalf("ListMissions failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 logged mission, got %d", len(records))
	}
}

func TestInitializeServices_InvalidScenarioDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.ScenarioDir = "/non/existent/path"

	_, err := initializeServices(context.Background(), cfg)
	if err == nil {
		t.Error("Expected error for non-existent scenario directory")
	}
}

func TestPruneOrphanedSessions(t *testing.T) {
	dir := t.TempDir()
	persistence, err := session.NewFilePersistence(dir)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	manager := session.NewManagerWithPersistence(persistence)

	kept, err := manager.Create("kept", engine.ClassicMission())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := manager.Create("orphan", engine.ClassicMission()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "orphan.json")); err != nil {
		t.Fatalf("Failed to remove session file: %v", err)
	}

	if pruned := pruneOrphanedSessions(manager, persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 remaining session, got %d", manager.Count())
	}
	if _, err := manager.Get(kept.ID); err != nil {
		t.Errorf("Expected kept session to remain: %v", err)
	}
}
