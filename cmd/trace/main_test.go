package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
)

func classic() *engine.MissionConfig {
	return &engine.MissionConfig{
		Name:     "rover-1",
		Plateau:  engine.Plateau{MaxX: 5, MaxY: 5},
		Start:    engine.Position{X: 1, Y: 2},
		Heading:  engine.North,
		Commands: "LMLMLMLMM",
	}
}

func TestRenderPlateau(t *testing.T) {
	config := classic()
	steps, final := engine.Trace(config.StartRover(), config.Plateau, config.Commands)

	got := renderPlateau(config.Plateau, config.StartRover(), steps, final)
	want := strings.Join([]string{
		"  5 ......",
		"  4 ......",
		"  3 .N....",
		"  2 *o....",
		"  1 **....",
		"  0 ......",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("Unexpected map:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderPlateauBlocked(t *testing.T) {
	plateau := engine.Plateau{MaxX: 1, MaxY: 1}
	start := *engine.NewRover(0, 0, engine.West)
	steps, final := engine.Trace(start, plateau, "MRMR")

	// W blocked at 0 0, turn N, move to 0 1, turn E
	got := renderPlateau(plateau, start, steps, final)
	want := "  1 E.\n  0 o.\n"
	if got != want {
		t.Errorf("Unexpected map:\n%q\nwant:\n%q", got, want)
	}

	steps, final = engine.Trace(start, plateau, "MM")
	got = renderPlateau(plateau, start, steps, final)
	if got != "  1 ..\n  0 W.\n" {
		t.Errorf("Expected final heading to cover the blocked cell, got %q", got)
	}

	start = *engine.NewRover(1, 0, engine.South)
	steps, final = engine.Trace(start, plateau, "MLL")
	got = renderPlateau(plateau, start, steps, final)
	if got != "  1 ..\n  0 .N\n" {
		t.Errorf("Unexpected map %q", got)
	}
}

func TestRenderPlateauTooLarge(t *testing.T) {
	plateau := engine.Plateau{MaxX: 100, MaxY: 100}
	start := *engine.NewRover(0, 0, engine.North)
	if got := renderPlateau(plateau, start, nil, start); got != "" {
		t.Errorf("Expected large plateau to be skipped, got %d bytes", len(got))
	}
}

func TestRenderMission(t *testing.T) {
	out := renderMission(classic(), true)

	for _, want := range []string{
		"=== rover-1 ===",
		"Plateau 5x5, start 1 2 N",
		"legend:",
		"moves 5, turns 4, blocked 0, ignored 0",
		"Final: 1 3 N",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	out = renderMission(classic(), false)
	if strings.Contains(out, "legend:") {
		t.Error("Expected map to be omitted")
	}
}

func TestRenderSteps(t *testing.T) {
	steps, _ := engine.Trace(*engine.NewRover(0, 0, engine.North), engine.Plateau{MaxX: 0, MaxY: 0}, "MX")
	out := renderSteps(steps)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 steps, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "blocked") || !strings.Contains(lines[2], "ignored") {
		t.Errorf("Unexpected outcomes:\n%s", out)
	}

	if renderSteps(nil) != "(no commands)\n" {
		t.Error("Expected placeholder for empty command string")
	}
}

func TestDecodeMissions(t *testing.T) {
	configs, err := decodeMissions([]byte("5 5\n1 2 N\nLMLMLMLMM\n3 3 E\nMMRMMRMRRM\n"))
	if err != nil {
		t.Fatalf("decodeMissions failed: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 missions, got %d", len(configs))
	}

	configs, err = decodeMissions([]byte(`{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":2},"roverDirection":"N","movements":"M"}`))
	if err != nil {
		t.Fatalf("decodeMissions failed: %v", err)
	}
	if len(configs) != 1 || configs[0].Commands != "M" {
		t.Errorf("Unexpected configs %+v", configs)
	}

	_, err = decodeMissions([]byte(`{"topRightCorner":{"x":5,"y":5},"roverPosition":{"x":1,"y":2},"roverDirection":"X","movements":"M"}`))
	if !errors.Is(err, input.ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestMissionFromFlags(t *testing.T) {
	configs, err := missionFromFlags("5 5", "3 3 E", "MMRMMRMRRM")
	if err != nil {
		t.Fatalf("missionFromFlags failed: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 mission, got %d", len(configs))
	}
	_, final := engine.Trace(configs[0].StartRover(), configs[0].Plateau, configs[0].Commands)
	if final.Report() != "5 1 E" {
		t.Errorf("Expected 5 1 E, got %s", final.Report())
	}

	if _, err := missionFromFlags("5 5", "9 9 N", "M"); !errors.Is(err, input.ErrInvalidInitialPosition) {
		t.Errorf("Expected ErrInvalidInitialPosition, got %v", err)
	}
}
