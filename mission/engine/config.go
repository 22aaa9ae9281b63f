package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a mission config cannot be run
var ErrInvalidConfig = errors.New("invalid mission config")

// ValidateMissionConfig checks that a config describes a runnable mission
func ValidateMissionConfig(config *MissionConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Plateau.MaxX < 0 || config.Plateau.MaxY < 0 {
		return fmt.Errorf("%w: plateau %d,%d has a negative bound", ErrInvalidConfig, config.Plateau.MaxX, config.Plateau.MaxY)
	}
	if !config.Heading.IsValid() {
		return fmt.Errorf("%w: heading %d is not a direction", ErrInvalidConfig, int(config.Heading))
	}
	if !config.Plateau.IsWithinBounds(config.Start) {
		return fmt.Errorf("%w: start (%d,%d) is outside plateau %s",
			ErrInvalidConfig, config.Start.X, config.Start.Y, config.Plateau)
	}
	return nil
}

// InitMissionState builds the landing state for config
func InitMissionState(config *MissionConfig) *MissionState {
	rover := config.StartRover()
	name := config.Name
	if name == "" {
		name = DefaultMissionName
	}

	return &MissionState{
		Plateau:         config.Plateau,
		Rover:           rover,
		Report:          rover.Report(),
		Message:         fmt.Sprintf("Rover landed at %s on a %s plateau", rover.Report(), config.Plateau),
		ConfigName:      name,
		CommandHistory:  []CommandHistoryEntry{},
		CurrentCommands: []CommandHistoryEntry{},
	}
}

// ClassicMission is the first rover of the original challenge input
func ClassicMission() *MissionConfig {
	return &MissionConfig{
		Name:        "classic",
		Description: "First rover of the classic challenge: 5x5 plateau, lands at 1 2 N",
		Plateau:     Plateau{MaxX: 5, MaxY: 5},
		Start:       Position{X: 1, Y: 2},
		Heading:     North,
		Commands:    "LMLMLMLMM",
		Expected:    "1 3 N",
	}
}
