package engine

import (
	"fmt"
	"sync"
)

// Engine provides the main interface for mission operations
type Engine interface {
	// Mission state management
	GetState() *MissionState
	SetState(state *MissionState) error
	Reset() *MissionState
	GetRover() Rover
	GetPlateau() Plateau

	// Commands
	Execute(commands string) *ExecutionResult
	CanMove() bool

	// Configuration
	GetConfig() *MissionConfig

	// History
	GetCommandHistory() []CommandHistoryEntry
	GetLastCommand() *CommandHistoryEntry
}

// MissionEngine implements the Engine interface for a single rover. It is
// safe for concurrent use; readers get snapshots of the state.
type MissionEngine struct {
	mu     sync.RWMutex
	state  *MissionState
	config *MissionConfig
}

// NewEngine creates a new mission engine with the provided configuration
func NewEngine(config *MissionConfig) (*MissionEngine, error) {
	if err := ValidateMissionConfig(config); err != nil {
		return nil, err
	}

	return &MissionEngine{
		config: config,
		state:  InitMissionState(config),
	}, nil
}

// GetState returns a snapshot of the current mission state. Later commands
// do not change it.
func (e *MissionEngine) GetState() *MissionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Snapshot()
}

// SetState replaces the mission state (used when loading persisted sessions).
// The engine keeps its own copy.
func (e *MissionEngine) SetState(state *MissionState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if !state.Plateau.IsWithinBounds(state.Rover.Position) {
		return fmt.Errorf("%w: rover %s is outside plateau %s", ErrInvalidConfig, state.Rover.Report(), state.Plateau)
	}
	e.mu.Lock()
	e.state = state.Snapshot()
	e.mu.Unlock()
	return nil
}

// Reset puts the rover back at its landing position
func (e *MissionEngine) Reset() *MissionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevHistory := e.state.CommandHistory
	prevTotal := e.state.TotalCommands

	e.state = InitMissionState(e.config)

	// Cumulative history survives; only the current segment is cleared
	e.state.CommandHistory = prevHistory
	e.state.TotalCommands = prevTotal
	e.state.Message = fmt.Sprintf("Rover reset to %s", e.state.Report)

	return e.state.Snapshot()
}

// GetRover returns a copy of the current rover
func (e *MissionEngine) GetRover() Rover {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Rover
}

// GetPlateau returns the plateau the mission runs on
func (e *MissionEngine) GetPlateau() Plateau {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Plateau
}

// Execute runs commands against the rover and records every step
func (e *MissionEngine) Execute(commands string) *ExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.state.Rover
	steps, after := Trace(before, e.state.Plateau, commands)

	for _, step := range steps {
		e.state.AddCommandToHistory(step)
	}
	e.state.TrimHistory()

	summary := Summarize(steps)
	e.state.Rover = after
	e.state.Report = after.Report()
	e.state.Message = describeSummary(after, summary)

	return &ExecutionResult{
		Commands: commands,
		Before:   before,
		Rover:    after,
		Report:   after.Report(),
		Steps:    steps,
		Summary:  summary,
	}
}

// CanMove reports whether an M command would move the rover right now
func (e *MissionEngine) CanMove() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	next := e.state.Rover.Position.Step(e.state.Rover.Direction)
	return e.state.Plateau.IsWithinBounds(next)
}

// GetConfig returns the mission configuration
func (e *MissionEngine) GetConfig() *MissionConfig {
	return e.config
}

// GetCommandHistory returns a copy of the cumulative command history
func (e *MissionEngine) GetCommandHistory() []CommandHistoryEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneHistory(e.state.CommandHistory)
}

// GetLastCommand returns the last processed command, or nil if there is none
func (e *MissionEngine) GetLastCommand() *CommandHistoryEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.state.CommandHistory) == 0 {
		return nil
	}
	last := e.state.CommandHistory[len(e.state.CommandHistory)-1]
	return &last
}
