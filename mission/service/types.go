package service

import (
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
)

// Sources recorded with executed missions
const (
	SourceAPI      = "api"
	SourceBatch    = "batch"
	SourceScenario = "scenario"
	SourceSession  = "session"
	SourceCLI      = "cli"
	SourceMCP      = "mcp"
)

// ExecuteOptions tunes a one-shot mission
type ExecuteOptions struct {
	Source string `json:"source,omitempty"`
	Trace  bool   `json:"trace,omitempty"`
}

// MissionResult contains the outcome of a one-shot mission
type MissionResult struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Report   string         `json:"report"`
	Plateau  engine.Plateau `json:"plateau"`
	Start    engine.Rover   `json:"start"`
	Rover    engine.Rover   `json:"rover"`
	Commands string         `json:"commands"`
	Summary  engine.Summary `json:"summary"`
	Steps    []engine.Step  `json:"steps,omitempty"`
}

// BatchResult contains every rover of a classic text input
type BatchResult struct {
	Results []*MissionResult `json:"results"`
	Output  string           `json:"output"`
}

// SessionRequest describes how to land a rover for a new session. When
// TopRightCorner is set the explicit fields are used, otherwise Scenario or
// the default scenario.
type SessionRequest struct {
	Scenario       string             `json:"scenario,omitempty"`
	TopRightCorner *input.Coordinates `json:"topRightCorner,omitempty"`
	RoverPosition  *input.Coordinates `json:"roverPosition,omitempty"`
	RoverDirection string             `json:"roverDirection,omitempty"`
}

// SessionInfo provides information about a rover session
type SessionInfo struct {
	ID             string                `json:"id"`
	ScenarioName   string                `json:"scenario_name,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	State          *engine.MissionState  `json:"state"`
	Config         *engine.MissionConfig `json:"config"`
}

// CommandResult contains the result of sending commands to a session rover
type CommandResult struct {
	Report         string               `json:"report"`
	Rover          engine.Rover         `json:"rover"`
	Start          engine.Rover         `json:"start"`
	Summary        engine.Summary       `json:"summary"`
	Steps          []engine.Step        `json:"steps"`
	Events         []MissionEvent       `json:"events"`
	Message        string               `json:"message"`
	CanMoveForward bool                 `json:"can_move_forward"`
	State          *engine.MissionState `json:"state"`
}

// MissionEvent represents something notable that happened to a rover
type MissionEvent struct {
	Type      string          `json:"type"` // "reset", "moved", "blocked", "ignored"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []engine.CommandHistoryEntry `json:"commands"`
	TotalCommands int                          `json:"total_commands"`
	Page          int                          `json:"page"`
	PageSize      int                          `json:"page_size"`
	TotalPages    int                          `json:"total_pages"`
	HasNext       bool                         `json:"has_next"`
	HasPrevious   bool                         `json:"has_previous"`
}

// ScenarioInfo provides information about a scenario file
type ScenarioInfo struct {
	Filename    string         `json:"filename"`
	ScenarioID  string         `json:"scenario_id"` // The identifier to use for session creation
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Plateau     engine.Plateau `json:"plateau"`
	Start       string         `json:"start"`
	Commands    string         `json:"commands"`
	Expected    string         `json:"expected,omitempty"`
}

// ScenarioRun is the result of replaying a scenario
type ScenarioRun struct {
	Scenario string         `json:"scenario"`
	Result   *MissionResult `json:"result"`
	Expected string         `json:"expected,omitempty"`
	Checked  bool           `json:"checked"`
	Passed   bool           `json:"passed"`
}
