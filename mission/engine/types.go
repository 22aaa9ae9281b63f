package engine

const (
	// MaxHistoryEntries caps the cumulative command history kept per mission.
	// Older entries are dropped first.
	MaxHistoryEntries = 1000
	// DefaultMissionName is used when a mission config carries no name
	DefaultMissionName = "mission"
)

// MissionConfig describes a mission: the plateau, where the rover lands and
// the commands it is sent. Expected is an optional report used by scenarios.
type MissionConfig struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Plateau     Plateau   `json:"plateau"`
	Start       Position  `json:"start"`
	Heading     Direction `json:"heading"`
	Commands    string    `json:"commands,omitempty"`
	Expected    string    `json:"expected,omitempty"`
}

// StartRover returns the rover as it lands, before any command
func (c *MissionConfig) StartRover() Rover {
	return Rover{Position: c.Start, Direction: c.Heading}
}

// MissionState represents the complete state of a running mission
type MissionState struct {
	Plateau    Plateau `json:"plateau"`
	Rover      Rover   `json:"rover"`
	Report     string  `json:"report"`
	Message    string  `json:"message"`
	ConfigName string  `json:"config_name"`

	CommandHistory []CommandHistoryEntry `json:"command_history"`
	TotalCommands  int                   `json:"total_commands"`

	// CurrentCommands holds only the commands since the last reset while
	// CommandHistory stays cumulative.
	CurrentCommands      []CommandHistoryEntry `json:"current_commands"`
	CurrentCommandsCount int                   `json:"current_commands_count"`

	// Summary counts outcomes since the last reset
	Summary Summary `json:"summary"`
}

// CommandHistoryEntry represents a single processed command rune
type CommandHistoryEntry struct {
	Command       string    `json:"command"`
	Outcome       Outcome   `json:"outcome"`
	FromPosition  Position  `json:"from_position"`
	ToPosition    Position  `json:"to_position"`
	FromDirection Direction `json:"from_direction"`
	ToDirection   Direction `json:"to_direction"`
	Timestamp     int64     `json:"timestamp"`
	CommandNumber int       `json:"command_number"`
}

// ExecutionResult is what one Execute call did
type ExecutionResult struct {
	Commands string  `json:"commands"`
	Before   Rover   `json:"before"`
	Rover    Rover   `json:"rover"`
	Report   string  `json:"report"`
	Steps    []Step  `json:"steps"`
	Summary  Summary `json:"summary"`
}
