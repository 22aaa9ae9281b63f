package missionlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mars-rover/mission/engine"
)

// Record is one executed mission
type Record struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Name         string    `json:"name,omitempty"`
	PlateauX     int       `json:"plateau_x"`
	PlateauY     int       `json:"plateau_y"`
	StartX       int       `json:"start_x"`
	StartY       int       `json:"start_y"`
	StartHeading string    `json:"start_heading"`
	Commands     string    `json:"commands"`
	FinalX       int       `json:"final_x"`
	FinalY       int       `json:"final_y"`
	FinalHeading string    `json:"final_heading"`
	Report       string    `json:"report"`
	Expected     string    `json:"expected,omitempty"`
	Moves        int       `json:"moves"`
	Blocked      int       `json:"blocked"`
	Turns        int       `json:"turns"`
	Ignored      int       `json:"ignored"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRecord builds a record for a finished mission with a fresh ID
func NewRecord(source string, config *engine.MissionConfig, result *engine.ExecutionResult) *Record {
	return &Record{
		ID:           uuid.NewString(),
		Source:       source,
		Name:         config.Name,
		PlateauX:     config.Plateau.MaxX,
		PlateauY:     config.Plateau.MaxY,
		StartX:       config.Start.X,
		StartY:       config.Start.Y,
		StartHeading: config.Heading.String(),
		Commands:     config.Commands,
		FinalX:       result.Rover.Position.X,
		FinalY:       result.Rover.Position.Y,
		FinalHeading: result.Rover.Direction.String(),
		Report:       result.Report,
		Expected:     config.Expected,
		Moves:        result.Summary.Moves,
		Blocked:      result.Summary.Blocked,
		Turns:        result.Summary.Turns,
		Ignored:      result.Summary.Ignored,
		CreatedAt:    time.Now().UTC(),
	}
}

// StartReport formats the landing position as "x y D"
func (r *Record) StartReport() string {
	rover := engine.Rover{Position: engine.Position{X: r.StartX, Y: r.StartY}}
	if d, ok := engine.ParseDirection(firstRune(r.StartHeading)); ok {
		rover.Direction = d
	}
	return rover.Report()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
