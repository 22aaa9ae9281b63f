package input

import (
	"strings"

	"github.com/wricardo/mars-rover/mission/engine"
)

// Coordinates is an x,y pair as it appears in a request. Pointers let the
// parser tell a missing key from a zero.
type Coordinates struct {
	X *int64 `json:"x" yaml:"x" validate:"required"`
	Y *int64 `json:"y" yaml:"y" validate:"required"`
}

// Payload is one mission request
type Payload struct {
	TopRightCorner *Coordinates `json:"topRightCorner" yaml:"topRightCorner" validate:"required"`
	RoverPosition  *Coordinates `json:"roverPosition" yaml:"roverPosition" validate:"required"`
	RoverDirection *string      `json:"roverDirection" yaml:"roverDirection" validate:"required"`
	Movements      *string      `json:"movements" yaml:"movements" validate:"required"`
}

// NewPayload builds a fully populated payload
func NewPayload(maxX, maxY, x, y int64, direction, movements string) *Payload {
	return &Payload{
		TopRightCorner: &Coordinates{X: &maxX, Y: &maxY},
		RoverPosition:  &Coordinates{X: &x, Y: &y},
		RoverDirection: &direction,
		Movements:      &movements,
	}
}

// FromConfig converts an engine config back into its request form
func FromConfig(config *engine.MissionConfig) *Payload {
	return NewPayload(
		int64(config.Plateau.MaxX), int64(config.Plateau.MaxY),
		int64(config.Start.X), int64(config.Start.Y),
		config.Heading.String(), config.Commands,
	)
}

// Text renders the payload in the classic text format
func (p *Payload) Text() string {
	var b strings.Builder
	b.WriteString(formatPair(p.TopRightCorner))
	b.WriteByte('\n')
	b.WriteString(formatPair(p.RoverPosition))
	b.WriteByte(' ')
	if p.RoverDirection != nil {
		b.WriteString(*p.RoverDirection)
	}
	b.WriteByte('\n')
	if p.Movements != nil {
		b.WriteString(*p.Movements)
	}
	b.WriteByte('\n')
	return b.String()
}
