package input

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wricardo/mars-rover/mission/engine"
)

// MaxPlateauDimension is the largest accepted plateau bound on either axis.
// It keeps every cell count and every candidate step inside int32.
const MaxPlateauDimension = math.MaxInt32 - 1

// Validate checks a payload and converts it to an engine config. Checks run
// in order: structure, plateau, starting position, direction.
func Validate(p *Payload) (*engine.MissionConfig, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payload is nil", ErrInvalidInputFormat)
	}
	if err := checkStructure(p); err != nil {
		return nil, err
	}

	maxX, maxY := *p.TopRightCorner.X, *p.TopRightCorner.Y
	if maxX < 0 || maxY < 0 {
		return nil, fmt.Errorf("%w: %d,%d must not be negative", ErrInvalidPlateau, maxX, maxY)
	}
	if maxX > MaxPlateauDimension || maxY > MaxPlateauDimension {
		return nil, fmt.Errorf("%w: %d,%d exceeds %d", ErrInvalidPlateau, maxX, maxY, MaxPlateauDimension)
	}

	x, y := *p.RoverPosition.X, *p.RoverPosition.Y
	if x < 0 || y < 0 || x > maxX || y > maxY {
		return nil, fmt.Errorf("%w: (%d,%d) is outside plateau 0..%d, 0..%d", ErrInvalidInitialPosition, x, y, maxX, maxY)
	}

	heading, err := parseHeading(*p.RoverDirection)
	if err != nil {
		return nil, err
	}

	return &engine.MissionConfig{
		Name:     engine.DefaultMissionName,
		Plateau:  engine.Plateau{MaxX: int(maxX), MaxY: int(maxY)},
		Start:    engine.Position{X: int(x), Y: int(y)},
		Heading:  heading,
		Commands: *p.Movements,
	}, nil
}

func parseHeading(s string) (engine.Direction, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return engine.North, fmt.Errorf("%w: %q must be a single letter", ErrInvalidDirection, s)
	}
	d, ok := engine.ParseDirection(runes[0])
	if !ok {
		return engine.North, fmt.Errorf("%w: %q is not one of N, E, S, W", ErrInvalidDirection, s)
	}
	return d, nil
}

// Decode parses and validates a JSON payload in one step
func Decode(data []byte) (*engine.MissionConfig, error) {
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Validate(p)
}

// DecodeText parses and validates every rover in a classic text input. The
// first invalid rover stops decoding.
func DecodeText(data []byte) ([]*engine.MissionConfig, error) {
	payloads, err := ParseText(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	configs := make([]*engine.MissionConfig, 0, len(payloads))
	for i, p := range payloads {
		cfg, err := Validate(p)
		if err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
		cfg.Name = fmt.Sprintf("rover-%d", i+1)
		configs = append(configs, cfg)
	}
	return configs, nil
}
