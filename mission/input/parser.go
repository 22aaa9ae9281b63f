package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes a JSON payload and checks that every field is present
func Parse(data []byte) (*Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidInputFormat)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, classifyDecodeError(err)
	}

	if err := checkStructure(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseReader is Parse over a reader
func ParseReader(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputFormat, err)
	}
	return Parse(data)
}

func checkStructure(p *Payload) error {
	if err := structValidator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, strings.TrimPrefix(fe.Namespace(), "Payload."))
			}
			return fmt.Errorf("%w: missing %s", ErrInvalidInputFormat, strings.Join(missing, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInputFormat, err)
	}
	return nil
}

// classifyDecodeError maps JSON decode failures to validation errors. Whole
// numbers too large for int64 are reported against the field they overflow.
func classifyDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		literal := strings.TrimPrefix(typeErr.Value, "number ")
		if literal != typeErr.Value && isWholeNumber(literal) {
			switch {
			case strings.HasPrefix(typeErr.Field, "topRightCorner"):
				return fmt.Errorf("%w: %s overflows (%s)", ErrInvalidPlateau, typeErr.Field, literal)
			case strings.HasPrefix(typeErr.Field, "roverPosition"):
				return fmt.Errorf("%w: %s overflows (%s)", ErrInvalidInitialPosition, typeErr.Field, literal)
			}
		}
		return fmt.Errorf("%w: field %s cannot hold %s", ErrInvalidInputFormat, typeErr.Field, typeErr.Value)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInputFormat, err)
}

func isWholeNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseText reads the classic text format: a plateau line, then a position
// line and a commands line per rover. Blank lines are skipped, so a rover
// with no commands can only appear last.
func ParseText(r io.Reader) ([]*Payload, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	type line struct {
		number int
		text   string
	}
	var lines []line
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, line{number: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputFormat, err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no plateau line", ErrInvalidInputFormat)
	}

	plateau, err := parsePair(lines[0].text)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: plateau: %v", pairErrorKind(err, ErrInvalidPlateau), lines[0].number, err)
	}

	rest := lines[1:]
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no rovers after plateau line", ErrInvalidInputFormat)
	}

	var payloads []*Payload
	for i := 0; i < len(rest); i += 2 {
		fields := strings.Fields(rest[i].text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected \"x y D\", got %q", ErrInvalidInputFormat, rest[i].number, rest[i].text)
		}
		pos, err := parsePair(fields[0] + " " + fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: position: %v", pairErrorKind(err, ErrInvalidInitialPosition), rest[i].number, err)
		}

		movements := ""
		if i+1 < len(rest) {
			movements = rest[i+1].text
		}

		payloads = append(payloads, NewPayload(*plateau.X, *plateau.Y, *pos.X, *pos.Y, fields[2], movements))
	}

	return payloads, nil
}

func parsePair(s string) (*Coordinates, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return nil, fmt.Errorf("expected two integers, got %q", s)
	}
	x, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("y: %w", err)
	}
	return &Coordinates{X: &x, Y: &y}, nil
}

// pairErrorKind reports overflowing integers as overflow, the same way the
// JSON decoder does, and anything else as a format error
func pairErrorKind(err, overflow error) error {
	if errors.Is(err, strconv.ErrRange) {
		return overflow
	}
	return ErrInvalidInputFormat
}

func formatPair(c *Coordinates) string {
	if c == nil || c.X == nil || c.Y == nil {
		return ""
	}
	return fmt.Sprintf("%d %d", *c.X, *c.Y)
}
