package input

import "errors"

// Validation errors. Every error returned by this package wraps one of these.
var (
	ErrInvalidInputFormat     = errors.New("invalid input format")
	ErrInvalidPlateau         = errors.New("invalid plateau dimensions")
	ErrInvalidInitialPosition = errors.New("invalid initial position")
	ErrInvalidDirection       = errors.New("invalid direction character")
)

// Machine-readable codes for the validation errors
const (
	CodeInvalidInputFormat     = "invalid_input_format"
	CodeInvalidPlateau         = "invalid_plateau"
	CodeInvalidInitialPosition = "invalid_initial_position"
	CodeInvalidDirection       = "invalid_direction"
)

// ErrorCode returns the code for a validation error, or "" if err is not one
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInputFormat):
		return CodeInvalidInputFormat
	case errors.Is(err, ErrInvalidPlateau):
		return CodeInvalidPlateau
	case errors.Is(err, ErrInvalidInitialPosition):
		return CodeInvalidInitialPosition
	case errors.Is(err, ErrInvalidDirection):
		return CodeInvalidDirection
	}
	return ""
}

// IsValidationError reports whether err came from parsing or validation
func IsValidationError(err error) bool {
	return ErrorCode(err) != ""
}
