package period

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a constructor receives an out-of-range
	// or non-positive value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("invalid format")

	// ErrArithmetic matches every *ArithmeticError.
	ErrArithmetic = errors.New("date/time arithmetic error")
)

// FormatError reports text that violates a grammar.
// Pos is the byte offset in Input at which the problem was detected.
type FormatError struct {
	Input string
	Pos   int
	Msg   string
}

// Error returns a string representation of the format error, implementing the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("parse %q: error at char %d: %s", e.Input, e.Pos, e.Msg)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// ArithmeticError reports a displacement whose result is not representable.
// Err is the underlying cause, usually an integer overflow or a value that left
// the supported range.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrArithmetic.
func (e *ArithmeticError) Is(target error) bool {
	return target == ErrArithmetic
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
