package datetime

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-datetime/period"
)

// The error taxonomy is shared with package period so that callers can match
// errors from both packages with the same values.
type (
	FormatError     = period.FormatError
	ArithmeticError = period.ArithmeticError
)

var (
	ErrInvalidArgument = period.ErrInvalidArgument
	ErrFormat          = period.ErrFormat
	ErrArithmetic      = period.ErrArithmetic

	// ErrOutOfRange is the cause of an *ArithmeticError whose result lies
	// outside the supported range of dates or instants.
	ErrOutOfRange = errors.New("result out of the supported range")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func arithmeticError(err error, format string, args ...any) error {
	var ae *ArithmeticError
	if errors.As(err, &ae) {
		return err
	}
	return &ArithmeticError{Op: fmt.Sprintf(format, args...), Err: err}
}
