package profiler

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrFrameMismatch is returned when End names a frame other than the innermost open one.
	ErrFrameMismatch = errors.New("frame mismatch")

	// ErrNoActiveFrame is returned when End or Partition finds no open frame.
	ErrNoActiveFrame = errors.New("no active frame")

	// ErrFramesOpen is returned when Reset is called while frames are still open.
	ErrFramesOpen = errors.New("frames still open")
)

// MismatchError describes an End call whose name does not match the innermost open frame.
// It unwraps to ErrFrameMismatch.
type MismatchError struct {
	// Expected is the name of the frame that was on top of the stack.
	Expected string

	// Actual is the name passed to End.
	Actual string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected to end frame %q, not %q", e.Expected, e.Actual)
}

// Unwrap returns ErrFrameMismatch so callers can match with errors.Is.
func (*MismatchError) Unwrap() error {
	return ErrFrameMismatch
}

func newMismatchError(expected, actual string) error {
	return errors.WithStack(&MismatchError{Expected: expected, Actual: actual})
}
