package convert

import (
	"fmt"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoEncoder is returned when the target format cannot be written
	ErrNoEncoder = errors.New("no encoder for target format")
	// ErrNoRenderer is returned when no document renderer is available
	ErrNoRenderer = errors.New("no document renderer available")
)

// Error describes a failed conversion of one file
type Error struct {
	Path   string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("converting %s to %s: %v", filepath.Base(e.Path), e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(path, target string, err error) error {
	return &Error{Path: path, Target: target, Err: err}
}
