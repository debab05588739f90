package session

import "gitlab.com/tozd/go/errors"

// Validation and state errors returned by Session. They are safe to show to
// the user as-is.
var (
	ErrNoFiles          = errors.New("no files selected")
	ErrTooManyFiles     = errors.New("too many files selected")
	ErrUnsupportedInput = errors.New("unsupported file type")
	ErrNoTargets        = errors.New("no output format selected")
	ErrNotConverted     = errors.New("file has not been converted")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidTarget    = errors.New("invalid output format")
	ErrBusy             = errors.New("conversion already running")
)
