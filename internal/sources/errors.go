package sources

import (
	"errors"
	"fmt"
)

// Common errors that can be returned by source adapters.
var (
	// ErrNotOpen is returned when Read is called before Open.
	ErrNotOpen = errors.New("source not open")

	// ErrAlreadyOpen is returned when Open is called on an already-open source.
	ErrAlreadyOpen = errors.New("source already open")
)

// ErrSourceNotFound indicates that no source adapter could handle the given path.
type ErrSourceNotFound struct {
	Path string
}

func (e *ErrSourceNotFound) Error() string {
	return fmt.Sprintf("no source found for %q", e.Path)
}

// ErrInvalidFormat indicates that the export file is not in the expected format.
type ErrInvalidFormat struct {
	Source  string // Source adapter name
	Path    string // File path
	Details string // What was wrong
	Err     error  // Underlying error, if any
}

func (e *ErrInvalidFormat) Error() string {
	msg := fmt.Sprintf("%s: invalid format for %q", e.Source, e.Path)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrInvalidFormat) Unwrap() error {
	return e.Err
}

// ErrPermissionDenied indicates a file access problem other than absence.
type ErrPermissionDenied struct {
	Path string
	Op   string // Operation that failed (stat, read)
	Err  error
}

func (e *ErrPermissionDenied) Error() string {
	msg := fmt.Sprintf("permission denied: cannot %s %q", e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrPermissionDenied) Unwrap() error {
	return e.Err
}

// ErrFileNotFound indicates the specified file does not exist.
type ErrFileNotFound struct {
	Path string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file not found: %q", e.Path)
}

// IsFormatError returns true if the error is a format error.
func IsFormatError(err error) bool {
	var formatErr *ErrInvalidFormat
	return errors.As(err, &formatErr)
}

// IsPermissionError returns true if the error is a file access error.
func IsPermissionError(err error) bool {
	var permErr *ErrPermissionDenied
	return errors.As(err, &permErr)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	var notFoundErr *ErrFileNotFound
	var sourceNotFoundErr *ErrSourceNotFound
	return errors.As(err, &notFoundErr) || errors.As(err, &sourceNotFoundErr)
}
