package sources

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrSourceNotFound(t *testing.T) {
	err := &ErrSourceNotFound{Path: "/path/to/file.xyz"}
	if !strings.Contains(err.Error(), "/path/to/file.xyz") {
		t.Errorf("Error message should contain path: %s", err.Error())
	}
}

func TestErrInvalidFormat(t *testing.T) {
	t.Run("Basic error", func(t *testing.T) {
		err := &ErrInvalidFormat{
			Source: "kaspersky",
			Path:   "/export.txt",
		}
		msg := err.Error()
		if !strings.Contains(msg, "kaspersky") || !strings.Contains(msg, "/export.txt") {
			t.Errorf("Error message should contain source and path: %s", msg)
		}
	})

	t.Run("With details", func(t *testing.T) {
		err := &ErrInvalidFormat{
			Source:  "kaspersky",
			Path:    "/export.txt",
			Details: "input is not valid UTF-8",
		}
		if !strings.Contains(err.Error(), "input is not valid UTF-8") {
			t.Errorf("Error message should contain details: %s", err.Error())
		}
	})

	t.Run("With underlying error", func(t *testing.T) {
		underlying := errors.New("size error")
		err := &ErrInvalidFormat{
			Source: "kaspersky",
			Path:   "/export.txt",
			Err:    underlying,
		}
		if !strings.Contains(err.Error(), "size error") {
			t.Errorf("Error message should contain underlying error: %s", err.Error())
		}
		if !errors.Is(err, underlying) {
			t.Error("errors.Is should see the underlying error")
		}
	})
}

func TestErrPermissionDenied(t *testing.T) {
	underlying := errors.New("EACCES")
	err := &ErrPermissionDenied{Path: "/export.txt", Op: "read", Err: underlying}

	msg := err.Error()
	if !strings.Contains(msg, "read") || !strings.Contains(msg, "/export.txt") {
		t.Errorf("Error message should contain op and path: %s", msg)
	}
	if err.Unwrap() != underlying {
		t.Error("Unwrap should return underlying error")
	}
}

func TestErrFileNotFound(t *testing.T) {
	err := &ErrFileNotFound{Path: "/missing.txt"}
	if !strings.Contains(err.Error(), "/missing.txt") {
		t.Errorf("Error message should contain path: %s", err.Error())
	}
}

func TestErrorHelpers(t *testing.T) {
	otherErr := errors.New("other error")

	t.Run("IsFormatError", func(t *testing.T) {
		wrapped := fmt.Errorf("failed to open source: %w", &ErrInvalidFormat{Source: "test"})
		if !IsFormatError(wrapped) {
			t.Error("IsFormatError should return true for wrapped ErrInvalidFormat")
		}
		if IsFormatError(otherErr) {
			t.Error("IsFormatError should return false for other errors")
		}
	})

	t.Run("IsPermissionError", func(t *testing.T) {
		if !IsPermissionError(&ErrPermissionDenied{Path: "/x", Op: "read"}) {
			t.Error("IsPermissionError should return true for ErrPermissionDenied")
		}
		if IsPermissionError(otherErr) {
			t.Error("IsPermissionError should return false for other errors")
		}
	})

	t.Run("IsNotFound", func(t *testing.T) {
		if !IsNotFound(&ErrFileNotFound{Path: "/test"}) {
			t.Error("IsNotFound should return true for ErrFileNotFound")
		}
		if !IsNotFound(&ErrSourceNotFound{Path: "/test"}) {
			t.Error("IsNotFound should return true for ErrSourceNotFound")
		}
		if IsNotFound(otherErr) {
			t.Error("IsNotFound should return false for other errors")
		}
	})
}
