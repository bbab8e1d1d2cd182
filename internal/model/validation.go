package model

import (
	"errors"

	"github.com/nvinuesa/kaspwarden/internal/security"
)

// Validation errors.
var (
	ErrEmptyRecord = errors.New("record is empty")
	ErrMissingName = errors.New("record name is required")
)

// Validate reports why a record would be skipped or looks suspicious.
// A missing name is the only condition the generators act on; length
// violations are informational.
func (r *Record) Validate() error {
	if r.IsEmpty() {
		return ErrEmptyRecord
	}
	if !r.HasName() {
		return ErrMissingName
	}

	if err := security.ValidateStringLength(r.Name, security.MaxNameLength, "name"); err != nil {
		return err
	}
	if err := security.ValidateStringLength(r.Login, security.MaxUsernameLength, "login"); err != nil {
		return err
	}
	if err := security.ValidateStringLength(r.Password, security.MaxPasswordLength, "password"); err != nil {
		return err
	}
	if err := security.ValidateURL(r.URL); err != nil {
		return err
	}
	if err := security.ValidateStringLength(r.Comment, security.MaxNotesLength, "comment"); err != nil {
		return err
	}
	if err := security.ValidateStringLength(r.Text, security.MaxNotesLength, "text"); err != nil {
		return err
	}

	return nil
}
