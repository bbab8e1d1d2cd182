package model

import "strings"

// Record is the parsed form of one export entry before it is mapped to an
// output schema. Empty strings mean the field was absent.
type Record struct {
	// Name is the display label. Records without one are dropped.
	Name string

	// Kind is derived from which labels were present.
	Kind Kind

	// URL is the website address.
	URL string

	// Login is the username.
	Login string

	// Password is the secret.
	Password string

	// Comment is the free-form comment of a login entry.
	Comment string

	// Text is the body of a note, lines joined with "\n".
	Text string
}

// HasName reports whether the record carries a usable display label.
func (r *Record) HasName() bool {
	return r != nil && strings.TrimSpace(r.Name) != ""
}

// IsEmpty returns true if the record has no meaningful data.
func (r *Record) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Name == "" && r.URL == "" && r.Login == "" &&
		r.Password == "" && r.Comment == "" && r.Text == ""
}

// IsNote reports whether the record maps to a secure note.
func (r *Record) IsNote() bool {
	return r != nil && r.Kind == KindNote
}
