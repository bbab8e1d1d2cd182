// Package model defines the intermediate record produced by the export parsers
// and consumed by the output generators.
package model

import "fmt"

// Kind represents which shape an entry will take in the output.
type Kind int

const (
	// KindUnknown is an entry that carried neither login nor note labels.
	KindUnknown Kind = iota
	// KindLogin is a website or application login.
	KindLogin
	// KindNote is a named note with free text.
	KindNote
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindLogin:
		return "login"
	case KindNote:
		return "note"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "unknown":
		return KindUnknown, nil
	case "login":
		return KindLogin, nil
	case "note":
		return KindNote, nil
	default:
		return KindUnknown, fmt.Errorf("unknown record kind: %s", s)
	}
}
