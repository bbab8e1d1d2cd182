// Package security provides helpers for handling secrets and validating inputs.
package security

import (
	"crypto/subtle"
)

// SecureBytes wraps a byte slice and ensures it's zeroed when no longer needed.
// The export password and the keys derived from it travel in SecureBytes.
type SecureBytes struct {
	data []byte
}

// FromBytes creates a SecureBytes from existing bytes and clears the source.
func FromBytes(data []byte) *SecureBytes {
	s := &SecureBytes{
		data: make([]byte, len(data)),
	}
	copy(s.data, data)
	for i := range data {
		data[i] = 0
	}
	return s
}

// Bytes returns the underlying byte slice. Caller must not retain this reference.
func (s *SecureBytes) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Len returns the length of the secure bytes.
func (s *SecureBytes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Zero clears the bytes and drops the reference.
func (s *SecureBytes) Zero() {
	if s == nil || s.data == nil {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
	// Keep the compiler from eliding the loop above.
	if len(s.data) > 0 {
		subtle.ConstantTimeCopy(1, s.data, make([]byte, len(s.data)))
	}
	s.data = nil
}

// Equal compares two SecureBytes in constant time.
func (s *SecureBytes) Equal(other *SecureBytes) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.data) != len(other.data) {
		return false
	}
	return subtle.ConstantTimeCompare(s.data, other.data) == 1
}

// Wipe zeroes and nils out a slice. Meant to be deferred.
func Wipe(data *[]byte) {
	if data == nil || *data == nil {
		return
	}
	for i := range *data {
		(*data)[i] = 0
	}
	*data = nil
}
