package bitwarden

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the timestamp format Bitwarden writes in its exports.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Provider supplies item identifiers and the current time.
type Provider interface {
	NewID() string
	Now() time.Time
}

type systemProvider struct{}

// SystemProvider returns a Provider backed by random UUIDs and the wall clock.
func SystemProvider() Provider {
	return systemProvider{}
}

func (systemProvider) NewID() string {
	return uuid.NewString()
}

func (systemProvider) Now() time.Time {
	return time.Now().UTC()
}

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
